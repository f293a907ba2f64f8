package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adminboard/apiserver/internal/services"
	"github.com/adminboard/apiserver/internal/store"
	"github.com/adminboard/apiserver/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TaskHandler provides HTTP handlers for kanban tasks.
type TaskHandler struct {
	taskService *services.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService *services.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// TaskRouter registers task routes on the given router.
func TaskRouter(r chi.Router, taskService *services.TaskService, logger *zap.Logger) {
	handler := NewTaskHandler(taskService, logger)

	r.Get("/", handler.ListTasks)
	r.Post("/", handler.CreateTask)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.GetTask)
		r.Put("/", handler.UpdateTask)
		r.Delete("/", handler.DeleteTask)
	})
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title          string             `json:"title"`
	Description    *string            `json:"description"`
	Status         types.TaskStatus   `json:"status"`
	Priority       types.TaskPriority `json:"priority"`
	Category       types.TaskCategory `json:"category"`
	AssigneeID     *int               `json:"assigneeId"`
	AssigneeName   *string            `json:"assigneeName"`
	AssigneeAvatar *string            `json:"assigneeAvatar"`
	Progress       *int               `json:"progress"`
}

func (req CreateTaskRequest) toNewTask() (types.NewTask, error) {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return types.NewTask{}, errors.New("title is required")
	case req.Status == "":
		return types.NewTask{}, errors.New("status is required")
	case req.Priority == "":
		return types.NewTask{}, errors.New("priority is required")
	case req.Category == "":
		return types.NewTask{}, errors.New("category is required")
	}
	if err := validateTaskFields(&req.Status, &req.Priority, &req.Category, req.Progress); err != nil {
		return types.NewTask{}, err
	}
	return types.NewTask{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Category:       req.Category,
		AssigneeID:     req.AssigneeID,
		AssigneeName:   req.AssigneeName,
		AssigneeAvatar: req.AssigneeAvatar,
		Progress:       req.Progress,
	}, nil
}

func validateTaskFields(status *types.TaskStatus, priority *types.TaskPriority, category *types.TaskCategory, progress *int) error {
	if status != nil && !status.Valid() {
		return errors.New("invalid status")
	}
	if priority != nil && !priority.Valid() {
		return errors.New("invalid priority")
	}
	if category != nil && !category.Valid() {
		return errors.New("invalid category")
	}
	if progress != nil && (*progress < 0 || *progress > 100) {
		return errors.New("progress must be between 0 and 100")
	}
	return nil
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	var filter store.TaskFilter
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		filter.Status = types.TaskStatus(raw)
		if !filter.Status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
	}

	tasks, err := h.taskService.List(r.Context(), filter)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to list tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "task")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeInternalError(w, r, h.logger, "failed to fetch task", err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input, err := req.toNewTask()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.taskService.Create(r.Context(), input)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to create task", err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "task")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch types.TaskPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateTaskFields(patch.Status, patch.Priority, patch.Category, patch.Progress); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.taskService.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeInternalError(w, r, h.logger, "failed to update task", err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "task")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	removed, err := h.taskService.Delete(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to delete task", err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
