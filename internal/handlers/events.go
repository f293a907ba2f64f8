package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/adminboard/apiserver/internal/services"
	"github.com/adminboard/apiserver/internal/store"
	"github.com/adminboard/apiserver/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EventHandler provides HTTP handlers for calendar events.
type EventHandler struct {
	eventService *services.EventService
	logger       *zap.Logger
}

func NewEventHandler(eventService *services.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{eventService: eventService, logger: logger}
}

// EventRouter registers event routes on the given router.
func EventRouter(r chi.Router, eventService *services.EventService, logger *zap.Logger) {
	handler := NewEventHandler(eventService, logger)

	r.Get("/", handler.ListEvents)
	r.Post("/", handler.CreateEvent)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.GetEvent)
		r.Put("/", handler.UpdateEvent)
		r.Delete("/", handler.DeleteEvent)
	})
}

// CreateEventRequest is the body of POST /api/events. Start and End are
// RFC 3339 timestamps.
type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	Color       *string    `json:"color"`
}

func (req CreateEventRequest) toNewEvent() (types.NewEvent, error) {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return types.NewEvent{}, errors.New("title is required")
	case req.Start == nil:
		return types.NewEvent{}, errors.New("start is required")
	case req.End == nil:
		return types.NewEvent{}, errors.New("end is required")
	}
	input := types.NewEvent{
		Title:       req.Title,
		Description: req.Description,
		Start:       *req.Start,
		End:         *req.End,
	}
	if req.Color != nil {
		input.Color = *req.Color
	}
	return input, nil
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context())
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to list events", err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "event")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.eventService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeInternalError(w, r, h.logger, "failed to fetch event", err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input, err := req.toNewEvent()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.eventService.Create(r.Context(), input)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to create event", err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "event")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch types.EventPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.eventService.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeInternalError(w, r, h.logger, "failed to update event", err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "event")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	removed, err := h.eventService.Delete(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to delete event", err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
