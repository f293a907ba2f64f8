package services

import (
	"context"

	"github.com/adminboard/apiserver/internal/mq"
	"github.com/adminboard/apiserver/internal/store"
	"github.com/adminboard/apiserver/internal/telemetry"
	"github.com/adminboard/apiserver/types"
	"go.opentelemetry.io/otel/attribute"
)

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	GetTasks(ctx context.Context, filter store.TaskFilter) ([]types.Task, error)
	GetTask(ctx context.Context, id int) (types.Task, error)
	CreateTask(ctx context.Context, task types.NewTask) (types.Task, error)
	UpdateTask(ctx context.Context, id int, patch types.TaskPatch) (types.Task, error)
	DeleteTask(ctx context.Context, id int) (bool, error)
}

// TaskService encapsulates kanban task use-cases.
type TaskService struct {
	base
	repo TaskRepository
}

func NewTaskService(repo TaskRepository, opts ...Option) *TaskService {
	return &TaskService{base: newBase(mq.KindTask, opts), repo: repo}
}

func (s *TaskService) List(ctx context.Context, filter store.TaskFilter) (tasks []types.Task, err error) {
	ctx, span := s.span(ctx, "list", attribute.String("task.status", string(filter.Status)))
	defer func() { telemetry.EndSpan(span, err) }()
	return s.repo.GetTasks(ctx, filter)
}

func (s *TaskService) Get(ctx context.Context, id int) (task types.Task, err error) {
	ctx, span := s.span(ctx, "get", idAttr(id))
	defer func() { telemetry.EndSpan(span, err) }()
	return s.repo.GetTask(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, input types.NewTask) (task types.Task, err error) {
	ctx, span := s.span(ctx, "create")
	defer func() { telemetry.EndSpan(span, err) }()

	task, err = s.repo.CreateTask(ctx, input)
	if err != nil {
		return types.Task{}, err
	}
	s.notify(ctx, mq.ActionCreated, task.ID)
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id int, patch types.TaskPatch) (task types.Task, err error) {
	ctx, span := s.span(ctx, "update", idAttr(id))
	defer func() { telemetry.EndSpan(span, err) }()

	task, err = s.repo.UpdateTask(ctx, id, patch)
	if err != nil {
		return types.Task{}, err
	}
	s.notify(ctx, mq.ActionUpdated, id)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id int) (removed bool, err error) {
	ctx, span := s.span(ctx, "delete", idAttr(id))
	defer func() { telemetry.EndSpan(span, err) }()

	removed, err = s.repo.DeleteTask(ctx, id)
	if err != nil || !removed {
		return removed, err
	}
	s.notify(ctx, mq.ActionDeleted, id)
	return true, nil
}
