package services

import (
	"context"

	"github.com/adminboard/apiserver/internal/mq"
	"github.com/adminboard/apiserver/internal/telemetry"
	"github.com/adminboard/apiserver/types"
)

// EventRepository defines persistence operations for calendar events.
type EventRepository interface {
	GetEvents(ctx context.Context) ([]types.Event, error)
	GetEvent(ctx context.Context, id int) (types.Event, error)
	CreateEvent(ctx context.Context, event types.NewEvent) (types.Event, error)
	UpdateEvent(ctx context.Context, id int, patch types.EventPatch) (types.Event, error)
	DeleteEvent(ctx context.Context, id int) (bool, error)
}

// EventService encapsulates calendar use-cases.
type EventService struct {
	base
	repo EventRepository
}

func NewEventService(repo EventRepository, opts ...Option) *EventService {
	return &EventService{base: newBase(mq.KindEvent, opts), repo: repo}
}

func (s *EventService) List(ctx context.Context) (events []types.Event, err error) {
	ctx, span := s.span(ctx, "list")
	defer func() { telemetry.EndSpan(span, err) }()
	return s.repo.GetEvents(ctx)
}

func (s *EventService) Get(ctx context.Context, id int) (event types.Event, err error) {
	ctx, span := s.span(ctx, "get", idAttr(id))
	defer func() { telemetry.EndSpan(span, err) }()
	return s.repo.GetEvent(ctx, id)
}

func (s *EventService) Create(ctx context.Context, input types.NewEvent) (event types.Event, err error) {
	ctx, span := s.span(ctx, "create")
	defer func() { telemetry.EndSpan(span, err) }()

	event, err = s.repo.CreateEvent(ctx, input)
	if err != nil {
		return types.Event{}, err
	}
	s.notify(ctx, mq.ActionCreated, event.ID)
	return event, nil
}

func (s *EventService) Update(ctx context.Context, id int, patch types.EventPatch) (event types.Event, err error) {
	ctx, span := s.span(ctx, "update", idAttr(id))
	defer func() { telemetry.EndSpan(span, err) }()

	event, err = s.repo.UpdateEvent(ctx, id, patch)
	if err != nil {
		return types.Event{}, err
	}
	s.notify(ctx, mq.ActionUpdated, id)
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id int) (removed bool, err error) {
	ctx, span := s.span(ctx, "delete", idAttr(id))
	defer func() { telemetry.EndSpan(span, err) }()

	removed, err = s.repo.DeleteEvent(ctx, id)
	if err != nil || !removed {
		return removed, err
	}
	s.notify(ctx, mq.ActionDeleted, id)
	return true, nil
}
