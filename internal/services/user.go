package services

import (
	"context"

	"github.com/adminboard/apiserver/internal/mq"
	"github.com/adminboard/apiserver/internal/telemetry"
	"github.com/adminboard/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetUser(ctx context.Context, id int) (types.User, error)
	GetUserByUsername(ctx context.Context, username string) (types.User, error)
	CreateUser(ctx context.Context, user types.NewUser) (types.User, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	base
	repo UserRepository
}

func NewUserService(repo UserRepository, opts ...Option) *UserService {
	return &UserService{base: newBase(mq.KindUser, opts), repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id int) (user types.User, err error) {
	ctx, span := s.span(ctx, "get", idAttr(id))
	defer func() { telemetry.EndSpan(span, err) }()
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (user types.User, err error) {
	ctx, span := s.span(ctx, "get_by_username")
	defer func() { telemetry.EndSpan(span, err) }()
	return s.repo.GetUserByUsername(ctx, username)
}

func (s *UserService) Create(ctx context.Context, input types.NewUser) (user types.User, err error) {
	ctx, span := s.span(ctx, "create")
	defer func() { telemetry.EndSpan(span, err) }()

	user, err = s.repo.CreateUser(ctx, input)
	if err != nil {
		return types.User{}, err
	}
	s.notify(ctx, mq.ActionCreated, user.ID)
	return user, nil
}
