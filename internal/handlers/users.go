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

// UserHandler provides HTTP handlers for the user table.
type UserHandler struct {
	userService *services.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService, logger *zap.Logger) {
	handler := NewUserHandler(userService, logger)

	r.Get("/", handler.FindUser)
	r.Post("/", handler.CreateUser)
	r.Get("/{id}", handler.GetUser)
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	// Best effort: the store does not enforce unique usernames, so two
	// concurrent requests for the same name can both get past this check.
	if _, err := h.userService.GetByUsername(r.Context(), req.Username); err == nil {
		writeError(w, http.StatusConflict, "username already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeInternalError(w, r, h.logger, "failed to check user", err)
		return
	}

	user, err := h.userService.Create(r.Context(), types.NewUser{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeInternalError(w, r, h.logger, "failed to fetch user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// FindUser looks a user up by the username query parameter.
func (h *UserHandler) FindUser(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := h.userService.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeInternalError(w, r, h.logger, "failed to fetch user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
