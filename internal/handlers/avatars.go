package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/adminboard/apiserver/internal/services"
	"github.com/adminboard/apiserver/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	formFieldAvatar    = "avatar"
	maxMultipartMemory = services.MaxAvatarSize + 1<<20
)

// AvatarHandler uploads and serves avatar images.
type AvatarHandler struct {
	avatarService *services.AvatarService
	logger        *zap.Logger
}

func NewAvatarHandler(avatarService *services.AvatarService, logger *zap.Logger) *AvatarHandler {
	return &AvatarHandler{avatarService: avatarService, logger: logger}
}

// AvatarRouter registers avatar routes on the given router.
func AvatarRouter(r chi.Router, avatarService *services.AvatarService, logger *zap.Logger) {
	handler := NewAvatarHandler(avatarService, logger)

	r.Post("/", handler.UploadAvatar)
	r.Get("/*", handler.GetAvatar)
	r.Delete("/*", handler.DeleteAvatar)
}

// AvatarResponse points at a stored avatar. URL is suitable for
// customerAvatar and assigneeAvatar.
type AvatarResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (h *AvatarHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile(formFieldAvatar)
	if err != nil {
		writeError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	data, err := readFileLimited(file, services.MaxAvatarSize)
	_ = file.Close()
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "avatar exceeds 2 MiB")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The sniffed type is trusted over the client-supplied header.
	contentType := http.DetectContentType(data)
	key, err := h.avatarService.Upload(r.Context(), contentType, int64(len(data)), bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, services.ErrInvalidAvatar) {
			writeError(w, http.StatusBadRequest, "avatar must be a png, jpeg, gif or webp image")
			return
		}
		writeInternalError(w, r, h.logger, "failed to store avatar", err)
		return
	}

	writeJSON(w, http.StatusCreated, AvatarResponse{Key: key, URL: "/api/avatars/" + key})
}

func (h *AvatarHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	obj, err := h.avatarService.Open(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAvatarKey):
			writeError(w, http.StatusBadRequest, "invalid avatar key")
		case errors.Is(err, storage.ErrObjectNotFound):
			writeError(w, http.StatusNotFound, "avatar not found")
		default:
			writeInternalError(w, r, h.logger, "failed to fetch avatar", err)
		}
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn("stream avatar", zap.String("key", key), zap.Error(err))
	}
}

func (h *AvatarHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if err := h.avatarService.Delete(r.Context(), key); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAvatarKey):
			writeError(w, http.StatusBadRequest, "invalid avatar key")
		case errors.Is(err, storage.ErrObjectNotFound):
			writeError(w, http.StatusNotFound, "avatar not found")
		default:
			writeInternalError(w, r, h.logger, "failed to delete avatar", err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var errFileTooLarge = errors.New("file too large")

func readFileLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, errFileTooLarge
	}
	return data, nil
}
