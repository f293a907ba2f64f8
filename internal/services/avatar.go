package services

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/adminboard/apiserver/internal/storage"
	"github.com/adminboard/apiserver/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// MaxAvatarSize is the largest avatar upload accepted, in bytes.
const MaxAvatarSize = 2 << 20

const avatarPrefix = "avatars/"

var (
	// ErrInvalidAvatar is returned for uploads that are not acceptable images.
	ErrInvalidAvatar = errors.New("invalid avatar")
	// ErrInvalidAvatarKey is returned for keys outside the avatar prefix.
	ErrInvalidAvatarKey = errors.New("invalid avatar key")
)

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarService stores profile images used by customerAvatar and
// assigneeAvatar.
type AvatarService struct {
	storage *storage.Storage
}

func NewAvatarService(s *storage.Storage) *AvatarService {
	return &AvatarService{storage: s}
}

// Upload stores an image and returns its object key.
func (s *AvatarService) Upload(ctx context.Context, contentType string, size int64, r io.Reader) (key string, err error) {
	ctx, span := telemetry.StartSpan(ctx, "avatar.upload", attribute.Int64("avatar.size", size))
	defer func() { telemetry.EndSpan(span, err) }()

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", ErrInvalidAvatar
	}
	ext, ok := avatarExtensions[strings.ToLower(mediaType)]
	if !ok {
		return "", ErrInvalidAvatar
	}
	if size <= 0 || size > MaxAvatarSize {
		return "", ErrInvalidAvatar
	}

	key = avatarPrefix + uuid.NewString() + ext
	if err := s.storage.Put(ctx, key, io.LimitReader(r, size), size, mediaType); err != nil {
		return "", err
	}
	return key, nil
}

// Open returns the stored avatar under key. The caller closes Body.
func (s *AvatarService) Open(ctx context.Context, key string) (obj storage.Object, err error) {
	ctx, span := telemetry.StartSpan(ctx, "avatar.open")
	defer func() { telemetry.EndSpan(span, err) }()

	if !validAvatarKey(key) {
		return storage.Object{}, ErrInvalidAvatarKey
	}
	return s.storage.Get(ctx, key)
}

// Delete removes the avatar under key. A missing object reports
// storage.ErrObjectNotFound on every backend.
func (s *AvatarService) Delete(ctx context.Context, key string) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "avatar.delete")
	defer func() { telemetry.EndSpan(span, err) }()

	if !validAvatarKey(key) {
		return ErrInvalidAvatarKey
	}
	// MinIO removes missing keys without error, so check first.
	obj, err := s.storage.Get(ctx, key)
	if err != nil {
		return err
	}
	_ = obj.Body.Close()
	return s.storage.Delete(ctx, key)
}

func validAvatarKey(key string) bool {
	if !strings.HasPrefix(key, avatarPrefix) {
		return false
	}
	name := strings.TrimPrefix(key, avatarPrefix)
	if name == "" || strings.ContainsAny(name, `/\`) || path.Clean(key) != key {
		return false
	}
	id := strings.TrimSuffix(name, path.Ext(name))
	_, err := uuid.Parse(id)
	return err == nil
}
