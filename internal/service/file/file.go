package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/pkg/storage"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Upload describes one received file part.
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromMultipart adapts a multipart header. A nil header yields a nil Upload.
func FromMultipart(fh *multipart.FileHeader) *Upload {
	if fh == nil {
		return nil
	}
	return &Upload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

type Config struct {
	MaxFileSize  int64
	AllowedTypes []string
}

func FromCentralConfig(c config.UploadsConfig) Config {
	types := make([]string, 0, len(c.AllowedTypes))
	for _, t := range c.AllowedTypes {
		types = append(types, strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), ".")))
	}
	return Config{MaxFileSize: c.MaxFileSize, AllowedTypes: types}
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Store checks u against the size and type rules and writes it under dir.
	// It returns the storage key.
	Store(ctx context.Context, u *Upload, dir string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Remove deletes keys, logging failures. Empty keys are skipped.
	Remove(ctx context.Context, keys ...string)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type fileService struct {
	store storage.Store
	cfg   Config
	now   func() time.Time
	newID func() string
}

func New(store storage.Store, cfg Config) Service {
	return &fileService{
		store: store,
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *fileService) Store(ctx context.Context, u *Upload, dir string) (string, error) {
	if u.Size > s.cfg.MaxFileSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(u.Filename), "."))
	if ext == "" || !slices.Contains(s.cfg.AllowedTypes, ext) {
		return "", ErrUnsupportedType
	}

	src, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open upload: %w", ErrUploadIO, err)
	}
	defer src.Close()

	key := fmt.Sprintf("%s/%s_%d.%s", strings.Trim(dir, "/"), s.newID(), s.now().Unix(), ext)

	mime := u.ContentType
	if mime == "" {
		mime = "application/octet-stream"
	}

	// Never store more than the declared size, which already passed the limit.
	body := io.LimitReader(src, u.Size)
	if err := s.store.Put(ctx, key, mime, body, u.Size); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadIO, err)
	}

	return key, nil
}

func (s *fileService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("open %q: %w", key, err)
	}
	return rc, nil
}

func (s *fileService) Remove(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := s.store.Delete(ctx, k); err != nil {
			slog.WarnContext(ctx, "file: cleanup failed", "key", k, "err", err)
		}
	}
}
