package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/Alijeyrad/founders_backend/config"
)

var ErrNotFound = errors.New("storage: object not found")

// Store keeps uploaded blobs under slash-separated keys such as
// "founder_photos/<id>.png".
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// New picks a backend from config.
func New(cfg config.StorageConfig, s3cfg config.S3Config) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		return NewLocal(afero.NewOsFs(), cfg.Root), nil
	case "s3":
		return NewS3(s3cfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
