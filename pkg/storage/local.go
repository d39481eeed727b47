package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Local stores objects as files below a root directory.
type Local struct {
	fs   afero.Fs
	root string
}

func NewLocal(fsys afero.Fs, root string) *Local {
	return &Local{fs: fsys, root: root}
}

func (l *Local) Put(ctx context.Context, key, _ string, body io.Reader, _ int64) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := l.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("storage: create dir for %q: %w", key, err)
	}

	f, err := l.fs.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("storage: create %q: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = l.fs.Remove(p)
		return fmt.Errorf("storage: write %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = l.fs.Remove(p)
		return fmt.Errorf("storage: close %q: %w", key, err)
	}
	return nil
}

func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := l.fs.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: open %q: %w", key, err)
	}
	return f, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := l.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %q: %w", key, err)
	}
	return nil
}

// path maps a key onto the root, refusing keys that would escape it.
func (l *Local) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(l.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
