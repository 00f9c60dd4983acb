package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/datatrails/go-datatrails-common/logger"
)

var (
	ErrImageNotFound = errors.New("imagestore: image not found")
	ErrEmptyPath     = errors.New("imagestore: empty path")
)

// Store persists image bytes by path. Get returns an error wrapping
// ErrImageNotFound for a path nothing was put at.
type Store interface {
	Put(ctx context.Context, path string, data []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
}

// DirStore keeps images as files below a root directory. Paths use '/'
// whatever the platform.
type DirStore struct {
	log  logger.Logger
	root string
	opts Options
}

func NewDirStore(log logger.Logger, root string, opts ...Option) (*DirStore, error) {
	if root == "" {
		return nil, ErrEmptyPath
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DirStore{log: log, root: root, opts: newOptions(opts...)}, nil
}

func (s *DirStore) filename(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if !filepath.IsLocal(filepath.FromSlash(path)) {
		return "", fmt.Errorf("imagestore: path escapes the store: %s", path)
	}
	return filepath.Join(s.root, filepath.FromSlash(path)), nil
}

// Put writes data to a temporary file beside the target and renames it into
// place, so readers never see a partial image.
func (s *DirStore) Put(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := s.filename(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(s.opts.FileMode); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, name); err != nil {
		return err
	}
	s.log.Debugf("DirStore.Put: %s (%d bytes)", name, len(data))
	return nil
}

func (s *DirStore) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := s.filename(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
