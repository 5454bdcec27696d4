// Package storage holds uploaded batch attachments on local disk. The
// extraction pipeline only ever sees file paths, so swapping in a remote
// store later means implementing FileStore and nothing else.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore abstracts where attachment bytes live.
type FileStore interface {
	Save(ctx context.Context, name string, data io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Path(name string) string
	Remove(ctx context.Context, name string) error
}

// LocalStore keeps files under a single root directory (uploads/batches).
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Save writes data to root/name and returns the absolute path. name must be
// a bare file name; anything path-like is rejected to keep writes inside
// the root.
func (s *LocalStore) Save(ctx context.Context, name string, data io.Reader) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}

	path := s.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Path maps a stored file name to its on-disk location.
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.root, filepath.Base(name))
}

func (s *LocalStore) Remove(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func validName(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid file name: %q", name)
	}
	return nil
}
