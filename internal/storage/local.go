package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yukikurage/event-rsvp/internal/constants"
)

// LocalStore keeps images under a directory served by the router at MEDIA_URL.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, constants.EventImageFolder), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

// Dir returns the media root.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) path(key string) (string, error) {
	p := filepath.Join(s.dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.dir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return p, nil
}

func (s *LocalStore) Save(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("write file: %w", err)
	}
	return f.Close()
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return s.baseURL + key
}
