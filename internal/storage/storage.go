package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage is the object-storage collaborator: upload bytes, get back a
// public URL.
type Storage interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// Local stores uploads on disk; the router serves the directory under
// /static/. Good enough for single-node deployments, swappable behind the
// interface for anything else.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Upload(ctx context.Context, name string, data []byte) (string, error) {
	name = filepath.Base(name) // no path traversal
	if name == "" || name == "." {
		return "", fmt.Errorf("empty object name")
	}
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return l.baseURL + "/static/" + name, nil
}

// Dir exposes the backing directory for the router's file server.
func (l *Local) Dir() string { return l.dir }
