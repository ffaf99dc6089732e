package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the object-storage port: it accepts a byte buffer and returns a
// public URL for it. The managed storage service behind it is not part of
// this repository; FSStore is the bundled implementation for local and test
// use.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// FSStore writes blobs under a base directory and returns baseURL/key.
type FSStore struct {
	baseDir string
	baseURL string
}

func NewFSStore(baseDir, baseURL string) (*FSStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir: %w", err)
	}
	return &FSStore{baseDir: baseDir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *FSStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is required")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}

	p := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create key dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}

	return s.baseURL + "/" + key, nil
}
