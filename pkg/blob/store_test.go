package blob_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/twinhire/server/pkg/blob"
)

func TestFSStore_PutAndURL(t *testing.T) {
	dir := t.TempDir()
	s, err := blob.NewFSStore(dir, "http://localhost:8080/blobs/")
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}

	url, err := s.Put(context.Background(), "audio/session-1.opus", []byte("data"), "audio/opus")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "http://localhost:8080/blobs/audio/session-1.opus" {
		t.Fatalf("unexpected url: %s", url)
	}

	b, err := os.ReadFile(filepath.Join(dir, "audio", "session-1.opus"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "data" {
		t.Fatalf("unexpected content: %q", b)
	}
}

func TestFSStore_RejectsTraversal(t *testing.T) {
	s, err := blob.NewFSStore(t.TempDir(), "http://x")
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	if _, err := s.Put(context.Background(), "../escape", []byte("x"), ""); err == nil {
		t.Fatalf("expected error for traversal key")
	}
}
