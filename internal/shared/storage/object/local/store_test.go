package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"jobmatch-backend/internal/shared/storage/object"
)

func TestPutThenOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	stored, err := store.Put(ctx, "user-1", "cv.txt", strings.NewReader("Senior Go engineer"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if stored.Size != int64(len("Senior Go engineer")) {
		t.Fatalf("unexpected size %d", stored.Size)
	}
	if !strings.HasPrefix(stored.MimeType, "text/plain") {
		t.Fatalf("unexpected mime %s", stored.MimeType)
	}

	rc, err := store.Open(ctx, stored.Key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "Senior Go engineer" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../secret"); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestPutHonoursCanceledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "user-1", "cv.txt", strings.NewReader("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
