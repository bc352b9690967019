package object

import (
	"io"
	"strings"
	"testing"
)

func TestOwnerPrefixIsStableHex(t *testing.T) {
	id := "google:12345"
	got := OwnerPrefix(id)
	if got != OwnerPrefix(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestNewKeySanitizesName(t *testing.T) {
	key, err := NewKey("user-1", "cv/final.pdf")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	if !strings.HasPrefix(key, OwnerPrefix("user-1")+"/") {
		t.Fatalf("expected owner prefix, got %s", key)
	}
	if !strings.HasSuffix(key, "_cv_final.pdf") {
		t.Fatalf("expected sanitized name suffix, got %s", key)
	}

	if _, err := NewKey("user-1", "../etc/passwd"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
	if _, err := NewKey("user-1", "   "); err == nil {
		t.Fatalf("expected blank name to be rejected")
	}
}

func TestSniffReplaysHead(t *testing.T) {
	mime, r, err := Sniff(strings.NewReader("%PDF-1.4 rest of file"))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if mime != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", mime)
	}
	all, _ := io.ReadAll(r)
	if string(all) != "%PDF-1.4 rest of file" {
		t.Fatalf("unexpected replay: %q", all)
	}
}
