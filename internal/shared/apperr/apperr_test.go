package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("propose: %w", Conflict("already exist"))
	if got := KindOf(err); got != KindConflict {
		t.Fatalf("expected conflict, got %s", got)
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected errors.Is to match conflict sentinel")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("did not expect not_found to match")
	}
	if err.Error() != "propose: already exist" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("expected internal, got %s", got)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("no rows")
	err := Wrap(KindNotFound, "match not found", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if err.Error() != "match not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
