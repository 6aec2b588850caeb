package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	sentinel := New(KindConflict, "dup", "duplicate")
	wrapped := fmt.Errorf("create: %w", sentinel)

	if got := KindOf(wrapped); got != KindConflict {
		t.Fatalf("expected conflict, got %s", got)
	}
	if !errors.Is(wrapped, sentinel) {
		t.Fatalf("expected errors.Is to match sentinel")
	}
}

func TestKindOfForeignError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("expected internal, got %s", got)
	}
	if got := KindOf(nil); got != KindInternal {
		t.Fatalf("expected internal for nil, got %s", got)
	}
}

func TestValidationCode(t *testing.T) {
	err := Validation("name is required")
	if err.Code != "invalid_request" || err.Kind != KindValidation {
		t.Fatalf("unexpected error %+v", err)
	}
	appErr, ok := As(fmt.Errorf("wrap: %w", err))
	if !ok || appErr.Message != "name is required" {
		t.Fatalf("expected As to unwrap, got %+v", appErr)
	}
}
