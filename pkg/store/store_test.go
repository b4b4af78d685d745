package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&StoreError{Op: "clear", Err: cause})

	t.Run("message names the operation", func(t *testing.T) {
		if !strings.Contains(err.Error(), "clear") {
			t.Fatalf("operation missing from message: %q", err.Error())
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Fatalf("cause missing from message: %q", err.Error())
		}
	})

	t.Run("unwraps to the cause", func(t *testing.T) {
		if !errors.Is(err, cause) {
			t.Fatalf("expected errors.Is to match the cause")
		}
	})

	t.Run("matches with errors.As through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("pipeline failed: %w", err)

		var storeErr *StoreError
		if !errors.As(wrapped, &storeErr) {
			t.Fatalf("expected errors.As to match, got %v", wrapped)
		}
		if storeErr.Op != "clear" {
			t.Fatalf("unexpected operation: %q", storeErr.Op)
		}
	})
}
