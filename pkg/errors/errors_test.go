package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{"not found", NotFound("package", ErrNotFound), IsNotFound},
		{"unauthorized", Unauthorized("", ErrInvalidCredentials), IsUnauthorized},
		{"revoked sentinel", fmt.Errorf("resolve: %w", ErrTokenRevoked), IsUnauthorized},
		{"forbidden", Forbidden("", nil), IsForbidden},
		{"conflict", Conflict("dup", ErrVersionConflict), IsConflict},
		{"referenced sentinel", ErrReferencedDependency, IsConflict},
		{"validation", Validation([]string{"a", "b"}), IsBadRequest},
		{"database", DatabaseError("insert", errors.New("boom")), IsUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.want(tt.err) {
				t.Fatalf("predicate failed for %v", tt.err)
			}
		})
	}
}

func TestWrappedAppErrorKeepsCode(t *testing.T) {
	err := fmt.Errorf("publish: %w", Conflict("version 1.0.0 already exists", ErrVersionConflict))
	if !IsConflict(err) {
		t.Fatalf("expected conflict through wrapping")
	}
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected errors.Is to reach the sentinel")
	}
	if IsNotFound(err) {
		t.Fatalf("conflict must not report as not found")
	}
}

func TestValidationJoinsMessages(t *testing.T) {
	err := Validation([]string{"Invalid Host.", "Description must have at least 10 chars."})
	if err.Message != "Invalid Host.\nDescription must have at least 10 chars." {
		t.Fatalf("unexpected message %q", err.Message)
	}
	if got := err.Messages(); len(got) != 2 {
		t.Fatalf("expected 2 messages, got %v", got)
	}
	if err.HTTPStatus() != 400 {
		t.Fatalf("expected 400, got %d", err.HTTPStatus())
	}
}

func TestDatabaseErrorIsUpstream(t *testing.T) {
	cause := errors.New("connection refused")
	err := DatabaseError("find package", cause)
	if err.HTTPStatus() != 503 {
		t.Fatalf("expected 503, got %d", err.HTTPStatus())
	}
	if !errors.Is(err, cause) || !errors.Is(err, ErrDatabaseError) {
		t.Fatalf("expected both cause and sentinel in chain")
	}
}
