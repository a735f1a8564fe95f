package httperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperrors.Validation([]string{"Invalid Host.", "Compiler Info Missing."}), http.StatusBadRequest, "Invalid Host.\nCompiler Info Missing."},
		{"revoked", apperrors.Unauthorized("token has been revoked", apperrors.ErrTokenRevoked), http.StatusUnauthorized, "token has been revoked"},
		{"conflict wrapped", fmt.Errorf("publish: %w", apperrors.Conflict("version exists", apperrors.ErrVersionConflict)), http.StatusConflict, "version exists"},
		{"database", apperrors.DatabaseError("insert version", errors.New("dial tcp 10.0.0.5:5432: refused")), http.StatusServiceUnavailable, UnavailableMessage},
		{"bare sentinel", apperrors.ErrReferencedDependency, http.StatusConflict, apperrors.ErrReferencedDependency.Error()},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "An unexpected error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Build(tt.err)
			if status != tt.status {
				t.Fatalf("status = %d, want %d", status, tt.status)
			}
			if body.Message != tt.message {
				t.Fatalf("message = %q, want %q", body.Message, tt.message)
			}
		})
	}
}

func TestBuildCarriesValidationMessages(t *testing.T) {
	_, body := Build(apperrors.Validation([]string{"a", "b"}))
	if len(body.Errors) != 2 || body.Errors[1] != "b" {
		t.Fatalf("unexpected errors %v", body.Errors)
	}
}
