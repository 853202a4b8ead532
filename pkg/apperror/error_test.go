package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-ats-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperror.AppError
		status int
		kind   apperror.Kind
	}{
		{"validation", apperror.Validation("bad input"), http.StatusBadRequest, apperror.KindValidation},
		{"not found", apperror.NotFound("Candidate"), http.StatusNotFound, apperror.KindNotFound},
		{"duplicate", apperror.Duplicate("email"), http.StatusConflict, apperror.KindDuplicate},
		{"database", apperror.Database("query failed", errors.New("boom")), http.StatusInternalServerError, apperror.KindDatabase},
		{"file upload", apperror.FileUpload("bad file"), http.StatusBadRequest, apperror.KindFileUpload},
		{"too many", apperror.TooManyRequests("slow down"), http.StatusTooManyRequests, apperror.KindTooManyRequests},
		{"internal", apperror.Internal(errors.New("panic")), http.StatusInternalServerError, apperror.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.kind, tt.err.Kind)
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Candidate not found", apperror.NotFound("Candidate").Message)
}

func TestDuplicateNamesField(t *testing.T) {
	err := apperror.Duplicate("email")
	require.Len(t, err.Details, 1)
	assert.Equal(t, "email", err.Details[0].Field)
	assert.Contains(t, err.Message, "email")
}

func TestDatabaseKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperror.Database("failed to list candidates", cause)

	assert.ErrorIs(t, err, cause)
	assert.NotEmpty(t, err.Stack)
}

func TestWrap(t *testing.T) {
	t.Run("typed error passes through unchanged", func(t *testing.T) {
		notFound := apperror.NotFound("Candidate")
		wrapped := apperror.Wrap(fmt.Errorf("repo: %w", notFound), "failed to update candidate")

		appErr, ok := apperror.As(wrapped)
		require.True(t, ok)
		assert.Equal(t, apperror.KindNotFound, appErr.Kind)
		assert.Equal(t, http.StatusNotFound, appErr.Status)
	})

	t.Run("untyped error becomes database error", func(t *testing.T) {
		wrapped := apperror.Wrap(errors.New("deadlock"), "failed to update candidate")

		assert.True(t, apperror.IsKind(wrapped, apperror.KindDatabase))
		appErr, _ := apperror.As(wrapped)
		assert.Equal(t, "failed to update candidate", appErr.Message)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, apperror.Wrap(nil, "unused"))
	})
}
