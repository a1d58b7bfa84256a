package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := NewIOError("cannot read file", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cannot read file")
	assert.Contains(t, err.Error(), "disk gone")
}

func TestAppErrorContext(t *testing.T) {
	err := NewSchemaError("missing columns", nil).
		WithContext("missing", []string{"bodovi"})

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, []string{"bodovi"}, appErr.Context["missing"])
}

func TestIsType(t *testing.T) {
	err := NewRangeError("score out of range")
	assert.True(t, IsType(err, ErrTypeRange))
	assert.False(t, IsType(err, ErrTypeSchema))

	wrapped := fmt.Errorf("loading: %w", err)
	assert.True(t, IsType(wrapped, ErrTypeRange), "IsType must see through wrapping")

	assert.False(t, IsType(stderrors.New("plain"), ErrTypeRange))
}

func TestIsEmptyResult(t *testing.T) {
	assert.True(t, IsEmptyResult(NewEmptyResultError("no rows")))
	assert.False(t, IsEmptyResult(NewRangeError("nope")))
}

func TestFromAppErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"schema", NewSchemaError("bad header", nil), http.StatusBadRequest, "SCHEMA_ERROR"},
		{"coercion", NewCoercionError("not a number", nil), http.StatusBadRequest, "TYPE_ERROR"},
		{"range", NewRangeError("out of range"), http.StatusBadRequest, "RANGE_ERROR"},
		{"validation", NewAppValidationError("bad filter"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"empty result", NewEmptyResultError("no rows"), http.StatusUnprocessableEntity, "EMPTY_RESULT"},
		{"not found", NewNotFoundError("no dataset"), http.StatusNotFound, "NOT_FOUND"},
		{"io", NewIOError("cannot read", nil), http.StatusInternalServerError, "IO_ERROR"},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromAppError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}

func TestFromAppErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("session: %w", NewEmptyResultError("no rows match"))
	apiErr := FromAppError(wrapped)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "no rows match", apiErr.Message)
}
