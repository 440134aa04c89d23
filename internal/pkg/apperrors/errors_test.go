package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{InvalidStatus("unknown status"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{InsufficientStock("not enough"), http.StatusConflict},
		{DuplicateReference("already used"), http.StatusConflict},
		{Server("boom", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("untyped"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestKindOf_SurvivesWrapping(t *testing.T) {
	err := NotFound("order not found")
	wrapped := fmt.Errorf("handling request: %w", err)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindValidation))
}

func TestError_MessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Server("query products", cause)

	assert.Equal(t, "query products: connection refused", err.Error())
	assert.Equal(t, cause, errors.Cause(err.Err))
	assert.ErrorIs(t, err, cause)
}
