package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/pkg/response"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{apperr.NotFound("member %d not found", 3), http.StatusNotFound, "NOT_FOUND", "member 3 not found"},
		{apperr.Conflict("taken"), http.StatusConflict, "CONFLICT", "taken"},
		{fmt.Errorf("wrapped: %w", apperr.InvalidState("archived")), http.StatusUnprocessableEntity, "INVALID_STATE", "wrapped: archived"},
		{apperr.Validation("bad date"), http.StatusBadRequest, "BAD_REQUEST", "bad date"},
		{errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.FromError(rec, tt.err, "fallback")
			assert.Equal(t, tt.status, rec.Code)

			var body response.APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, &response.Meta{Page: 2, PerPage: 20, Total: 41, TotalPages: 3}, response.NewMeta(2, 20, 41))
	assert.Equal(t, 0, response.NewMeta(1, 20, 0).TotalPages)
}
