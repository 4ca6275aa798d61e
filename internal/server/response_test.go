package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudlens-ai/fraudlens/internal/fault"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, ErrCodeInvalidRequest, "prompt is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, ErrCodeInvalidRequest, resp.Error.Code)
	assert.Equal(t, "prompt is required", resp.Error.Message)
}

func TestWriteFault(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"circuit open", fault.CircuitOpen("llm.openai"), http.StatusServiceUnavailable, ErrCodeProviderUnavailable},
		{"cancelled", fault.Cancelled("llm.openai", context.Canceled), http.StatusRequestTimeout, ErrCodeRequestCancelled},
		{"transient", fault.Transient("llm.openai", "upstream 503", nil), http.StatusBadGateway, ErrCodeProviderError},
		{"terminal", fault.Terminal("llm.openai", "upstream 400", nil), http.StatusBadGateway, ErrCodeProviderError},
		// Plain errors classify as transient, so they surface as a
		// provider error rather than leaking a 500.
		{"unclassified", errors.New("boom"), http.StatusBadGateway, ErrCodeProviderError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeFault(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestWriteFaultWrapped(t *testing.T) {
	// The resilience layer annotates faults with attempt context; the
	// mapping must see through the wrapping.
	err := fmt.Errorf("after 3 attempts: %w", fault.Transient("llm.gemini", "upstream 502", nil))

	rec := httptest.NewRecorder()
	writeFault(rec, err)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
