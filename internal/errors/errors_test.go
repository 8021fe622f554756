package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("bins", "must be between 10 and 50")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "bins", detail.Field)
	assert.Equal(t, "must be between 10 and 50", detail.Message)
}

func TestDatasetError(t *testing.T) {
	err := DatasetError(errors.New("open data/bits_hd_2024.json: no such file"))
	assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
	assert.Equal(t, "DATASET_UNAVAILABLE", err.ErrorCode)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "missing", "/api/data/summary")
	pd.WithExtension("trace_id", "abc-123")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, TypeNotFound, decoded["type"])
	assert.Equal(t, "Not Found", decoded["title"])
	assert.Equal(t, float64(http.StatusNotFound), decoded["status"])
	assert.Equal(t, "missing", decoded["detail"])
	assert.Equal(t, "/api/data/summary", decoded["instance"])
	assert.Equal(t, "abc-123", decoded["trace_id"])
}

func TestErrorHandler_ErrorToProblem(t *testing.T) {
	handler := NewErrorHandler(testLogger(), false)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "context canceled",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api validation error",
			err:        ErrValidation("mode", "must be one of all, gate, hd"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "api resource not found",
			err:        NotFoundError("Survey dataset"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "api dataset unavailable",
			err:        DatasetError(errors.New("read failed")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeServiceDown,
		},
		{
			name:       "missing dataset file",
			err:        fmt.Errorf("stat dataset: file does not exist"),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetMissing,
		},
		{
			name:       "corrupted dataset file",
			err:        fmt.Errorf("decode dataset: unexpected end of JSON input"),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetCorrupted,
		},
		{
			name:       "generic not found",
			err:        errors.New("record not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "rate limit",
			err:        errors.New("rate limit exceeded for client"),
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
		},
		{
			name:       "unknown error",
			err:        errors.New("something broke"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/data/summary", nil)
			problem := handler.ErrorToProblem(tt.err, r)

			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/data/summary", problem.Instance)
		})
	}
}

func TestErrorHandler_HandleError(t *testing.T) {
	handler := NewErrorHandler(testLogger(), false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/data/cutoffs", nil)

	handler.HandleError(w, r, ErrValidation("campus", "unknown campus"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, TypeValidation, problem["type"])
	assert.Equal(t, "VALIDATION_FAILED", problem["error_code"])
}

func TestErrorHandler_HandleError_NilError(t *testing.T) {
	handler := NewErrorHandler(testLogger(), false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/health", nil)

	handler.HandleError(w, r, nil)
	assert.Empty(t, w.Body.String())
}

func TestErrorHandler_NotFound(t *testing.T) {
	handler := NewErrorHandler(testLogger(), false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/nope", nil)

	handler.NotFound(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, TypeNotFound, problem["type"])
}

func TestHandlePanic(t *testing.T) {
	handler := NewErrorHandler(testLogger(), false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/data/histogram", nil)

	handler.HandlePanic(w, r, "boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, TypeInternal, problem["type"])
}
