package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "hdpulse/internal/errors"
	"hdpulse/internal/services"
	"hdpulse/pkg/contracts/domain"
)

// stubDataService records the last call and returns canned responses
type stubDataService struct {
	lastMode  domain.AdmissionMode
	lastQuery services.FilterQuery
	lastBins  int
	err       error
}

func (s *stubDataService) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	return domain.FilterOptions{
		Branches: []string{"Computer Science", "Mechanical"},
		Campuses: []string{"Goa", "Pilani"},
	}, s.err
}

func (s *stubDataService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	return domain.DatasetSummary{TotalRecords: 100, GateEntries: 60, HDEntries: 30}, s.err
}

func (s *stubDataService) Cutoffs(ctx context.Context, mode domain.AdmissionMode, q services.FilterQuery) (*services.CutoffReport, error) {
	s.lastMode, s.lastQuery = mode, q
	if s.err != nil {
		return nil, s.err
	}
	return &services.CutoffReport{Mode: mode, Rows: []domain.CutoffRow{
		{Branch: "Computer Science", Campus: "Pilani", Min: 480, Max: 650, Mean: 565.5, Count: 4},
	}}, nil
}

func (s *stubDataService) BranchMeans(ctx context.Context, mode domain.AdmissionMode, q services.FilterQuery) (*services.BranchMeanReport, error) {
	s.lastMode, s.lastQuery = mode, q
	return &services.BranchMeanReport{Mode: mode}, s.err
}

func (s *stubDataService) Distribution(ctx context.Context, mode domain.AdmissionMode, q services.FilterQuery) (*services.DistributionReport, error) {
	s.lastMode, s.lastQuery = mode, q
	return &services.DistributionReport{Mode: mode}, s.err
}

func (s *stubDataService) Histogram(ctx context.Context, mode domain.AdmissionMode, bins int, q services.FilterQuery) (*services.HistogramReport, error) {
	s.lastMode, s.lastQuery, s.lastBins = mode, q, bins
	return &services.HistogramReport{Mode: mode, Bins: bins}, s.err
}

func (s *stubDataService) Records(ctx context.Context, mode domain.AdmissionMode, q services.FilterQuery) (*services.RecordsReport, error) {
	s.lastMode, s.lastQuery = mode, q
	return &services.RecordsReport{Mode: mode, Records: []domain.SurveyRecord{}}, s.err
}

func newTestHandler(svc DataServiceInterface) *DataHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDataHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
}

func TestDataHandler_GetFilters(t *testing.T) {
	handler := newTestHandler(&stubDataService{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/filters", nil)
	handler.Routes().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var opts domain.FilterOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Equal(t, []string{"Computer Science", "Mechanical"}, opts.Branches)
}

func TestDataHandler_GetSummary(t *testing.T) {
	handler := newTestHandler(&stubDataService{})

	w := httptest.NewRecorder()
	handler.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/summary", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var summary domain.DatasetSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 100, summary.TotalRecords)
}

func TestDataHandler_GetCutoffs_QueryParsing(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantMode     domain.AdmissionMode
		wantBranches []string
		wantBrSet    bool
		wantDrill    string
	}{
		{
			name:     "defaults to gate",
			url:      "/cutoffs",
			wantMode: domain.ModeGate,
		},
		{
			name:     "explicit hd mode",
			url:      "/cutoffs?mode=hd",
			wantMode: domain.ModeHD,
		},
		{
			name:         "branch selection",
			url:          "/cutoffs?branches=Computer%20Science,Mechanical",
			wantMode:     domain.ModeGate,
			wantBranches: []string{"Computer Science", "Mechanical"},
			wantBrSet:    true,
		},
		{
			name:      "explicitly empty selection",
			url:       "/cutoffs?branches=",
			wantMode:  domain.ModeGate,
			wantBrSet: true,
		},
		{
			name:      "drilldown",
			url:       "/cutoffs?drill=Mechanical",
			wantMode:  domain.ModeGate,
			wantDrill: "Mechanical",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubDataService{}
			handler := newTestHandler(svc)

			w := httptest.NewRecorder()
			handler.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantMode, svc.lastMode)
			assert.Equal(t, tt.wantBranches, svc.lastQuery.Branches)
			assert.Equal(t, tt.wantBrSet, svc.lastQuery.BranchesSet)
			assert.Equal(t, tt.wantDrill, svc.lastQuery.Drill)
		})
	}
}

func TestDataHandler_InvalidMode(t *testing.T) {
	handler := newTestHandler(&stubDataService{})

	w := httptest.NewRecorder()
	handler.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cutoffs?mode=direct", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "VALIDATION_FAILED", problem["error_code"])
}

func TestDataHandler_GetHistogram(t *testing.T) {
	t.Run("passes bins through", func(t *testing.T) {
		svc := &stubDataService{}
		handler := newTestHandler(svc)

		w := httptest.NewRecorder()
		handler.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/histogram?mode=hd&bins=30", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.ModeHD, svc.lastMode)
		assert.Equal(t, 30, svc.lastBins)
	})

	t.Run("zero bins when absent", func(t *testing.T) {
		svc := &stubDataService{}
		handler := newTestHandler(svc)

		w := httptest.NewRecorder()
		handler.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/histogram", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, svc.lastBins)
	})

	t.Run("non-integer bins rejected", func(t *testing.T) {
		handler := newTestHandler(&stubDataService{})

		w := httptest.NewRecorder()
		handler.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/histogram?bins=lots", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDataHandler_GetRecords_DefaultsToAll(t *testing.T) {
	svc := &stubDataService{}
	handler := newTestHandler(svc)

	w := httptest.NewRecorder()
	handler.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ModeAll, svc.lastMode)
}

func TestDataHandler_ExportCutoffs(t *testing.T) {
	svc := &stubDataService{}
	handler := newTestHandler(svc)

	w := httptest.NewRecorder()
	handler.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cutoffs/export?mode=gate", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cutoffs_gate.csv")
	assert.Contains(t, w.Body.String(), "Computer Science,Pilani")
}

func TestDataHandler_ExportRecords(t *testing.T) {
	svc := &stubDataService{}
	handler := newTestHandler(svc)

	w := httptest.NewRecorder()
	handler.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ModeAll, svc.lastMode)
	assert.Contains(t, w.Body.String(), "gate_score,hd_core")
}

func TestDataHandler_ServiceError(t *testing.T) {
	svc := &stubDataService{err: apierrors.DatasetError(assert.AnError)}
	handler := newTestHandler(svc)

	w := httptest.NewRecorder()
	handler.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/summary", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/service-unavailable", problem["type"])
}
