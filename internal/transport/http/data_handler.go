package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"hdpulse/internal/analytics"
	apierrors "hdpulse/internal/errors"
	"hdpulse/internal/exporter"
	customMiddleware "hdpulse/internal/middleware"
	"hdpulse/internal/services"
	"hdpulse/pkg/contracts/domain"
)

var modeValues = []string{string(domain.ModeAll), string(domain.ModeGate), string(domain.ModeHD)}

// DataHandler handles the dashboard's data requests with RFC 7807 compliance
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	query        *customMiddleware.QueryParamValidator
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
		query:        customMiddleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/filters", h.GetFilters)
	r.Get("/summary", h.GetSummary)
	r.Get("/cutoffs", h.GetCutoffs)
	r.Get("/cutoffs/export", h.ExportCutoffs)
	r.Get("/branch-means", h.GetBranchMeans)
	r.Get("/distribution", h.GetDistribution)
	r.Get("/histogram", h.GetHistogram)
	r.Get("/records", h.GetRecords)
	r.Get("/records/export", h.ExportRecords)

	return r
}

// GetFilters handles GET /api/data/filters
func (h *DataHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.FilterOptions(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

// GetSummary handles GET /api/data/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetCutoffs handles GET /api/data/cutoffs
func (h *DataHandler) GetCutoffs(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.parseMode(w, r, domain.ModeGate)
	if !ok {
		return
	}

	report, err := h.service.Cutoffs(r.Context(), mode, parseFilterQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetBranchMeans handles GET /api/data/branch-means
func (h *DataHandler) GetBranchMeans(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.parseMode(w, r, domain.ModeGate)
	if !ok {
		return
	}

	report, err := h.service.BranchMeans(r.Context(), mode, parseFilterQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetDistribution handles GET /api/data/distribution
func (h *DataHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.parseMode(w, r, domain.ModeGate)
	if !ok {
		return
	}

	report, err := h.service.Distribution(r.Context(), mode, parseFilterQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetHistogram handles GET /api/data/histogram. A bins value of zero means
// "use the mode's default".
func (h *DataHandler) GetHistogram(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.parseMode(w, r, domain.ModeGate)
	if !ok {
		return
	}

	bins, ok := h.query.ValidateInt(w, r, "bins", analytics.MinHistogramBins, analytics.MaxHistogramBins, 0)
	if !ok {
		return
	}

	report, err := h.service.Histogram(r.Context(), mode, bins, parseFilterQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetRecords handles GET /api/data/records
func (h *DataHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.parseMode(w, r, domain.ModeAll)
	if !ok {
		return
	}

	report, err := h.service.Records(r.Context(), mode, parseFilterQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// ExportCutoffs handles GET /api/data/cutoffs/export as a CSV download
func (h *DataHandler) ExportCutoffs(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.parseMode(w, r, domain.ModeGate)
	if !ok {
		return
	}

	report, err := h.service.Cutoffs(r.Context(), mode, parseFilterQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cutoffs_%s.csv"`, mode))
	if err := exporter.WriteCutoffsCSV(w, report.Rows); err != nil {
		h.logger.ErrorContext(r.Context(), "cutoff export failed",
			slog.String("error", err.Error()))
	}
}

// ExportRecords handles GET /api/data/records/export as a CSV download
func (h *DataHandler) ExportRecords(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.parseMode(w, r, domain.ModeAll)
	if !ok {
		return
	}

	report, err := h.service.Records(r.Context(), mode, parseFilterQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="records_%s.csv"`, mode))
	if err := exporter.WriteRecordsCSV(w, report.Records); err != nil {
		h.logger.ErrorContext(r.Context(), "records export failed",
			slog.String("error", err.Error()))
	}
}

// parseMode validates the mode query parameter, writing the error response
// itself when the value is unknown.
func (h *DataHandler) parseMode(w http.ResponseWriter, r *http.Request, defaultMode domain.AdmissionMode) (domain.AdmissionMode, bool) {
	raw, ok := h.query.ValidateEnum(w, r, "mode", modeValues, string(defaultMode))
	if !ok {
		return "", false
	}
	return domain.AdmissionMode(raw), true
}

// parseFilterQuery extracts the filter selections from the query string. An
// absent branches/campuses parameter means "every known value"; a present
// but empty one is an explicit empty selection.
func parseFilterQuery(r *http.Request) services.FilterQuery {
	query := r.URL.Query()

	q := services.FilterQuery{
		Drill: strings.TrimSpace(query.Get("drill")),
	}
	if query.Has("branches") {
		q.BranchesSet = true
		q.Branches = splitCSV(query.Get("branches"))
	}
	if query.Has("campuses") {
		q.CampusesSet = true
		q.Campuses = splitCSV(query.Get("campuses"))
	}
	return q
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
