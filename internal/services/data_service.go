package services

import (
	"context"
	"fmt"
	"log/slog"

	"hdpulse/internal/analytics"
	apierrors "hdpulse/internal/errors"
	"hdpulse/internal/store"
	"hdpulse/pkg/contracts/domain"
)

// FilterQuery carries the parsed dashboard filter controls. The Set flags
// distinguish an absent parameter (select everything) from an explicitly
// empty one (select nothing).
type FilterQuery struct {
	Branches    []string
	Campuses    []string
	Drill       string
	BranchesSet bool
	CampusesSet bool
}

// CutoffReport is the cutoff-table response for one admission mode.
type CutoffReport struct {
	Mode    domain.AdmissionMode `json:"mode"`
	Rows    []domain.CutoffRow   `json:"rows"`
	Metrics domain.ModeMetrics   `json:"metrics"`
	Empty   bool                 `json:"empty"`
	Message string               `json:"message,omitempty"`
}

// BranchMeanReport ranks branches by average admitted score.
type BranchMeanReport struct {
	Mode    domain.AdmissionMode `json:"mode"`
	Means   []domain.BranchMean  `json:"means"`
	Empty   bool                 `json:"empty"`
	Message string               `json:"message,omitempty"`
}

// DistributionReport carries the entry-count breakdowns for composition and
// share charts.
type DistributionReport struct {
	Mode         domain.AdmissionMode       `json:"mode"`
	CampusBranch []domain.CampusBranchCount `json:"campus_branch"`
	Branches     []domain.BranchCount       `json:"branches"`
	Empty        bool                       `json:"empty"`
	Message      string                     `json:"message,omitempty"`
}

// HistogramReport is the score-distribution response for one admission mode.
type HistogramReport struct {
	Mode      domain.AdmissionMode `json:"mode"`
	Bins      int                  `json:"bins"`
	Histogram domain.Histogram     `json:"histogram"`
	Empty     bool                 `json:"empty"`
	Message   string               `json:"message,omitempty"`
}

// RecordsReport is the raw-table response: the filtered records of the
// selected mode subset.
type RecordsReport struct {
	Mode    domain.AdmissionMode  `json:"mode"`
	Records []domain.SurveyRecord `json:"records"`
	Count   int                   `json:"count"`
	Empty   bool                  `json:"empty"`
	Message string                `json:"message,omitempty"`
}

const emptySelectionMessage = "No records match the current selection"

// DataService answers the dashboard's data queries against the loaded
// dataset.
type DataService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewDataService creates a new data service
func NewDataService(st *store.Store, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		store:  st,
		logger: logger.With(slog.String("service", "data")),
	}
}

// FilterOptions returns the distinct branches and campuses of the dataset.
func (ds *DataService) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	dataset, err := ds.store.Load(ctx)
	if err != nil {
		return domain.FilterOptions{}, apierrors.DatasetError(err)
	}
	return dataset.Options(), nil
}

// Summary returns the dashboard header metrics over the full dataset.
func (ds *DataService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	dataset, err := ds.store.Load(ctx)
	if err != nil {
		return domain.DatasetSummary{}, apierrors.DatasetError(err)
	}
	return dataset.Summary(), nil
}

// Cutoffs computes the cutoff table and metric row for the mode's filtered
// subset.
func (ds *DataService) Cutoffs(ctx context.Context, mode domain.AdmissionMode, q FilterQuery) (*CutoffReport, error) {
	records, err := ds.filteredRecords(ctx, mode, q)
	if err != nil {
		return nil, err
	}

	report := &CutoffReport{
		Mode:    mode,
		Rows:    analytics.Cutoffs(records, mode),
		Metrics: analytics.Metrics(records, mode),
	}
	if len(records) == 0 {
		report.Empty = true
		report.Message = emptySelectionMessage
	}
	return report, nil
}

// BranchMeans ranks branches by average score over the mode's filtered
// subset, ascending.
func (ds *DataService) BranchMeans(ctx context.Context, mode domain.AdmissionMode, q FilterQuery) (*BranchMeanReport, error) {
	records, err := ds.filteredRecords(ctx, mode, q)
	if err != nil {
		return nil, err
	}

	report := &BranchMeanReport{
		Mode:  mode,
		Means: analytics.BranchMeans(records, mode),
	}
	if len(records) == 0 {
		report.Empty = true
		report.Message = emptySelectionMessage
	}
	return report, nil
}

// Distribution returns campus/branch and per-branch entry counts over the
// mode's filtered subset.
func (ds *DataService) Distribution(ctx context.Context, mode domain.AdmissionMode, q FilterQuery) (*DistributionReport, error) {
	records, err := ds.filteredRecords(ctx, mode, q)
	if err != nil {
		return nil, err
	}

	report := &DistributionReport{
		Mode:         mode,
		CampusBranch: analytics.CampusBranchCounts(records),
		Branches:     analytics.BranchCounts(records),
	}
	if len(records) == 0 {
		report.Empty = true
		report.Message = emptySelectionMessage
	}
	return report, nil
}

// Histogram bins the mode's score distribution over the filtered subset.
// bins == 0 selects the mode's default; out-of-range values are rejected.
func (ds *DataService) Histogram(ctx context.Context, mode domain.AdmissionMode, bins int, q FilterQuery) (*HistogramReport, error) {
	if bins == 0 {
		bins = analytics.DefaultBins(mode)
	}
	if bins < analytics.MinHistogramBins || bins > analytics.MaxHistogramBins {
		return nil, apierrors.ErrValidation("bins", fmt.Sprintf(
			"bins must be between %d and %d", analytics.MinHistogramBins, analytics.MaxHistogramBins))
	}

	records, err := ds.filteredRecords(ctx, mode, q)
	if err != nil {
		return nil, err
	}

	report := &HistogramReport{
		Mode:      mode,
		Bins:      bins,
		Histogram: analytics.ComputeHistogram(records, mode, bins),
	}
	if len(records) == 0 {
		report.Empty = true
		report.Message = emptySelectionMessage
	}
	return report, nil
}

// Records returns the filtered raw table for the mode subset.
func (ds *DataService) Records(ctx context.Context, mode domain.AdmissionMode, q FilterQuery) (*RecordsReport, error) {
	records, err := ds.filteredRecords(ctx, mode, q)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.SurveyRecord{}
	}

	report := &RecordsReport{
		Mode:    mode,
		Records: records,
		Count:   len(records),
	}
	if len(records) == 0 {
		report.Empty = true
		report.Message = emptySelectionMessage
	}
	return report, nil
}

// filteredRecords loads the dataset and applies the resolved filter query to
// the mode subset.
func (ds *DataService) filteredRecords(ctx context.Context, mode domain.AdmissionMode, q FilterQuery) ([]domain.SurveyRecord, error) {
	if !mode.Valid() {
		return nil, apierrors.ErrValidation("mode", "mode must be one of: all, gate, hd")
	}

	dataset, err := ds.store.Load(ctx)
	if err != nil {
		return nil, apierrors.DatasetError(err)
	}

	return analytics.ApplyFilter(dataset.Records(mode), resolveFilter(q)), nil
}

// resolveFilter turns a filter query into a concrete filter. An unsupplied
// selection matches every record, blank values included, so unfiltered views
// keep rows without a branch or campus. A supplied but empty selection stays
// empty and matches nothing.
func resolveFilter(q FilterQuery) domain.Filter {
	filter := domain.Filter{
		Drill:       q.Drill,
		AllBranches: !q.BranchesSet,
		AllCampuses: !q.CampusesSet,
	}
	if q.BranchesSet {
		filter.Branches = q.Branches
	}
	if q.CampusesSet {
		filter.Campuses = q.Campuses
	}
	return filter
}
