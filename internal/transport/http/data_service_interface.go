package http

import (
	"context"

	"hdpulse/internal/services"
	"hdpulse/pkg/contracts/domain"
)

// DataServiceInterface defines the data operations the handlers depend on
type DataServiceInterface interface {
	FilterOptions(ctx context.Context) (domain.FilterOptions, error)
	Summary(ctx context.Context) (domain.DatasetSummary, error)
	Cutoffs(ctx context.Context, mode domain.AdmissionMode, q services.FilterQuery) (*services.CutoffReport, error)
	BranchMeans(ctx context.Context, mode domain.AdmissionMode, q services.FilterQuery) (*services.BranchMeanReport, error)
	Distribution(ctx context.Context, mode domain.AdmissionMode, q services.FilterQuery) (*services.DistributionReport, error)
	Histogram(ctx context.Context, mode domain.AdmissionMode, bins int, q services.FilterQuery) (*services.HistogramReport, error)
	Records(ctx context.Context, mode domain.AdmissionMode, q services.FilterQuery) (*services.RecordsReport, error)
}
