package analytics

import (
	"hdpulse/pkg/contracts/domain"
)

// Histogram bin-count bounds, matching the dashboard's bin sliders.
const (
	MinHistogramBins = 10
	MaxHistogramBins = 50

	DefaultGateBins = 25
	DefaultHDBins   = 20
)

// DefaultBins returns the mode's default histogram bin count.
func DefaultBins(mode domain.AdmissionMode) int {
	if mode == domain.ModeHD {
		return DefaultHDBins
	}
	return DefaultGateBins
}

// ComputeHistogram bins the mode's score over a filtered subset into bins
// equal-width buckets spanning [min, max]. Each bin is half-open except the
// last, which includes the maximum so no score falls off the top edge.
// Empty input yields a histogram with no bins.
func ComputeHistogram(records []domain.SurveyRecord, mode domain.AdmissionMode, bins int) domain.Histogram {
	if len(records) == 0 {
		return domain.Histogram{}
	}
	if bins < MinHistogramBins {
		bins = MinHistogramBins
	}
	if bins > MaxHistogramBins {
		bins = MaxHistogramBins
	}

	scores := make([]float64, len(records))
	lo, hi := records[0].Score(mode), records[0].Score(mode)
	for i := range records {
		s := records[i].Score(mode)
		scores[i] = s
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	hist := domain.Histogram{Min: lo, Max: hi, Total: len(scores)}

	if lo == hi {
		// Degenerate distribution: every score identical, one bin.
		hist.Bins = []domain.HistogramBin{{Lower: lo, Upper: hi, Count: len(scores)}}
		return hist
	}

	width := (hi - lo) / float64(bins)
	hist.Bins = make([]domain.HistogramBin, bins)
	for i := range hist.Bins {
		hist.Bins[i].Lower = lo + float64(i)*width
		hist.Bins[i].Upper = lo + float64(i+1)*width
	}
	hist.Bins[bins-1].Upper = hi

	for _, s := range scores {
		idx := int((s - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		hist.Bins[idx].Count++
	}
	return hist
}
