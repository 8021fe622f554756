package dataprocessing

import (
	"context"
	"log/slog"

	"hdpulse/pkg/contracts/domain"
)

// SplitModes partitions normalized records into the two admission subsets:
// GATE-based entries (GateScore > 0) and HD-test-based entries
// (GateScore == 0 and HDScore > 0). Exact duplicates are removed from each
// subset, keeping the first occurrence, and relative input order is
// preserved. Records that satisfy neither predicate are mode-indeterminate
// (typically non-admitted responses) and are dropped from both subsets; they
// remain visible only through the full dataset.
func SplitModes(ctx context.Context, logger *slog.Logger, records []domain.SurveyRecord) (gate, hd []domain.SurveyRecord) {
	if logger == nil {
		logger = slog.Default()
	}

	seenGate := make(map[string]struct{})
	seenHD := make(map[string]struct{})
	dropped := 0

	for i := range records {
		rec := records[i]
		switch {
		case rec.IsGate():
			key := rec.Fingerprint()
			if _, dup := seenGate[key]; dup {
				continue
			}
			seenGate[key] = struct{}{}
			gate = append(gate, rec)
		case rec.IsHD():
			key := rec.Fingerprint()
			if _, dup := seenHD[key]; dup {
				continue
			}
			seenHD[key] = struct{}{}
			hd = append(hd, rec)
		default:
			dropped++
		}
	}

	logger.InfoContext(ctx, "split admission modes",
		slog.Int("total", len(records)),
		slog.Int("gate", len(gate)),
		slog.Int("hd", len(hd)),
		slog.Int("mode_indeterminate", dropped))

	return gate, hd
}
