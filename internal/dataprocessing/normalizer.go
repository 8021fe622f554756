package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"hdpulse/pkg/contracts/domain"
)

// Canonical column names produced by the rename table.
const (
	ColGateScore = "GATE Score"
	ColHDCore    = "HD Core"
	ColHDSS      = "HD SS"
	ColBranch    = "ME Branch"
	ColCampus    = "Campus"
)

// columnRenames maps the verbose survey-question headers of the raw export
// to canonical column names. Columns not listed here pass through unchanged.
var columnRenames = map[string]string{
	"GATE or GPAT score (if not through GATE/GPAT then put 0)": ColGateScore,
	"BITS HD Marks Scored in (Paper 1+ Paper 2) for Core Engineering disciple (CS/MECH/CIVIL/IT/BIOTECH/ECE/ETC/EE)  (Enter 0 if not applicable)": ColHDCore,
	"BITS HD test marks (Paper 1 + Software systems) for  Software System only (SS) (Enter 0 if not applicable)":                                  ColHDSS,
	"For which ME / M.Pharm branch you got provisionally shortlisted at BITS ?":                                                                   ColBranch,
	"Which campus did you get admission (choose - not applicable if you did not get admission)":                                                   ColCampus,
}

// numericPattern matches the first contiguous decimal-number substring of a
// survey answer: one or more digits, optionally a dot and more digits.
var numericPattern = regexp.MustCompile(`[0-9]+\.?[0-9]*`)

// ParseNumeric extracts the first decimal-number substring of s and parses
// it as a float. Strings without any digit sequence yield 0.0, which the
// survey treats as "not applicable". The result is never negative.
func ParseNumeric(s string) float64 {
	match := numericPattern.FindString(s)
	if match == "" {
		return 0.0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0.0
	}
	return v
}

// CanonicalColumn resolves a raw column header to its canonical name,
// returning the header unchanged when no rename applies.
func CanonicalColumn(header string) string {
	header = strings.TrimSpace(header)
	if canonical, ok := columnRenames[header]; ok {
		return canonical
	}
	return header
}

// Normalizer converts raw survey row maps into typed SurveyRecords.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer with the given logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		logger: logger.With(slog.String("component", "normalizer")),
	}
}

// Normalize converts raw row maps, as decoded from the JSON export, into
// SurveyRecords. Numeric survey fields are cleaned with ParseNumeric, the
// combined HD score is derived as max(HD Core, HD SS), and branch/campus are
// trimmed. All remaining columns land in Extra untouched.
func (n *Normalizer) Normalize(ctx context.Context, rows []map[string]any) []domain.SurveyRecord {
	records := make([]domain.SurveyRecord, 0, len(rows))

	for _, row := range rows {
		rec := domain.SurveyRecord{Extra: make(map[string]string)}

		for key, value := range row {
			text := coerceString(value)
			switch CanonicalColumn(key) {
			case ColGateScore:
				rec.GateScore = ParseNumeric(text)
			case ColHDCore:
				rec.HDCore = ParseNumeric(text)
			case ColHDSS:
				rec.HDSS = ParseNumeric(text)
			case ColBranch:
				rec.Branch = strings.TrimSpace(text)
			case ColCampus:
				rec.Campus = strings.TrimSpace(text)
			default:
				rec.Extra[strings.TrimSpace(key)] = text
			}
		}

		// The combined score is always derived, never stored.
		rec.HDScore = max(rec.HDCore, rec.HDSS)

		if len(rec.Extra) == 0 {
			rec.Extra = nil
		}
		records = append(records, rec)
	}

	n.logger.InfoContext(ctx, "normalized survey rows",
		slog.Int("rows_in", len(rows)),
		slog.Int("records_out", len(records)))

	return records
}

// coerceString renders a decoded JSON value as its string form. Null becomes
// the empty string; whole-valued floats print without a trailing ".0" so the
// output matches what the survey sheet displayed.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
