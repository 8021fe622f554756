package analytics

import (
	"math"
	"sort"

	"hdpulse/pkg/contracts/domain"
)

// Round2 rounds a value to two decimal places for display. Aggregations keep
// exact sums internally and round only here, at the presentation boundary.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type groupKey struct {
	branch string
	campus string
}

type groupStats struct {
	min   float64
	max   float64
	sum   float64
	count int
}

func (g *groupStats) add(score float64) {
	if g.count == 0 || score < g.min {
		g.min = score
	}
	if g.count == 0 || score > g.max {
		g.max = score
	}
	g.sum += score
	g.count++
}

// Cutoffs computes the cutoff table over a filtered subset: min, max,
// rounded mean, and entry count of the mode's score per (branch, campus)
// group, sorted ascending by branch then campus. An empty subset yields an
// empty table.
func Cutoffs(records []domain.SurveyRecord, mode domain.AdmissionMode) []domain.CutoffRow {
	groups := make(map[groupKey]*groupStats)
	for i := range records {
		rec := &records[i]
		key := groupKey{branch: rec.Branch, campus: rec.Campus}
		g, ok := groups[key]
		if !ok {
			g = &groupStats{}
			groups[key] = g
		}
		g.add(rec.Score(mode))
	}

	rows := make([]domain.CutoffRow, 0, len(groups))
	for key, g := range groups {
		rows = append(rows, domain.CutoffRow{
			Branch: key.branch,
			Campus: key.campus,
			Min:    g.min,
			Max:    g.max,
			Mean:   Round2(g.sum / float64(g.count)),
			Count:  g.count,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Branch != rows[j].Branch {
			return rows[i].Branch < rows[j].Branch
		}
		return rows[i].Campus < rows[j].Campus
	})
	return rows
}

// BranchMeans computes the rounded mean score per branch, sorted ascending
// by mean for the ranked bar chart.
func BranchMeans(records []domain.SurveyRecord, mode domain.AdmissionMode) []domain.BranchMean {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range records {
		rec := &records[i]
		sums[rec.Branch] += rec.Score(mode)
		counts[rec.Branch]++
	}

	means := make([]domain.BranchMean, 0, len(sums))
	for branch, sum := range sums {
		means = append(means, domain.BranchMean{
			Branch: branch,
			Mean:   Round2(sum / float64(counts[branch])),
		})
	}

	sort.Slice(means, func(i, j int) bool {
		if means[i].Mean != means[j].Mean {
			return means[i].Mean < means[j].Mean
		}
		return means[i].Branch < means[j].Branch
	})
	return means
}

// CampusBranchCounts computes entry counts per (campus, branch) pair for the
// stacked campus-composition chart, sorted by campus then branch.
func CampusBranchCounts(records []domain.SurveyRecord) []domain.CampusBranchCount {
	counts := make(map[groupKey]int)
	for i := range records {
		counts[groupKey{branch: records[i].Branch, campus: records[i].Campus}]++
	}

	out := make([]domain.CampusBranchCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, domain.CampusBranchCount{
			Campus: key.campus,
			Branch: key.branch,
			Count:  n,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Campus != out[j].Campus {
			return out[i].Campus < out[j].Campus
		}
		return out[i].Branch < out[j].Branch
	})
	return out
}

// BranchCounts computes entry counts per branch for the share/pie chart,
// sorted by branch.
func BranchCounts(records []domain.SurveyRecord) []domain.BranchCount {
	counts := make(map[string]int)
	for i := range records {
		counts[records[i].Branch]++
	}

	out := make([]domain.BranchCount, 0, len(counts))
	for branch, n := range counts {
		out = append(out, domain.BranchCount{Branch: branch, Count: n})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Branch < out[j].Branch })
	return out
}

// Metrics computes the per-mode dashboard metric row over a filtered subset.
// Empty input yields the zero value; callers surface that as an explicit
// empty state, never as an empty chart.
func Metrics(records []domain.SurveyRecord, mode domain.AdmissionMode) domain.ModeMetrics {
	if len(records) == 0 {
		return domain.ModeMetrics{}
	}

	var g groupStats
	for i := range records {
		g.add(records[i].Score(mode))
	}

	return domain.ModeMetrics{
		Entries: g.count,
		Mean:    Round2(g.sum / float64(g.count)),
		Highest: g.max,
		Lowest:  g.min,
	}
}
