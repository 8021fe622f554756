package domain

// CutoffRow is one row of the branch/campus cutoff table: score extremes and
// the rounded mean for a (branch, campus) group.
type CutoffRow struct {
	Branch string  `json:"branch"`
	Campus string  `json:"campus"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Count  int     `json:"count"`
}

// BranchMean is the average admitted score for a branch, rounded for display.
type BranchMean struct {
	Branch string  `json:"branch"`
	Mean   float64 `json:"mean"`
}

// CampusBranchCount is an entry count for a (campus, branch) pair, feeding
// stacked-composition charts.
type CampusBranchCount struct {
	Campus string `json:"campus"`
	Branch string `json:"branch"`
	Count  int    `json:"count"`
}

// BranchCount is an entry count per branch, feeding share/pie charts.
type BranchCount struct {
	Branch string `json:"branch"`
	Count  int    `json:"count"`
}

// HistogramBin is one bar of a score histogram. Lower is inclusive; Upper is
// exclusive except for the last bin, which includes the maximum score.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram is the server-side binning of a score distribution.
type Histogram struct {
	Bins  []HistogramBin `json:"bins"`
	Min   float64        `json:"min"`
	Max   float64        `json:"max"`
	Total int            `json:"total"`
}

// ModeMetrics is the per-mode dashboard metric row: entry count, rounded
// average, and the score extremes of the filtered subset.
type ModeMetrics struct {
	Entries int     `json:"entries"`
	Mean    float64 `json:"mean"`
	Highest float64 `json:"highest"`
	Lowest  float64 `json:"lowest"`
}

// DatasetSummary is the dashboard header block computed over the full
// dataset, before any filters.
type DatasetSummary struct {
	TotalRecords   int `json:"total_records"`
	UniqueBranches int `json:"unique_branches"`
	UniqueCampuses int `json:"unique_campuses"`
	GateEntries    int `json:"gate_entries"`
	HDEntries      int `json:"hd_entries"`
}
