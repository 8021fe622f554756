package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdpulse/pkg/contracts/domain"
)

func TestCutoffs(t *testing.T) {
	t.Run("groups by branch and campus", func(t *testing.T) {
		records := []domain.SurveyRecord{
			{GateScore: 70, Branch: "CS", Campus: "Pilani"},
			{GateScore: 80, Branch: "CS", Campus: "Pilani"},
			{GateScore: 60, Branch: "CS", Campus: "Goa"},
		}

		rows := Cutoffs(records, domain.ModeGate)
		require.Len(t, rows, 2)

		// Sorted ascending by (branch, campus): Goa before Pilani.
		assert.Equal(t, domain.CutoffRow{Branch: "CS", Campus: "Goa", Min: 60, Max: 60, Mean: 60.0, Count: 1}, rows[0])
		assert.Equal(t, domain.CutoffRow{Branch: "CS", Campus: "Pilani", Min: 70, Max: 80, Mean: 75.0, Count: 2}, rows[1])
	})

	t.Run("mean rounded only at presentation", func(t *testing.T) {
		records := []domain.SurveyRecord{
			{GateScore: 10, Branch: "CS", Campus: "Pilani"},
			{GateScore: 20, Branch: "CS", Campus: "Pilani"},
			{GateScore: 25, Branch: "CS", Campus: "Pilani"},
		}

		rows := Cutoffs(records, domain.ModeGate)
		require.Len(t, rows, 1)
		// exact mean 18.333... rounds to 18.33; rounding per-record first
		// would not change these inputs, the sum is kept exact regardless
		assert.Equal(t, 18.33, rows[0].Mean)
	})

	t.Run("empty input yields empty table", func(t *testing.T) {
		assert.Empty(t, Cutoffs(nil, domain.ModeGate))
	})

	t.Run("hd mode uses combined hd score", func(t *testing.T) {
		records := []domain.SurveyRecord{
			{HDCore: 180, HDSS: 210, HDScore: 210, Branch: "SS", Campus: "Pilani"},
		}

		rows := Cutoffs(records, domain.ModeHD)
		require.Len(t, rows, 1)
		assert.Equal(t, 210.0, rows[0].Min)
		assert.Equal(t, 210.0, rows[0].Max)
	})
}

func TestBranchMeans(t *testing.T) {
	records := []domain.SurveyRecord{
		{GateScore: 70, Branch: "CS", Campus: "Pilani"},
		{GateScore: 80, Branch: "CS", Campus: "Goa"},
		{GateScore: 40, Branch: "Mech", Campus: "Pilani"},
		{GateScore: 50, Branch: "Civil", Campus: "Pilani"},
	}

	means := BranchMeans(records, domain.ModeGate)
	require.Len(t, means, 3)

	// Ascending by mean for the ranked chart.
	assert.Equal(t, domain.BranchMean{Branch: "Mech", Mean: 40.0}, means[0])
	assert.Equal(t, domain.BranchMean{Branch: "Civil", Mean: 50.0}, means[1])
	assert.Equal(t, domain.BranchMean{Branch: "CS", Mean: 75.0}, means[2])
}

func TestCampusBranchCounts(t *testing.T) {
	records := []domain.SurveyRecord{
		{GateScore: 70, Branch: "CS", Campus: "Pilani"},
		{GateScore: 80, Branch: "CS", Campus: "Pilani"},
		{GateScore: 60, Branch: "Mech", Campus: "Pilani"},
		{GateScore: 55, Branch: "CS", Campus: "Goa"},
	}

	counts := CampusBranchCounts(records)
	require.Len(t, counts, 3)
	assert.Equal(t, domain.CampusBranchCount{Campus: "Goa", Branch: "CS", Count: 1}, counts[0])
	assert.Equal(t, domain.CampusBranchCount{Campus: "Pilani", Branch: "CS", Count: 2}, counts[1])
	assert.Equal(t, domain.CampusBranchCount{Campus: "Pilani", Branch: "Mech", Count: 1}, counts[2])
}

func TestBranchCounts(t *testing.T) {
	records := []domain.SurveyRecord{
		{GateScore: 70, Branch: "CS"},
		{GateScore: 80, Branch: "CS"},
		{GateScore: 60, Branch: "Mech"},
	}

	counts := BranchCounts(records)
	require.Len(t, counts, 2)
	assert.Equal(t, domain.BranchCount{Branch: "CS", Count: 2}, counts[0])
	assert.Equal(t, domain.BranchCount{Branch: "Mech", Count: 1}, counts[1])
}

func TestMetrics(t *testing.T) {
	t.Run("filtered subset", func(t *testing.T) {
		records := []domain.SurveyRecord{
			{GateScore: 70, Branch: "CS"},
			{GateScore: 80, Branch: "CS"},
			{GateScore: 45, Branch: "Mech"},
		}

		m := Metrics(records, domain.ModeGate)
		assert.Equal(t, 3, m.Entries)
		assert.Equal(t, 65.0, m.Mean)
		assert.Equal(t, 80.0, m.Highest)
		assert.Equal(t, 45.0, m.Lowest)
	})

	t.Run("empty subset yields zero metrics", func(t *testing.T) {
		m := Metrics(nil, domain.ModeGate)
		assert.Equal(t, domain.ModeMetrics{}, m)
	})
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 75.0, want: 75.0},
		{in: 66.666666, want: 66.67},
		{in: 66.664, want: 66.66},
		{in: 0, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in))
	}
}
