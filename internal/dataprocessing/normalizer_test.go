package dataprocessing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain integer", input: "55", want: 55},
		{name: "plain decimal", input: "55.5", want: 55.5},
		{name: "score with qualifier suffix", input: "55.5 (General)", want: 55.5},
		{name: "score with leading text", input: "marks: 312.25 out of 450", want: 312.25},
		{name: "zero", input: "0", want: 0},
		{name: "trailing dot", input: "48.", want: 48},
		{name: "no digits", input: "not applicable", want: 0},
		{name: "empty string", input: "", want: 0},
		{name: "only punctuation", input: "N/A - didn't appear", want: 0},
		{name: "first of several numbers wins", input: "120 / 450", want: 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumeric(tt.input)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestCanonicalColumn(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "verbose gate question",
			header: "GATE or GPAT score (if not through GATE/GPAT then put 0)",
			want:   ColGateScore,
		},
		{
			name:   "verbose branch question",
			header: "For which ME / M.Pharm branch you got provisionally shortlisted at BITS ?",
			want:   ColBranch,
		},
		{
			name:   "already canonical",
			header: "GATE Score",
			want:   ColGateScore,
		},
		{
			name:   "unmapped passthrough",
			header: "Timestamp",
			want:   "Timestamp",
		},
		{
			name:   "surrounding whitespace trimmed before lookup",
			header: "  Campus  ",
			want:   ColCampus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalColumn(tt.header))
		})
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	ctx := context.Background()
	n := NewNormalizer(slog.Default())

	t.Run("verbose columns renamed and cleaned", func(t *testing.T) {
		rows := []map[string]any{
			{
				"GATE or GPAT score (if not through GATE/GPAT then put 0)": "55.5 (General)",
				"BITS HD Marks Scored in (Paper 1+ Paper 2) for Core Engineering disciple (CS/MECH/CIVIL/IT/BIOTECH/ECE/ETC/EE)  (Enter 0 if not applicable)": "0",
				"BITS HD test marks (Paper 1 + Software systems) for  Software System only (SS) (Enter 0 if not applicable)":                                  nil,
				"For which ME / M.Pharm branch you got provisionally shortlisted at BITS ?":                                                                   "  Computer Science ",
				"Which campus did you get admission (choose - not applicable if you did not get admission)":                                                   "Pilani",
				"Timestamp": "2024/06/12 10:04:11",
			},
		}

		records := n.Normalize(ctx, rows)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, 55.5, rec.GateScore)
		assert.Equal(t, 0.0, rec.HDCore)
		assert.Equal(t, 0.0, rec.HDSS)
		assert.Equal(t, 0.0, rec.HDScore)
		assert.Equal(t, "Computer Science", rec.Branch)
		assert.Equal(t, "Pilani", rec.Campus)
		assert.Equal(t, "2024/06/12 10:04:11", rec.Extra["Timestamp"])
	})

	t.Run("hd score is max of core and ss", func(t *testing.T) {
		tests := []struct {
			name string
			core any
			ss   any
			want float64
		}{
			{name: "core higher", core: "230", ss: "180", want: 230},
			{name: "ss higher", core: "150.5", ss: "212", want: 212},
			{name: "equal", core: "200", ss: "200", want: 200},
			{name: "both unparseable", core: "NA", ss: nil, want: 0},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				records := n.Normalize(ctx, []map[string]any{{
					"HD Core": tt.core,
					"HD SS":   tt.ss,
				}})
				require.Len(t, records, 1)
				assert.Equal(t, tt.want, records[0].HDScore)
			})
		}
	})

	t.Run("non-string values coerced to string form", func(t *testing.T) {
		records := n.Normalize(ctx, []map[string]any{{
			"GATE Score": float64(61),
			"ME Branch":  float64(7.5),
			"Campus":     nil,
			"Admitted":   true,
		}})
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, 61.0, rec.GateScore)
		assert.Equal(t, "7.5", rec.Branch)
		assert.Equal(t, "", rec.Campus)
		assert.Equal(t, "true", rec.Extra["Admitted"])
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		records := n.Normalize(ctx, nil)
		assert.Empty(t, records)
	})
}
