// Package exporter renders dashboard tables as CSV downloads. Writers
// stream to the response; nothing is staged on disk.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"hdpulse/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize UTF-8 encoded downloads.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCutoffsCSV writes the cutoff table as CSV.
func WriteCutoffsCSV(w io.Writer, rows []domain.CutoffRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"branch", "campus", "min", "max", "mean", "count"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		record := []string{
			row.Branch,
			row.Campus,
			formatFloat(row.Min),
			formatFloat(row.Max),
			formatFloat(row.Mean),
			formatInt(row.Count),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRecordsCSV writes the raw filtered table as CSV. The fixed columns
// come first; the union of extra survey columns follows in sorted order so
// every row has the same width.
func WriteRecordsCSV(w io.Writer, records []domain.SurveyRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	extras := extraColumns(records)
	header := append([]string{"gate_score", "hd_core", "hd_ss", "hd_score", "branch", "campus"}, extras...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range records {
		rec := &records[i]
		row := []string{
			formatFloat(rec.GateScore),
			formatFloat(rec.HDCore),
			formatFloat(rec.HDSS),
			formatFloat(rec.HDScore),
			rec.Branch,
			rec.Campus,
		}
		for _, col := range extras {
			row = append(row, rec.Extra[col])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// extraColumns returns the sorted union of extra column names.
func extraColumns(records []domain.SurveyRecord) []string {
	set := make(map[string]struct{})
	for i := range records {
		for col := range records[i].Extra {
			set[col] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
