package dataprocessing

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawTable is the survey export as read from disk before normalization:
// trimmed column headers in sheet order plus one value map per response row.
// Missing cells are nil so they serialize as JSON null.
type RawTable struct {
	Headers []string
	Rows    []map[string]any
}

// IngestFile reads a survey export into a RawTable, dispatching on the file
// extension. CSV and XLSX are supported.
func IngestFile(path string) (*RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return IngestCSV(path)
	case ".xlsx":
		return IngestXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported export format %q: want .csv or .xlsx", filepath.Ext(path))
	}
}

// IngestCSV reads a CSV survey export. Column-name whitespace is trimmed,
// completely empty rows are dropped, and cells missing from short rows map
// to null.
func IngestCSV(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv export: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // survey rows can be ragged

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv export: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv export %s has no header row", path)
	}

	return tableFromRows(rows), nil
}

// IngestXLSX reads the spreadsheet form of the survey export using the first
// sheet of the workbook, with the same cleanup rules as IngestCSV.
func IngestXLSX(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx export: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx export %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	return tableFromRows(rows), nil
}

// tableFromRows builds a RawTable from header + data rows.
func tableFromRows(rows [][]string) *RawTable {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &RawTable{Headers: headers}
	for _, row := range rows[1:] {
		if rowIsEmpty(row) {
			continue
		}
		m := make(map[string]any, len(headers))
		for i, h := range headers {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				m[h] = row[i]
			} else {
				m[h] = nil
			}
		}
		table.Rows = append(table.Rows, m)
	}
	return table
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// WriteJSON writes the table's rows as an indented JSON array, the normal
// form the dashboard server loads.
func (t *RawTable) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(t.Rows, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal survey rows: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}
