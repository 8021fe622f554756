// Command converter turns a raw survey export (.csv or .xlsx) into the
// indented JSON dataset the dashboard server loads.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"hdpulse/internal/dataprocessing"
)

func main() {
	in := flag.String("in", "", "input survey export (.csv or .xlsx)")
	out := flag.String("out", "", "output JSON path (defaults to the input name with .json)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: converter -in survey.csv [-out dataset.json]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	target := *out
	if target == "" {
		ext := filepath.Ext(*in)
		target = strings.TrimSuffix(*in, ext) + ".json"
	}

	table, err := dataprocessing.IngestFile(*in)
	if err != nil {
		logger.Error("failed to read export",
			slog.String("path", *in),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := table.WriteJSON(target); err != nil {
		logger.Error("failed to write dataset",
			slog.String("path", target),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("dataset written",
		slog.String("input", *in),
		slog.String("output", target),
		slog.Int("columns", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))
}
