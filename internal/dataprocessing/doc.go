// Package dataprocessing turns the raw BITS HD admission survey export into
// normalized, typed records ready for the analytics layer.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Ingest: reads the raw CSV or XLSX export into row maps
// 2. Normalizer: renames survey-question columns, cleans numeric fields,
// derives the combined HD score
// 3. Splitter: partitions normalized records into the GATE-based and
// HD-test-based admission subsets
//
// # Data Flow
//
//	CSV/XLSX export → Ingest → row maps → Normalize → SurveyRecords → Split → {GATE, HD}
//
// Numeric survey answers are free text ("55.5 (General)", "NA", "0"); the
// normalizer extracts the first decimal-number substring and treats anything
// without digits as 0.0, which the survey semantics read as "not applicable"
// rather than an error.
package dataprocessing
