// Package analytics implements the dashboard's query layer: the record
// filter and the grouped aggregations behind the cutoff tables, branch
// rankings, distribution charts, and score histograms.
//
// Every function here is a pure, single-pass transformation over a slice of
// normalized records. Nothing is mutated and nothing is cached; the store
// owns the immutable dataset and each user interaction re-runs the
// filter/aggregate path against it.
package analytics
