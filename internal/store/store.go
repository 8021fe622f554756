// Package store owns the normalized survey dataset: an explicit load-once,
// read-many data store built at process start and handed by reference to
// every query path. A Dataset is immutable after load; reloads swap in a new
// Dataset atomically, so concurrent readers never see partial state.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"hdpulse/internal/dataprocessing"
	"hdpulse/pkg/contracts/domain"
)

// Dataset is one immutable snapshot of the survey data: the full normalized
// record list plus the two deduplicated admission-mode subsets.
type Dataset struct {
	// All holds every normalized record, including mode-indeterminate
	// ones; it backs the raw-table view.
	All []domain.SurveyRecord
	// Gate and HD are the disjoint admission-mode subsets.
	Gate []domain.SurveyRecord
	HD   []domain.SurveyRecord

	// Version identifies the snapshot: source path + modtime.
	Version  string
	LoadedAt time.Time
}

// Records returns the record subset for the given mode.
func (d *Dataset) Records(mode domain.AdmissionMode) []domain.SurveyRecord {
	switch mode {
	case domain.ModeGate:
		return d.Gate
	case domain.ModeHD:
		return d.HD
	default:
		return d.All
	}
}

// Options returns the sorted distinct branches and campuses of the full
// dataset, for populating the filter controls. Blank values are skipped.
func (d *Dataset) Options() domain.FilterOptions {
	branches := make(map[string]struct{})
	campuses := make(map[string]struct{})
	for i := range d.All {
		if b := d.All[i].Branch; b != "" {
			branches[b] = struct{}{}
		}
		if c := d.All[i].Campus; c != "" {
			campuses[c] = struct{}{}
		}
	}
	return domain.FilterOptions{
		Branches: sortedKeys(branches),
		Campuses: sortedKeys(campuses),
	}
}

// Summary returns the dashboard header metrics over the full dataset.
func (d *Dataset) Summary() domain.DatasetSummary {
	opts := d.Options()
	return domain.DatasetSummary{
		TotalRecords:   len(d.All),
		UniqueBranches: len(opts.Branches),
		UniqueCampuses: len(opts.Campuses),
		GateEntries:    len(d.Gate),
		HDEntries:      len(d.HD),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Store loads the JSON survey export and caches the normalized Dataset,
// keyed by source path and modification time. The cache is a performance
// optimization only; every Dataset handed out is correct for the file state
// it was loaded from.
type Store struct {
	path       string
	logger     *slog.Logger
	normalizer *dataprocessing.Normalizer

	mu      sync.RWMutex
	current *Dataset
	modTime time.Time
}

// New creates a store for the given JSON dataset path. No I/O happens until
// Load.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "store"))
	return &Store{
		path:       path,
		logger:     logger,
		normalizer: dataprocessing.NewNormalizer(logger),
	}
}

// Path returns the source path the store reads from.
func (s *Store) Path() string {
	return s.path
}

// Load reads, normalizes, and splits the dataset. A missing or unreadable
// source file is fatal to the caller: the dashboard must not come up over
// partial data. Load is safe for concurrent use.
func (s *Store) Load(ctx context.Context) (*Dataset, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat dataset %s: %w", s.path, err)
	}

	s.mu.RLock()
	if s.current != nil && s.modTime.Equal(info.ModTime()) {
		ds := s.current
		s.mu.RUnlock()
		return ds, nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", s.path, err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", s.path, err)
	}

	records := s.normalizer.Normalize(ctx, rows)
	gate, hd := dataprocessing.SplitModes(ctx, s.logger, records)

	ds := &Dataset{
		All:      records,
		Gate:     gate,
		HD:       hd,
		Version:  fmt.Sprintf("%s@%d", s.path, info.ModTime().UnixNano()),
		LoadedAt: time.Now(),
	}

	s.mu.Lock()
	s.current = ds
	s.modTime = info.ModTime()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", s.path),
		slog.Int("records", len(records)),
		slog.Int("gate", len(gate)),
		slog.Int("hd", len(hd)),
		slog.String("version", ds.Version))

	return ds, nil
}

// Current returns the cached dataset without touching the filesystem, or
// nil when nothing has been loaded yet.
func (s *Store) Current() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Changed reports whether the source file's modification time differs from
// the cached snapshot's. Used by the reload watcher.
func (s *Store) Changed() (bool, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return false, fmt.Errorf("stat dataset %s: %w", s.path, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current == nil || !s.modTime.Equal(info.ModTime()), nil
}
