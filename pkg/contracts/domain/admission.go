package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SurveyRecord is one normalized admission survey response. It is built once
// by the loader and never mutated afterwards; every dashboard query reads
// from the same records.
type SurveyRecord struct {
	GateScore float64 `json:"gate_score" validate:"min=0"`
	HDCore    float64 `json:"hd_core" validate:"min=0"`
	HDSS      float64 `json:"hd_ss" validate:"min=0"`
	// HDScore is always max(HDCore, HDSS), recomputed at load time.
	HDScore float64 `json:"hd_score" validate:"min=0"`
	Branch  string  `json:"branch"`
	Campus  string  `json:"campus"`
	// Extra carries the survey fields the normalizer does not touch,
	// keyed by their original (trimmed) column names. They are shown in
	// the raw-table view only.
	Extra map[string]string `json:"extra,omitempty"`
}

// AdmissionMode selects which eligibility path a query looks at.
type AdmissionMode string

const (
	// ModeAll covers every loaded record, including mode-indeterminate ones.
	ModeAll AdmissionMode = "all"
	// ModeGate covers records admitted on a GATE/GPAT score.
	ModeGate AdmissionMode = "gate"
	// ModeHD covers records admitted on a BITS-HD test score.
	ModeHD AdmissionMode = "hd"
)

// Valid reports whether m is a known admission mode.
func (m AdmissionMode) Valid() bool {
	switch m {
	case ModeAll, ModeGate, ModeHD:
		return true
	}
	return false
}

// Score returns the record's score under the given mode. For ModeAll the
// populated score wins; a GATE entry never has an HD score counted and vice
// versa.
func (r *SurveyRecord) Score(mode AdmissionMode) float64 {
	switch mode {
	case ModeGate:
		return r.GateScore
	case ModeHD:
		return r.HDScore
	default:
		if r.GateScore > 0 {
			return r.GateScore
		}
		return r.HDScore
	}
}

// IsGate reports whether the record belongs to the GATE-based subset.
func (r *SurveyRecord) IsGate() bool {
	return r.GateScore > 0
}

// IsHD reports whether the record belongs to the HD-test-based subset.
// The two predicates are disjoint by construction.
func (r *SurveyRecord) IsHD() bool {
	return r.GateScore == 0 && r.HDScore > 0
}

// Fingerprint returns a stable identity string over every field of the
// record. Two records are duplicates iff their fingerprints are equal.
func (r *SurveyRecord) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%g|%g|%g|%s|%s", r.GateScore, r.HDCore, r.HDSS, r.Branch, r.Campus)
	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%s", k, r.Extra[k])
	}
	return b.String()
}

// Filter is the dashboard's record predicate: branch and campus membership
// plus an optional single-branch drilldown. AllBranches and AllCampuses
// bypass the membership test entirely, so records with blank values still
// match; an empty selection with the flag unset matches nothing.
type Filter struct {
	Branches    []string `json:"branches"`
	Campuses    []string `json:"campuses"`
	Drill       string   `json:"drill,omitempty"`
	AllBranches bool     `json:"-"`
	AllCampuses bool     `json:"-"`
}

// FilterOptions lists the distinct values the filter controls can offer.
type FilterOptions struct {
	Branches []string `json:"branches"`
	Campuses []string `json:"campuses"`
}
