package analytics

import (
	"hdpulse/pkg/contracts/domain"
)

// ApplyFilter returns the records matching the filter: branch in the branch
// selection, campus in the campus selection, and, when a drilldown branch is
// set, that branch exactly. The AllBranches/AllCampuses flags skip the
// membership test, keeping records with blank values in the unfiltered view.
// An empty selection without the flag matches nothing; that is a valid state
// of the multi-select controls, not an error. The input slice is never
// mutated.
func ApplyFilter(records []domain.SurveyRecord, f domain.Filter) []domain.SurveyRecord {
	branches := toSet(f.Branches)
	campuses := toSet(f.Campuses)

	var out []domain.SurveyRecord
	for i := range records {
		rec := &records[i]
		if !f.AllBranches {
			if _, ok := branches[rec.Branch]; !ok {
				continue
			}
		}
		if !f.AllCampuses {
			if _, ok := campuses[rec.Campus]; !ok {
				continue
			}
		}
		if f.Drill != "" && rec.Branch != f.Drill {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

// MergeFilters intersects two compatible filter configurations. Applying the
// merged filter equals applying cfg1 then cfg2.
func MergeFilters(a, b domain.Filter) domain.Filter {
	merged := domain.Filter{
		Drill: a.Drill,
	}
	merged.AllBranches, merged.Branches = intersectSelection(a.AllBranches, a.Branches, b.AllBranches, b.Branches)
	merged.AllCampuses, merged.Campuses = intersectSelection(a.AllCampuses, a.Campuses, b.AllCampuses, b.Campuses)
	if b.Drill != "" {
		merged.Drill = b.Drill
	}
	// Conflicting drilldowns match nothing under sequential application.
	if a.Drill != "" && b.Drill != "" && a.Drill != b.Drill {
		merged.AllBranches = false
		merged.Branches = nil
	}
	return merged
}

// intersectSelection intersects two selections where the all flag stands for
// the universal set.
func intersectSelection(aAll bool, a []string, bAll bool, b []string) (bool, []string) {
	switch {
	case aAll && bAll:
		return true, nil
	case aAll:
		return false, b
	case bAll:
		return false, a
	default:
		return false, intersect(a, b)
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func intersect(a, b []string) []string {
	inB := toSet(b)
	var out []string
	for _, v := range a {
		if _, ok := inB[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
