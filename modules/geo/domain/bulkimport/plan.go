package bulkimport

import (
	"context"
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	PlanStatusMatched = "matched"
	PlanStatusNew     = "new"

	maxSuggestions        = 3
	suggestionMaxDistance = 2
)

type PlanGroup struct {
	District   string `json:"district"`
	Status     string `json:"status"`
	DistrictID int64  `json:"district_id,omitempty"`
	Villages   int    `json:"villages"`
	// Suggestions lists existing districts a new name is probably a typo of.
	Suggestions []string `json:"suggestions,omitempty"`
}

type PlanResult struct {
	Groups           []PlanGroup `json:"groups"`
	NewDistricts     int         `json:"new_districts"`
	MatchedDistricts int         `json:"matched_districts"`
	VillageCount     int         `json:"village_count"`
}

// Plan resolves groups the way Run would without writing anything.
func Plan(ctx context.Context, dir Directory, groups []Group) (PlanResult, error) {
	existing, err := dir.ListDistricts(ctx)
	if err != nil {
		return PlanResult{}, fmt.Errorf("list districts: %w", err)
	}
	index := newDistrictIndex(existing)
	known := append([]string(nil), index.names...)

	out := PlanResult{Groups: make([]PlanGroup, 0, len(groups))}
	for _, g := range groups {
		pg := PlanGroup{District: g.District, Villages: len(g.Villages)}
		if id, ok := index.lookup(g.District); ok {
			pg.Status = PlanStatusMatched
			if id > 0 {
				pg.DistrictID = id
			}
			out.MatchedDistricts++
		} else {
			pg.Status = PlanStatusNew
			pg.Suggestions = suggest(index, g.District, known)
			// Later groups with the same folded name reuse this district.
			index.add(0, g.District)
			out.NewDistricts++
		}
		out.VillageCount += pg.Villages
		out.Groups = append(out.Groups, pg)
	}
	return out, nil
}

func suggest(index *districtIndex, name string, known []string) []string {
	type candidate struct {
		name     string
		distance int
	}
	key := index.key(name)
	var candidates []candidate
	for _, k := range known {
		d := fuzzy.LevenshteinDistance(key, index.key(k))
		if d > 0 && d <= suggestionMaxDistance {
			candidates = append(candidates, candidate{name: k, distance: d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.name)
	}
	return out
}
