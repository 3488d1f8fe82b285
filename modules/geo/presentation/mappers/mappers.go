package mappers

import (
	"time"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/bulkimport"
	"github.com/gramseva/portal/modules/geo/domain/entities/village"
)

type Village struct {
	ID         int64  `json:"id"`
	DistrictID int64  `json:"district_id"`
	Name       string `json:"name"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type District struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	VillageCount int       `json:"village_count"`
	Villages     []Village `json:"villages"`
	CreatedAt    string    `json:"created_at,omitempty"`
}

type ImportResult struct {
	Success          bool     `json:"success"`
	DistrictCount    int      `json:"district_count"`
	VillageCount     int      `json:"village_count"`
	MatchedDistricts int      `json:"matched_districts"`
	SkippedVillages  int      `json:"skipped_villages"`
	RowCount         int      `json:"row_count"`
	Message          string   `json:"message"`
	Errors           []string `json:"errors"`
	MoreErrors       int      `json:"more_errors"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func VillageToAPI(v village.Village) Village {
	return Village{
		ID:         v.ID(),
		DistrictID: v.DistrictID(),
		Name:       v.Name(),
		CreatedAt:  formatTime(v.CreatedAt()),
	}
}

func VillagesToAPI(vs []village.Village) []Village {
	out := make([]Village, 0, len(vs))
	for _, v := range vs {
		out = append(out, VillageToAPI(v))
	}
	return out
}

func DistrictToAPI(d district.District) District {
	return District{
		ID:           d.ID(),
		Name:         d.Name(),
		VillageCount: d.VillageCount(),
		Villages:     VillagesToAPI(d.Villages()),
		CreatedAt:    formatTime(d.CreatedAt()),
	}
}

func DistrictsToAPI(ds []district.District) []District {
	out := make([]District, 0, len(ds))
	for _, d := range ds {
		out = append(out, DistrictToAPI(d))
	}
	return out
}

// ImportResultToAPI keeps the first bulkimport.DefaultSummarySize errors and
// reports how many were left out.
func ImportResultToAPI(r bulkimport.Result) ImportResult {
	errs, more := r.Summary(bulkimport.DefaultSummarySize)
	if errs == nil {
		errs = []string{}
	}
	return ImportResult{
		Success:          r.Success,
		DistrictCount:    r.DistrictCount,
		VillageCount:     r.VillageCount,
		MatchedDistricts: r.MatchedDistricts,
		SkippedVillages:  r.SkippedVillages,
		RowCount:         r.RowCount,
		Message:          r.Message(),
		Errors:           errs,
		MoreErrors:       more,
	}
}
