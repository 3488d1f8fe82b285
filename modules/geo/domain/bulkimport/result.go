package bulkimport

import "fmt"

const (
	MsgNoValidData     = "No valid data found"
	MsgListingFailed   = "Failed to load existing districts"
	DefaultSummarySize = 5
)

func districtCreationFailed(name string) string {
	return fmt.Sprintf("District \"%s\" creation failed", name)
}

func villageDistrictNotFound(name string) string {
	return fmt.Sprintf("Village \"%s\" — district not found", name)
}

func villageAddFailed(name, district string) string {
	return fmt.Sprintf("Village \"%s\" — failed to add under district \"%s\"", name, district)
}

// Result is the outcome of one import run.
type Result struct {
	Success       bool     `json:"success"`
	DistrictCount int      `json:"district_count"`
	VillageCount  int      `json:"village_count"`
	Errors        []string `json:"errors"`

	// MatchedDistricts counts groups resolved to an existing district.
	MatchedDistricts int `json:"matched_districts"`
	// SkippedVillages counts villages never attempted because their district could not be created.
	SkippedVillages int `json:"skipped_villages"`
	RowCount        int `json:"row_count"`
	GroupCount      int `json:"group_count"`
}

// NoValidData is the terminal result for input without a single usable row.
func NoValidData() Result {
	return Result{Errors: []string{MsgNoValidData}}
}

func (r *Result) addError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *Result) finalize() {
	if r.Errors == nil {
		r.Errors = []string{}
	}
	r.Success = len(r.Errors) == 0
}

// Summary returns at most limit errors and how many were left out.
func (r Result) Summary(limit int) ([]string, int) {
	if limit < 0 {
		limit = 0
	}
	if len(r.Errors) <= limit {
		return r.Errors, 0
	}
	return r.Errors[:limit], len(r.Errors) - limit
}

// Message is the one-line banner shown after a run.
func (r Result) Message() string {
	switch {
	case r.Success:
		return fmt.Sprintf("Imported %d districts and %d villages", r.DistrictCount, r.VillageCount)
	case r.RowCount == 0 && len(r.Errors) == 1 && r.Errors[0] == MsgNoValidData:
		return MsgNoValidData
	default:
		return fmt.Sprintf("Import finished with %d errors: %d districts and %d villages created",
			len(r.Errors), r.DistrictCount, r.VillageCount)
	}
}
