package bulkimport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_ClassifiesGroupsWithoutWriting(t *testing.T) {
	dir := newFakeDirectory(
		DistrictRef{ID: 5, Name: "Jaunpur"},
		DistrictRef{ID: 6, Name: "Varanasi"},
	)
	groups := GroupRows([]Row{
		{"jaunpur", "A"},
		{"Jaunpr", "B"},
		{"Jaunpr", "C"},
		{"Gorakhpur", "D"},
		{"JAUNPR", "E"},
	})

	plan, err := Plan(context.Background(), dir, groups)
	require.NoError(t, err)

	require.Len(t, plan.Groups, 4)
	assert.Equal(t, PlanGroup{District: "jaunpur", Status: PlanStatusMatched, DistrictID: 5, Villages: 1}, plan.Groups[0])
	assert.Equal(t, PlanStatusNew, plan.Groups[1].Status)
	assert.Equal(t, []string{"Jaunpur"}, plan.Groups[1].Suggestions)
	assert.Equal(t, 2, plan.Groups[1].Villages)
	assert.Empty(t, plan.Groups[2].Suggestions)
	// A later group differing only by case reuses the planned district.
	assert.Equal(t, PlanStatusMatched, plan.Groups[3].Status)

	assert.Equal(t, 2, plan.NewDistricts)
	assert.Equal(t, 2, plan.MatchedDistricts)
	assert.Equal(t, 5, plan.VillageCount)
	assert.Empty(t, dir.districtCalls)
	assert.Empty(t, dir.villageCalls)
}

func TestPlan_ListError(t *testing.T) {
	dir := newFakeDirectory()
	dir.listErr = errors.New("down")

	_, err := Plan(context.Background(), dir, nil)
	require.Error(t, err)
}
