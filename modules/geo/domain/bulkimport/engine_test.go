package bulkimport

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(rows ...[2]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r[0], r[1]})
	}
	return out
}

func TestImport_CreatesNewDistrictsAndVillages(t *testing.T) {
	dir := newFakeDirectory()

	res := Import(context.Background(), dir, grid(
		[2]string{"Jaunpur", "Machhlishahr"},
		[2]string{"Jaunpur", "Sujanganj"},
		[2]string{"Varanasi", "Sarnath"},
	), Options{})

	assert.True(t, res.Success)
	assert.Equal(t, 2, res.DistrictCount)
	assert.Equal(t, 3, res.VillageCount)
	assert.Empty(t, res.Errors)
	assert.Equal(t, []string{"Jaunpur", "Varanasi"}, dir.districtCalls)
}

func TestImport_NoValidRowsTouchesNothing(t *testing.T) {
	dir := newFakeDirectory()

	res := Import(context.Background(), dir, grid(
		[2]string{"", "Village1"},
		[2]string{"District1", ""},
	), Options{})

	assert.False(t, res.Success)
	assert.Equal(t, 0, res.DistrictCount)
	assert.Equal(t, 0, res.VillageCount)
	assert.Equal(t, []string{MsgNoValidData}, res.Errors)
	assert.Empty(t, dir.districtCalls)
	assert.Empty(t, dir.villageCalls)
	assert.Equal(t, MsgNoValidData, res.Message())
}

func TestImport_AddsVillagesToExistingDistrict(t *testing.T) {
	dir := newFakeDirectory(DistrictRef{ID: 5, Name: "Jaunpur"})

	res := Import(context.Background(), dir, grid([2]string{"Jaunpur", "NewVillage"}), Options{})

	assert.True(t, res.Success)
	assert.Equal(t, 0, res.DistrictCount)
	assert.Equal(t, 1, res.MatchedDistricts)
	assert.Equal(t, 1, res.VillageCount)
	require.Len(t, dir.villageCalls, 1)
	assert.Equal(t, villageCall{DistrictID: 5, Name: "NewVillage"}, dir.villageCalls[0])
}

func TestImport_FailedDistrictSkipsItsVillages(t *testing.T) {
	dir := newFakeDirectory()
	dir.failDistricts["BadDistrict"] = true

	res := Import(context.Background(), dir, grid(
		[2]string{"BadDistrict", "V1"},
		[2]string{"BadDistrict", "V2"},
	), Options{})

	assert.False(t, res.Success)
	assert.Equal(t, 0, res.DistrictCount)
	assert.Equal(t, 0, res.VillageCount)
	assert.Equal(t, []string{`District "BadDistrict" creation failed`}, res.Errors)
	assert.Equal(t, 2, res.SkippedVillages)
	assert.Empty(t, dir.villageCalls)
}

func TestImport_CaseInsensitiveTrimmedMatch(t *testing.T) {
	dir := newFakeDirectory(DistrictRef{ID: 7, Name: "  Varanasi "})

	res := Import(context.Background(), dir, grid(
		[2]string{"VARANASI", "Sarnath"},
		[2]string{"varanasi", "Ramnagar"},
	), Options{})

	assert.True(t, res.Success)
	assert.Equal(t, 0, res.DistrictCount)
	assert.Equal(t, 2, res.MatchedDistricts)
	for _, call := range dir.villageCalls {
		assert.Equal(t, int64(7), call.DistrictID)
	}
}

func TestImport_MatchesLowercaseNotFullFolding(t *testing.T) {
	dir := newFakeDirectory(DistrictRef{ID: 9, Name: "Straße"})

	res := Import(context.Background(), dir, grid(
		[2]string{"STRAßE", "Nord"},
		[2]string{"STRASSE", "Süd"},
	), Options{})

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.MatchedDistricts)
	assert.Equal(t, 1, res.DistrictCount)
	assert.Equal(t, []string{"STRASSE"}, dir.districtCalls)
}

func TestImport_DistrictCreatedInRunIsReusedAcrossCase(t *testing.T) {
	dir := newFakeDirectory()

	res := Import(context.Background(), dir, grid(
		[2]string{"Pune", "Khed"},
		[2]string{"PUNE", "Maval"},
	), Options{})

	assert.Equal(t, 1, res.DistrictCount)
	assert.Equal(t, 1, res.MatchedDistricts)
	assert.Equal(t, []string{"Pune"}, dir.districtCalls)
	require.Len(t, dir.villageCalls, 2)
	assert.Equal(t, dir.villageCalls[0].DistrictID, dir.villageCalls[1].DistrictID)
}

func TestImport_VillageFailuresDoNotAbortGroup(t *testing.T) {
	dir := newFakeDirectory()
	dir.failVillages["Broken"] = true
	dir.lostVillages["Orphan"] = true

	res := Import(context.Background(), dir, grid(
		[2]string{"Jaunpur", "Broken"},
		[2]string{"Jaunpur", "Orphan"},
		[2]string{"Jaunpur", "Fine"},
	), Options{})

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.DistrictCount)
	assert.Equal(t, 1, res.VillageCount)
	assert.Equal(t, []string{
		`Village "Broken" — failed to add under district "Jaunpur"`,
		`Village "Orphan" — district not found`,
	}, res.Errors)
	assert.Len(t, dir.villageCalls, 3)
}

func TestImport_ListFailureWritesNothing(t *testing.T) {
	dir := newFakeDirectory()
	dir.listErr = errors.New("timeout")

	res := Import(context.Background(), dir, grid([2]string{"Pune", "Khed"}), Options{})

	assert.False(t, res.Success)
	assert.Equal(t, []string{MsgListingFailed}, res.Errors)
	assert.Empty(t, dir.districtCalls)
}

func TestImport_ReimportCreatesDuplicateVillagesOnly(t *testing.T) {
	dir := newFakeDirectory()
	input := grid(
		[2]string{"Jaunpur", "Machhlishahr"},
		[2]string{"Jaunpur", "Sujanganj"},
		[2]string{"Varanasi", "Sarnath"},
	)

	first := Import(context.Background(), dir, input, Options{})
	require.True(t, first.Success)

	second := Import(context.Background(), dir, input, Options{})
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.DistrictCount)
	assert.Equal(t, 2, second.MatchedDistricts)
	assert.Equal(t, 3, second.VillageCount)
	assert.Len(t, dir.villages, 6)
}

func TestImport_CancelledContextStillCompletes(t *testing.T) {
	dir := newFakeDirectory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Import(ctx, dir, grid([2]string{"Pune", "Khed"}), Options{})
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.VillageCount)
}

func TestImport_CountingProperties(t *testing.T) {
	dir := newFakeDirectory(DistrictRef{ID: 1, Name: "Existing"})
	dir.failDistricts["Bad"] = true
	dir.failVillages["x3"] = true
	dir.lostVillages["x5"] = true

	var input [][]string
	names := []string{"Existing", "Bad", "Fresh", "existing", "Other"}
	for i := 0; i < 12; i++ {
		input = append(input, []string{names[i%len(names)], fmt.Sprintf("x%d", i)})
	}
	rows := ParseRows(input, ParseOptions{})
	groups := GroupRows(rows)

	res := Import(context.Background(), dir, input, Options{})

	failedGroups := 1
	assert.Equal(t, len(groups), res.DistrictCount+res.MatchedDistricts+failedGroups)

	villageErrors := 0
	for _, e := range res.Errors {
		if e != `District "Bad" creation failed` {
			villageErrors++
		}
	}
	assert.Equal(t, len(rows)-villageErrors-res.SkippedVillages, res.VillageCount)
}

func TestImport_ProgressIsMonotonicAndEndsAt100(t *testing.T) {
	progress := NewProgress()
	dir := &progressProbe{fakeDirectory: newFakeDirectory(), progress: progress}

	res := Import(context.Background(), dir, grid(
		[2]string{"A", "1"},
		[2]string{"B", "1"},
		[2]string{"C", "1"},
	), Options{Progress: progress})
	require.True(t, res.Success)

	prev := -1
	for _, p := range dir.seen {
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
	assert.Equal(t, []int{0, 33, 67}, dir.seen)
	assert.Equal(t, 100, progress.Percent())
	assert.False(t, progress.Snapshot().Running)
}

// progressProbe samples the progress percentage at every district creation.
type progressProbe struct {
	*fakeDirectory
	progress *Progress
	seen     []int
}

func (p *progressProbe) CreateDistrict(ctx context.Context, name string) (int64, error) {
	p.seen = append(p.seen, p.progress.Percent())
	return p.fakeDirectory.CreateDistrict(ctx, name)
}
