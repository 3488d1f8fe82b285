package bulkimport

import (
	"context"
	"errors"
	"fmt"
)

type villageCall struct {
	DistrictID int64
	Name       string
}

// fakeDirectory records every call and fails on demand.
type fakeDirectory struct {
	nextID        int64
	districts     []DistrictRef
	villages      []villageCall
	listErr       error
	failDistricts map[string]bool
	failVillages  map[string]bool
	lostVillages  map[string]bool

	districtCalls []string
	villageCalls  []villageCall
}

func newFakeDirectory(existing ...DistrictRef) *fakeDirectory {
	d := &fakeDirectory{
		nextID:        100,
		districts:     append([]DistrictRef(nil), existing...),
		failDistricts: map[string]bool{},
		failVillages:  map[string]bool{},
		lostVillages:  map[string]bool{},
	}
	return d
}

func (d *fakeDirectory) ListDistricts(ctx context.Context) ([]DistrictRef, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	return append([]DistrictRef(nil), d.districts...), nil
}

func (d *fakeDirectory) CreateDistrict(ctx context.Context, name string) (int64, error) {
	d.districtCalls = append(d.districtCalls, name)
	if d.failDistricts[name] {
		return 0, errors.New("Unauthorized: admin session required")
	}
	d.nextID++
	d.districts = append(d.districts, DistrictRef{ID: d.nextID, Name: name})
	return d.nextID, nil
}

func (d *fakeDirectory) CreateVillage(ctx context.Context, districtID int64, name string) (int64, error) {
	call := villageCall{DistrictID: districtID, Name: name}
	d.villageCalls = append(d.villageCalls, call)
	if d.failVillages[name] {
		return 0, fmt.Errorf("insert village %q: connection reset", name)
	}
	if d.lostVillages[name] {
		return 0, nil
	}
	d.nextID++
	d.villages = append(d.villages, call)
	return d.nextID, nil
}
