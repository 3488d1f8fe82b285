package bulkimport

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DistrictRef is the minimal view of an existing district.
type DistrictRef struct {
	ID   int64
	Name string
}

// Directory is the persistence surface the engine writes through.
//
// CreateVillage returns (0, nil) when districtID does not resolve to an
// existing district; any other failure is returned as an error.
type Directory interface {
	ListDistricts(ctx context.Context) ([]DistrictRef, error)
	CreateDistrict(ctx context.Context, name string) (int64, error)
	CreateVillage(ctx context.Context, districtID int64, name string) (int64, error)
}

// districtIndex resolves district names case-insensitively after trimming.
// Keys are lowercased, not case folded, so "Straße" and "STRASSE" stay distinct.
type districtIndex struct {
	caser cases.Caser
	ids   map[string]int64
	names []string
}

func newDistrictIndex(existing []DistrictRef) *districtIndex {
	idx := &districtIndex{
		caser: cases.Lower(language.Und),
		ids:   make(map[string]int64, len(existing)),
	}
	for _, d := range existing {
		idx.add(d.ID, d.Name)
	}
	return idx
}

func (idx *districtIndex) key(name string) string {
	return idx.caser.String(strings.TrimSpace(name))
}

// add keeps the first id seen for a key, matching a lookup over the list in order.
func (idx *districtIndex) add(id int64, name string) {
	k := idx.key(name)
	if _, ok := idx.ids[k]; ok {
		return
	}
	idx.ids[k] = id
	idx.names = append(idx.names, strings.TrimSpace(name))
}

func (idx *districtIndex) lookup(name string) (int64, bool) {
	id, ok := idx.ids[idx.key(name)]
	return id, ok
}
