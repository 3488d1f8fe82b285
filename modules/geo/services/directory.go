package services

import (
	"context"
	"errors"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/bulkimport"
	"github.com/gramseva/portal/modules/geo/domain/entities/village"
)

// repoDirectory exposes the geo repositories as a bulkimport.Directory.
type repoDirectory struct {
	districts district.Repository
	villages  village.Repository
}

func NewDirectory(districts district.Repository, villages village.Repository) bulkimport.Directory {
	return &repoDirectory{districts: districts, villages: villages}
}

func (d *repoDirectory) ListDistricts(ctx context.Context) ([]bulkimport.DistrictRef, error) {
	all, err := d.districts.List(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]bulkimport.DistrictRef, 0, len(all))
	for _, item := range all {
		refs = append(refs, bulkimport.DistrictRef{ID: item.ID(), Name: item.Name()})
	}
	return refs, nil
}

func (d *repoDirectory) CreateDistrict(ctx context.Context, name string) (int64, error) {
	created, err := d.districts.Create(ctx, district.New(name))
	if err != nil {
		return 0, err
	}
	return created.ID(), nil
}

func (d *repoDirectory) CreateVillage(ctx context.Context, districtID int64, name string) (int64, error) {
	created, err := d.villages.Create(ctx, village.New(districtID, name))
	if errors.Is(err, village.ErrDistrictNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return created.ID(), nil
}
