package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/entities/village"
	"github.com/gramseva/portal/pkg/composables"
)

const (
	selectDistrictsQuery   = `SELECT id, name, created_at FROM geo_districts ORDER BY id`
	selectAllVillagesQuery = `SELECT id, district_id, name, created_at FROM geo_villages ORDER BY id`
	selectDistrictQuery    = `SELECT id, name, created_at FROM geo_districts WHERE id = $1`
	insertDistrictQuery    = `INSERT INTO geo_districts (name) VALUES ($1) RETURNING id, created_at`
	renameDistrictQuery    = `UPDATE geo_districts SET name = $2 WHERE id = $1 RETURNING id, name, created_at`
	deleteDistrictQuery    = `DELETE FROM geo_districts WHERE id = $1`
)

type DistrictRepository struct {
	villages *VillageRepository
}

func NewDistrictRepository() district.Repository {
	return &DistrictRepository{villages: &VillageRepository{}}
}

// List reads districts and villages from one snapshot.
func (r *DistrictRepository) List(ctx context.Context) ([]district.District, error) {
	var out []district.District
	err := composables.InSnapshotTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.list(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DistrictRepository) list(ctx context.Context) ([]district.District, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, selectDistrictsQuery)
	if err != nil {
		return nil, gerrors.Wrap(err, "list districts")
	}
	type row struct {
		id        int64
		name      string
		createdAt time.Time
	}
	districtRows, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (row, error) {
		var out row
		err := r.Scan(&out.id, &out.name, &out.createdAt)
		return out, err
	})
	if err != nil {
		return nil, gerrors.Wrap(err, "scan districts")
	}

	villageRows, err := tx.Query(ctx, selectAllVillagesQuery)
	if err != nil {
		return nil, gerrors.Wrap(err, "list villages")
	}
	villages, err := pgx.CollectRows(villageRows, scanVillage)
	if err != nil {
		return nil, gerrors.Wrap(err, "scan villages")
	}
	byDistrict := make(map[int64][]village.Village, len(districtRows))
	for _, v := range villages {
		byDistrict[v.DistrictID()] = append(byDistrict[v.DistrictID()], v)
	}

	out := make([]district.District, 0, len(districtRows))
	for _, d := range districtRows {
		out = append(out, district.Hydrate(d.id, d.name, byDistrict[d.id], d.createdAt))
	}
	return out, nil
}

func (r *DistrictRepository) GetByID(ctx context.Context, id int64) (district.District, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return district.District{}, err
	}
	var (
		name      string
		createdAt time.Time
	)
	if err := tx.QueryRow(ctx, selectDistrictQuery, id).Scan(&id, &name, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return district.District{}, district.ErrNotFound
		}
		return district.District{}, gerrors.Wrap(err, "get district")
	}
	villages, err := r.villages.ListByDistrict(ctx, id)
	if err != nil {
		return district.District{}, err
	}
	return district.Hydrate(id, name, villages, createdAt), nil
}

func (r *DistrictRepository) Create(ctx context.Context, d district.District) (district.District, error) {
	if err := d.Validate(); err != nil {
		return district.District{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return district.District{}, err
	}
	var (
		id        int64
		createdAt time.Time
	)
	if err := tx.QueryRow(ctx, insertDistrictQuery, d.Name()).Scan(&id, &createdAt); err != nil {
		return district.District{}, fmt.Errorf("create district: %w", err)
	}
	return district.Hydrate(id, d.Name(), nil, createdAt), nil
}

func (r *DistrictRepository) Rename(ctx context.Context, id int64, name string) (district.District, error) {
	renamed := district.New(name)
	if err := renamed.Validate(); err != nil {
		return district.District{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return district.District{}, err
	}
	var createdAt time.Time
	if err := tx.QueryRow(ctx, renameDistrictQuery, id, renamed.Name()).Scan(&id, &name, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return district.District{}, district.ErrNotFound
		}
		return district.District{}, fmt.Errorf("rename district: %w", err)
	}
	villages, err := r.villages.ListByDistrict(ctx, id)
	if err != nil {
		return district.District{}, err
	}
	return district.Hydrate(id, name, villages, createdAt), nil
}

func (r *DistrictRepository) Delete(ctx context.Context, id int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteDistrictQuery, id)
	if err != nil {
		return fmt.Errorf("delete district: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return district.ErrNotFound
	}
	return nil
}
