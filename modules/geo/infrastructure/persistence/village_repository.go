package persistence

import (
	"context"
	"errors"
	"fmt"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gramseva/portal/modules/geo/domain/entities/village"
	"github.com/gramseva/portal/pkg/composables"
)

const (
	pgForeignKeyViolation = "23503"

	selectVillagesByDistrictQuery = `SELECT id, district_id, name, created_at FROM geo_villages WHERE district_id = $1 ORDER BY id`
	selectVillageQuery            = `SELECT id, district_id, name, created_at FROM geo_villages WHERE id = $1`
	insertVillageQuery            = `INSERT INTO geo_villages (district_id, name) VALUES ($1, $2) RETURNING id, district_id, name, created_at`
	deleteVillageQuery            = `DELETE FROM geo_villages WHERE id = $1`
)

type VillageRepository struct{}

func NewVillageRepository() village.Repository {
	return &VillageRepository{}
}

func scanVillage(row pgx.CollectableRow) (village.Village, error) {
	var (
		id, districtID int64
		name           string
		createdAt      pgtype.Timestamptz
	)
	if err := row.Scan(&id, &districtID, &name, &createdAt); err != nil {
		return village.Village{}, err
	}
	return village.Hydrate(id, districtID, name, createdAt.Time), nil
}

func (r *VillageRepository) ListByDistrict(ctx context.Context, districtID int64) ([]village.Village, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectVillagesByDistrictQuery, districtID)
	if err != nil {
		return nil, gerrors.Wrap(err, "list villages")
	}
	villages, err := pgx.CollectRows(rows, scanVillage)
	if err != nil {
		return nil, gerrors.Wrap(err, "scan villages")
	}
	return villages, nil
}

func (r *VillageRepository) GetByID(ctx context.Context, id int64) (village.Village, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return village.Village{}, err
	}
	rows, err := tx.Query(ctx, selectVillageQuery, id)
	if err != nil {
		return village.Village{}, gerrors.Wrap(err, "get village")
	}
	v, err := pgx.CollectExactlyOneRow(rows, scanVillage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return village.Village{}, village.ErrNotFound
		}
		return village.Village{}, gerrors.Wrap(err, "scan village")
	}
	return v, nil
}

func (r *VillageRepository) Create(ctx context.Context, v village.Village) (village.Village, error) {
	if err := v.Validate(); err != nil {
		return village.Village{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return village.Village{}, err
	}
	rows, err := tx.Query(ctx, insertVillageQuery, v.DistrictID(), v.Name())
	if err == nil {
		var created village.Village
		created, err = pgx.CollectExactlyOneRow(rows, scanVillage)
		if err == nil {
			return created, nil
		}
	}
	if isForeignKeyViolation(err) {
		return village.Village{}, village.ErrDistrictNotFound
	}
	return village.Village{}, fmt.Errorf("create village: %w", err)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func (r *VillageRepository) Delete(ctx context.Context, id int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteVillageQuery, id)
	if err != nil {
		return fmt.Errorf("delete village: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return village.ErrNotFound
	}
	return nil
}
