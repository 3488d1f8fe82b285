package services

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/entities/village"
	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/eventbus"
	"github.com/gramseva/portal/pkg/serrors"
)

const snapshotKey = "districts"

type DistrictService struct {
	repo      district.Repository
	villages  village.Repository
	publisher eventbus.EventBus
	snapshot  *cache.Cache
}

// NewDistrictService caches the full district list for ttl. A non-positive
// ttl disables the cache.
func NewDistrictService(
	repo district.Repository,
	villages village.Repository,
	publisher eventbus.EventBus,
	ttl time.Duration,
) *DistrictService {
	s := &DistrictService{repo: repo, villages: villages, publisher: publisher}
	if ttl > 0 {
		s.snapshot = cache.New(ttl, 2*ttl)
	}
	return s
}

// Invalidate drops the cached snapshot.
func (s *DistrictService) Invalidate() {
	if s.snapshot != nil {
		s.snapshot.Delete(snapshotKey)
	}
}

func (s *DistrictService) List(ctx context.Context) ([]district.District, error) {
	if s.snapshot != nil {
		if v, ok := s.snapshot.Get(snapshotKey); ok {
			recordCacheRequest(true)
			return v.([]district.District), nil
		}
		recordCacheRequest(false)
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.snapshot != nil {
		s.snapshot.SetDefault(snapshotKey, all)
	}
	return all, nil
}

func (s *DistrictService) GetByID(ctx context.Context, id int64) (district.District, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return district.District{}, mapRepoError(err)
	}
	return d, nil
}

func (s *DistrictService) ListVillages(ctx context.Context, districtID int64) ([]village.Village, error) {
	if _, err := s.repo.GetByID(ctx, districtID); err != nil {
		return nil, mapRepoError(err)
	}
	return s.villages.ListByDistrict(ctx, districtID)
}

func (s *DistrictService) Create(ctx context.Context, dto *district.CreateDTO) (district.District, error) {
	if err := authorizeAdmin(ctx); err != nil {
		return district.District{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return district.District{}, serrors.Invalid("GEO_INVALID_DISTRICT", "Invalid district", errs)
	}

	var created district.District
	err := composables.InTxIfPool(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, dto.ToEntity())
		return err
	})
	if err != nil {
		return district.District{}, mapRepoError(err)
	}
	s.Invalidate()
	s.publisher.Publish(district.NewCreatedEvent(created))
	return created, nil
}

func (s *DistrictService) Rename(ctx context.Context, id int64, dto *district.UpdateDTO) (district.District, error) {
	if err := authorizeAdmin(ctx); err != nil {
		return district.District{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return district.District{}, serrors.Invalid("GEO_INVALID_DISTRICT", "Invalid district", errs)
	}

	var updated district.District
	err := composables.InTxIfPool(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.repo.Rename(txCtx, id, dto.Name)
		return err
	})
	if err != nil {
		return district.District{}, mapRepoError(err)
	}
	s.Invalidate()
	s.publisher.Publish(district.NewUpdatedEvent(updated))
	return updated, nil
}

func (s *DistrictService) Delete(ctx context.Context, id int64) (district.District, error) {
	if err := authorizeAdmin(ctx); err != nil {
		return district.District{}, err
	}

	var deleted district.District
	err := composables.InTxIfPool(ctx, func(txCtx context.Context) error {
		d, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = d
		return nil
	})
	if err != nil {
		return district.District{}, mapRepoError(err)
	}
	s.Invalidate()
	s.publisher.Publish(district.NewDeletedEvent(deleted))
	return deleted, nil
}

func (s *DistrictService) CreateVillage(ctx context.Context, districtID int64, dto *village.CreateDTO) (village.Village, error) {
	if err := authorizeAdmin(ctx); err != nil {
		return village.Village{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return village.Village{}, serrors.Invalid("GEO_INVALID_VILLAGE", "Invalid village", errs)
	}

	var created village.Village
	err := composables.InTxIfPool(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.villages.Create(txCtx, dto.ToEntity(districtID))
		return err
	})
	if err != nil {
		return village.Village{}, mapRepoError(err)
	}
	s.Invalidate()
	s.publisher.Publish(village.NewCreatedEvent(created))
	return created, nil
}

func (s *DistrictService) DeleteVillage(ctx context.Context, id int64) (village.Village, error) {
	if err := authorizeAdmin(ctx); err != nil {
		return village.Village{}, err
	}

	var deleted village.Village
	err := composables.InTxIfPool(ctx, func(txCtx context.Context) error {
		v, err := s.villages.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.villages.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = v
		return nil
	})
	if err != nil {
		return village.Village{}, mapRepoError(err)
	}
	s.Invalidate()
	s.publisher.Publish(village.NewDeletedEvent(deleted))
	return deleted, nil
}
