package persistence

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/entities/village"
)

type SafeMap[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func NewSafeMap[K comparable, V any]() *SafeMap[K, V] {
	return &SafeMap[K, V]{
		m: make(map[K]V),
	}
}

func (s *SafeMap[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (s *SafeMap[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, found := s.m[key]
	return val, found
}

func (s *SafeMap[K, V]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.m[key]
	delete(s.m, key)
	return found
}

// DeleteFunc removes every entry matching fn.
func (s *SafeMap[K, V]) DeleteFunc(fn func(K, V) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.DeleteFunc(s.m, fn)
}

func (s *SafeMap[K, V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Collect(maps.Values(s.m))
}

// InmemStore backs both in-memory repositories so village writes can see districts.
type InmemStore struct {
	seq       atomic.Int64
	districts *SafeMap[int64, district.District]
	villages  *SafeMap[int64, village.Village]
}

func NewInmemStore() *InmemStore {
	return &InmemStore{
		districts: NewSafeMap[int64, district.District](),
		villages:  NewSafeMap[int64, village.Village](),
	}
}

func (s *InmemStore) nextID() int64 {
	return s.seq.Add(1)
}

func (s *InmemStore) villagesOf(districtID int64) []village.Village {
	var out []village.Village
	for _, v := range s.villages.Values() {
		if v.DistrictID() == districtID {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b village.Village) int { return compareIDs(a.ID(), b.ID()) })
	return out
}

func compareIDs(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type InmemDistrictRepository struct {
	store *InmemStore
}

func NewInmemDistrictRepository(store *InmemStore) *InmemDistrictRepository {
	return &InmemDistrictRepository{store: store}
}

func (r *InmemDistrictRepository) List(ctx context.Context) ([]district.District, error) {
	all := r.store.districts.Values()
	slices.SortFunc(all, func(a, b district.District) int { return compareIDs(a.ID(), b.ID()) })
	out := make([]district.District, 0, len(all))
	for _, d := range all {
		out = append(out, d.WithVillages(r.store.villagesOf(d.ID())))
	}
	return out, nil
}

func (r *InmemDistrictRepository) GetByID(ctx context.Context, id int64) (district.District, error) {
	d, found := r.store.districts.Get(id)
	if !found {
		return district.District{}, district.ErrNotFound
	}
	return d.WithVillages(r.store.villagesOf(id)), nil
}

func (r *InmemDistrictRepository) Create(ctx context.Context, d district.District) (district.District, error) {
	if err := d.Validate(); err != nil {
		return district.District{}, err
	}
	created := district.Hydrate(r.store.nextID(), d.Name(), nil, time.Now())
	r.store.districts.Set(created.ID(), created)
	return created, nil
}

func (r *InmemDistrictRepository) Rename(ctx context.Context, id int64, name string) (district.District, error) {
	d, found := r.store.districts.Get(id)
	if !found {
		return district.District{}, district.ErrNotFound
	}
	renamed := d.WithName(name)
	if err := renamed.Validate(); err != nil {
		return district.District{}, err
	}
	r.store.districts.Set(id, renamed)
	return renamed.WithVillages(r.store.villagesOf(id)), nil
}

func (r *InmemDistrictRepository) Delete(ctx context.Context, id int64) error {
	if !r.store.districts.Delete(id) {
		return district.ErrNotFound
	}
	r.store.villages.DeleteFunc(func(_ int64, v village.Village) bool {
		return v.DistrictID() == id
	})
	return nil
}

type InmemVillageRepository struct {
	store *InmemStore
}

func NewInmemVillageRepository(store *InmemStore) *InmemVillageRepository {
	return &InmemVillageRepository{store: store}
}

func (r *InmemVillageRepository) ListByDistrict(ctx context.Context, districtID int64) ([]village.Village, error) {
	return r.store.villagesOf(districtID), nil
}

func (r *InmemVillageRepository) GetByID(ctx context.Context, id int64) (village.Village, error) {
	v, found := r.store.villages.Get(id)
	if !found {
		return village.Village{}, village.ErrNotFound
	}
	return v, nil
}

func (r *InmemVillageRepository) Create(ctx context.Context, v village.Village) (village.Village, error) {
	if err := v.Validate(); err != nil {
		return village.Village{}, err
	}
	if _, found := r.store.districts.Get(v.DistrictID()); !found {
		return village.Village{}, village.ErrDistrictNotFound
	}
	created := village.Hydrate(r.store.nextID(), v.DistrictID(), v.Name(), time.Now())
	r.store.villages.Set(created.ID(), created)
	return created, nil
}

func (r *InmemVillageRepository) Delete(ctx context.Context, id int64) error {
	if !r.store.villages.Delete(id) {
		return village.ErrNotFound
	}
	return nil
}
