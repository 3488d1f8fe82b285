package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/entities/village"
)

func TestInmemRepositories(t *testing.T) {
	ctx := context.Background()
	store := NewInmemStore()
	districts := NewInmemDistrictRepository(store)
	villages := NewInmemVillageRepository(store)

	pune, err := districts.Create(ctx, district.New(" Pune "))
	require.NoError(t, err)
	nashik, err := districts.Create(ctx, district.New("Nashik"))
	require.NoError(t, err)
	assert.Equal(t, "Pune", pune.Name())

	_, err = villages.Create(ctx, village.New(pune.ID(), "Khed"))
	require.NoError(t, err)
	_, err = villages.Create(ctx, village.New(pune.ID(), "Khed"))
	require.NoError(t, err, "duplicate village names are allowed")
	_, err = villages.Create(ctx, village.New(999, "Ghost"))
	require.ErrorIs(t, err, village.ErrDistrictNotFound)

	list, err := districts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, pune.ID(), list[0].ID())
	assert.Equal(t, 2, list[0].VillageCount())
	assert.Equal(t, 0, list[1].VillageCount())

	renamed, err := districts.Rename(ctx, nashik.ID(), "Nasik")
	require.NoError(t, err)
	assert.Equal(t, "Nasik", renamed.Name())
	_, err = districts.Rename(ctx, nashik.ID(), "  ")
	require.ErrorIs(t, err, district.ErrEmptyName)

	require.NoError(t, districts.Delete(ctx, pune.ID()))
	left, err := villages.ListByDistrict(ctx, pune.ID())
	require.NoError(t, err)
	assert.Empty(t, left, "villages cascade with their district")
	require.ErrorIs(t, districts.Delete(ctx, pune.ID()), district.ErrNotFound)

	_, err = districts.GetByID(ctx, pune.ID())
	require.ErrorIs(t, err, district.ErrNotFound)
}
