package district

import (
	"errors"
	"strings"
	"time"

	"github.com/gramseva/portal/modules/geo/domain/entities/village"
)

var (
	ErrNotFound  = errors.New("district not found")
	ErrEmptyName = errors.New("district name is required")
)

type District struct {
	id        int64
	name      string
	villages  []village.Village
	createdAt time.Time
}

func New(name string) District {
	return District{name: strings.TrimSpace(name)}
}

func Hydrate(id int64, name string, villages []village.Village, createdAt time.Time) District {
	return District{
		id:        id,
		name:      strings.TrimSpace(name),
		villages:  villages,
		createdAt: createdAt,
	}
}

func (d District) ID() int64                   { return d.id }
func (d District) Name() string                { return d.name }
func (d District) Villages() []village.Village { return d.villages }
func (d District) CreatedAt() time.Time        { return d.createdAt }
func (d District) VillageCount() int           { return len(d.villages) }

func (d District) WithName(name string) District {
	d.name = strings.TrimSpace(name)
	return d
}

func (d District) WithVillages(villages []village.Village) District {
	d.villages = villages
	return d
}

func (d District) Validate() error {
	if d.name == "" {
		return ErrEmptyName
	}
	return nil
}
