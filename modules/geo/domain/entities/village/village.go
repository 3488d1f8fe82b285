package village

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound         = errors.New("village not found")
	ErrDistrictNotFound = errors.New("district not found")
	ErrEmptyName        = errors.New("village name is required")
)

type Village struct {
	id         int64
	districtID int64
	name       string
	createdAt  time.Time
}

func New(districtID int64, name string) Village {
	return Village{
		districtID: districtID,
		name:       strings.TrimSpace(name),
	}
}

func Hydrate(id, districtID int64, name string, createdAt time.Time) Village {
	return Village{
		id:         id,
		districtID: districtID,
		name:       strings.TrimSpace(name),
		createdAt:  createdAt,
	}
}

func (v Village) ID() int64            { return v.id }
func (v Village) DistrictID() int64    { return v.districtID }
func (v Village) Name() string         { return v.name }
func (v Village) CreatedAt() time.Time { return v.createdAt }

func (v Village) Validate() error {
	if v.name == "" {
		return ErrEmptyName
	}
	return nil
}
