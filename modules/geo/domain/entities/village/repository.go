package village

import "context"

type Repository interface {
	ListByDistrict(ctx context.Context, districtID int64) ([]Village, error)
	GetByID(ctx context.Context, id int64) (Village, error)
	// Create returns ErrDistrictNotFound when the parent district does not exist.
	Create(ctx context.Context, v Village) (Village, error)
	Delete(ctx context.Context, id int64) error
}
