package district

import "context"

type Repository interface {
	// List returns every district ordered by id, villages attached.
	List(ctx context.Context) ([]District, error)
	GetByID(ctx context.Context, id int64) (District, error)
	Create(ctx context.Context, d District) (District, error)
	Rename(ctx context.Context, id int64, name string) (District, error)
	// Delete removes the district and its villages.
	Delete(ctx context.Context, id int64) error
}
