package submission

import "context"

type FindParams struct {
	Kind   Kind
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, s Submission) (Submission, error)
	GetByID(ctx context.Context, id int64) (Submission, error)
	// List returns the newest submissions first.
	List(ctx context.Context, params *FindParams) ([]Submission, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Update(ctx context.Context, s Submission) (Submission, error)
}
