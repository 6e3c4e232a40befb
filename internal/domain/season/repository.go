package season

import "context"

// Repository exposes season read operations.
type Repository interface {
	List(ctx context.Context) ([]Season, error)
	ListActive(ctx context.Context) ([]Season, error)
	GetByID(ctx context.Context, id string) (*Season, error)
	GetBySlug(ctx context.Context, slug string) (*Season, error)
}
