package wedding

import "context"

type Repository interface {
	GetByOwner(ctx context.Context, ownerID string) (*Wedding, error)
	GetByID(ctx context.Context, id string) (*Wedding, error)
	Create(ctx context.Context, wedding *Wedding) error
	Update(ctx context.Context, wedding *Wedding) error
}
