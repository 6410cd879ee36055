package guests

import "context"

type Repository interface {
	List(ctx context.Context, weddingID string, filter ListFilter) ([]Guest, error)
	Get(ctx context.Context, weddingID, id string) (*Guest, error)
	GetByToken(ctx context.Context, token string) (*Guest, error)
	Create(ctx context.Context, guest *Guest) error
	Update(ctx context.Context, guest *Guest) error
	Delete(ctx context.Context, weddingID, id string) (*Guest, error)
	CountByStatus(ctx context.Context, weddingID string) ([]StatusCount, error)
}

type Notifier interface {
	Invite(ctx context.Context, invitation Invitation) error
	ConfirmRSVP(ctx context.Context, invitation Invitation) error
}
