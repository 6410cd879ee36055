package wedding

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"wedding-app-go/internal/realtime"
)

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	events   *realtime.Broadcaster
}

func NewService(repo Repository, cache Cache, cacheTTL time.Duration, events *realtime.Broadcaster) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL, events: events}
}

// GetByOwner is called on every authenticated request to resolve the tenant,
// so it goes through the cache.
func (s *Service) GetByOwner(ctx context.Context, ownerID string) (*Wedding, error) {
	if cached, ok := s.cache.GetByOwner(ownerID); ok {
		return cached, nil
	}

	wedding, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	s.cache.SetByOwner(ownerID, wedding, s.cacheTTL)
	return wedding, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Wedding, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	_, err := s.repo.GetByOwner(ctx, input.OwnerID)
	switch {
	case err == nil:
		return nil, ErrAlreadyHasWedding
	case !errors.Is(err, ErrWeddingNotFound):
		return nil, err
	}

	wedding := Wedding{
		ID:      uuid.NewString(),
		OwnerID: input.OwnerID,
		Title:   title,
		Date:    input.Date,
		Venue:   strings.TrimSpace(input.Venue),
	}
	if err := s.repo.Create(ctx, &wedding); err != nil {
		return nil, err
	}

	s.cache.SetByOwner(input.OwnerID, &wedding, s.cacheTTL)
	s.events.Inserted(ctx, Table, wedding.ID, wedding)
	return &wedding, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Wedding, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	current, err := s.repo.GetByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	old := *current

	current.Title = title
	current.Date = input.Date
	current.Venue = strings.TrimSpace(input.Venue)
	current.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.cache.DeleteByOwner(input.OwnerID)
	s.events.Updated(ctx, Table, current.ID, current, old)
	return current, nil
}
