package wedding

import "time"

type Cache interface {
	GetByOwner(ownerID string) (*Wedding, bool)
	SetByOwner(ownerID string, wedding *Wedding, ttl time.Duration)
	DeleteByOwner(ownerID string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByOwner(string) (*Wedding, bool) {
	return nil, false
}

func (noopCache) SetByOwner(string, *Wedding, time.Duration) {}

func (noopCache) DeleteByOwner(string) {}

func (noopCache) Clear() {}
