package inmemory

import (
	"fmt"
	"testing"
	"time"

	weddingdomain "wedding-app-go/internal/domain/wedding"
)

var _ weddingdomain.Cache = (*WeddingCache)(nil)

func TestWeddingCacheRoundTrip(t *testing.T) {
	cache := NewWeddingCache()
	date := time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC)

	cache.SetByOwner("owner-1", &weddingdomain.Wedding{ID: "w1", Title: "Ana & Ben", Date: &date}, time.Minute)

	got, ok := cache.GetByOwner("owner-1")
	if !ok {
		t.Fatalf("expected cached wedding")
	}
	if got.ID != "w1" || !got.Date.Equal(date) {
		t.Fatalf("unexpected wedding: %+v", got)
	}

	*got.Date = got.Date.AddDate(1, 0, 0)
	again, _ := cache.GetByOwner("owner-1")
	if !again.Date.Equal(date) {
		t.Fatalf("cached value was mutated through a returned copy")
	}
}

func TestWeddingCacheExpiry(t *testing.T) {
	cache := NewWeddingCache()
	cache.SetByOwner("owner-1", &weddingdomain.Wedding{ID: "w1"}, time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	if _, ok := cache.GetByOwner("owner-1"); ok {
		t.Fatalf("expected expired entry to be dropped")
	}
}

func TestWeddingCacheDeleteAndClear(t *testing.T) {
	cache := NewWeddingCache()
	cache.SetByOwner("owner-1", &weddingdomain.Wedding{ID: "w1"}, time.Minute)
	cache.SetByOwner("owner-2", &weddingdomain.Wedding{ID: "w2"}, time.Minute)

	cache.DeleteByOwner("owner-1")
	if _, ok := cache.GetByOwner("owner-1"); ok {
		t.Fatalf("expected owner-1 to be deleted")
	}

	cache.SetByOwner("owner-2", nil, time.Minute)
	if _, ok := cache.GetByOwner("owner-2"); ok {
		t.Fatalf("expected nil wedding to clear the entry")
	}

	cache.SetByOwner("owner-3", &weddingdomain.Wedding{ID: "w3"}, time.Minute)
	cache.Clear()
	if _, ok := cache.GetByOwner("owner-3"); ok {
		t.Fatalf("expected cache to be empty after Clear")
	}
}

func TestWeddingCacheHitDoesNotExtendTTL(t *testing.T) {
	cache := NewWeddingCache()
	cache.SetByOwner("owner-1", &weddingdomain.Wedding{ID: "w1"}, 40*time.Millisecond)

	time.Sleep(25 * time.Millisecond)
	if _, ok := cache.GetByOwner("owner-1"); !ok {
		t.Fatalf("expected entry before its ttl")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := cache.GetByOwner("owner-1"); ok {
		t.Fatalf("expected a hit not to extend the ttl")
	}
}

func TestWeddingCacheCapacity(t *testing.T) {
	cache := NewWeddingCache()
	for i := 0; i < weddingCacheCapacity+5; i++ {
		cache.SetByOwner(fmt.Sprintf("owner-%d", i), &weddingdomain.Wedding{ID: "w"}, time.Minute)
	}
	if _, ok := cache.GetByOwner("owner-0"); ok {
		t.Fatalf("expected the oldest entry to be evicted")
	}
	if _, ok := cache.GetByOwner(fmt.Sprintf("owner-%d", weddingCacheCapacity+4)); !ok {
		t.Fatalf("expected the newest entry to be kept")
	}
}
