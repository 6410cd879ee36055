package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"wedding-app-go/pkg/logger"
)

func TestHubDeliversMatchingEnvelopes(t *testing.T) {
	hub := NewHub(4)
	defer hub.Close()

	sub, err := hub.Subscribe(context.Background(), Filter{Table: "seats", Column: "table_id", Value: "t1"})
	assert.Equal(t, err, nil)

	publish(t, hub, "seats", KindInsert, row{ID: "s1", TableID: "t2"}, nil)
	publish(t, hub, "seats", KindInsert, row{ID: "s2", TableID: "t1"}, nil)

	select {
	case env := <-sub.Events():
		change, err := Decode[row](env)
		assert.Equal(t, err, nil)
		assert.Equal(t, change.New.ID, "s2")
	case <-time.After(time.Second):
		t.Fatalf("no envelope delivered")
	}
	assert.Equal(t, len(sub.Events()), 0)
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub(1)
	defer hub.Close()

	_, err := hub.Subscribe(context.Background(), Filter{Table: "guests"})
	assert.Equal(t, err, nil)

	publish(t, hub, "guests", KindInsert, row{ID: "1"}, nil)
	publish(t, hub, "guests", KindInsert, row{ID: "2"}, nil)

	assert.Equal(t, hub.Dropped(), int64(1))
}

func TestHubSubscriptionEndsWithContext(t *testing.T) {
	hub := NewHub(1)
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := hub.Subscribe(ctx, Filter{Table: "guests"})
	assert.Equal(t, err, nil)

	cancel()
	select {
	case _, ok := <-sub.Events():
		assert.Equal(t, ok, false)
	case <-time.After(time.Second):
		t.Fatalf("subscription not closed after cancel")
	}
	assert.Equal(t, hub.Subscribers(), 0)
	assert.Equal(t, sub.Close(), nil)
}

func TestHubClosed(t *testing.T) {
	hub := NewHub(1)
	sub, _ := hub.Subscribe(context.Background(), Filter{Table: "guests"})

	assert.Equal(t, hub.Close(), nil)
	_, ok := <-sub.Events()
	assert.Equal(t, ok, false)
	assert.Equal(t, sub.Close(), nil)

	_, err := hub.Subscribe(context.Background(), Filter{})
	assert.Equal(t, errors.Is(err, ErrFeedClosed), true)
	env, _ := NewEnvelope("guests", KindInsert, "w1", row{ID: "1"}, nil)
	assert.Equal(t, errors.Is(hub.Publish(context.Background(), env), ErrFeedClosed), true)
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, Envelope) error {
	p.calls++
	return errors.New("broker down")
}

func TestBroadcasterSwallowsPublishErrors(t *testing.T) {
	pub := &failingPublisher{}
	b := NewBroadcaster(pub, logger.NewNop())

	b.Inserted(context.Background(), "guests", "w1", row{ID: "1"})
	b.Deleted(context.Background(), "guests", "w1", nil)

	// the delete without a record never reaches the publisher
	assert.Equal(t, pub.calls, 1)

	var nilBroadcaster *Broadcaster
	nilBroadcaster.Updated(context.Background(), "guests", "w1", row{ID: "1"}, nil)
}

func TestBroadcasterPublishesToHub(t *testing.T) {
	hub := NewHub(1)
	defer hub.Close()
	sub, _ := hub.Subscribe(context.Background(), Filter{Table: "guests"})

	NewBroadcaster(hub, nil).Updated(context.Background(), "guests", "w1", row{ID: "1", Status: "confirmed"}, nil)

	env := <-sub.Events()
	assert.Equal(t, env.Type, KindUpdate)
	assert.Equal(t, env.WeddingID, "w1")
}
