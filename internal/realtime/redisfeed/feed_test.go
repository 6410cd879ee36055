package redisfeed

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"wedding-app-go/internal/realtime"
	"wedding-app-go/pkg/logger"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, Channel("guests"), "realtime:guests")
}

func TestSubscribeRequiresTable(t *testing.T) {
	feed := NewWithClient(nil, 0, nil)

	_, err := feed.Subscribe(context.Background(), realtime.Filter{})
	assert.Equal(t, err, realtime.ErrMissingTable)
}

func TestPublishSubscribe(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	feed, err := New(ctx, Options{Addr: addr}, logger.NewNop())
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}
	defer feed.Close()

	sub, err := feed.Subscribe(ctx, realtime.Filter{Table: "seats", Column: "table_id", Value: "t1"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	other, _ := realtime.NewEnvelope("seats", realtime.KindInsert, "w1", map[string]string{"id": "s1", "table_id": "t2"}, nil)
	mine, _ := realtime.NewEnvelope("seats", realtime.KindInsert, "w1", map[string]string{"id": "s2", "table_id": "t1"}, nil)
	assert.Equal(t, feed.Publish(ctx, other), nil)
	assert.Equal(t, feed.Publish(ctx, mine), nil)

	select {
	case env := <-sub.Events():
		assert.Equal(t, env.ID, mine.ID)
	case <-ctx.Done():
		t.Fatalf("no envelope received")
	}
}
