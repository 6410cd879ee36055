package wsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"wedding-app-go/internal/realtime"
	"wedding-app-go/pkg/logger"
)

func newBridge(t *testing.T, hub *realtime.Hub) *httptest.Server {
	t.Helper()

	server := NewServer(hub, ServerOptions{PingInterval: time.Second}, logger.NewNop())
	mux := http.NewServeMux()
	mux.HandleFunc(Path, func(w http.ResponseWriter, r *http.Request) {
		filter, err := ParseFilter(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := server.Serve(w, r, r.Header.Get("X-Wedding"), filter); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		}
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestParseFilter(t *testing.T) {
	_, err := ParseFilter(map[string][]string{})
	assert.Equal(t, err, ErrMissingTable)

	filter, err := ParseFilter(map[string][]string{"table": {"seats"}, "column": {"table_id"}, "value": {"t1"}})
	assert.Equal(t, err, nil)
	assert.Equal(t, filter, realtime.Filter{Table: "seats", Column: "table_id", Value: "t1"})
}

func TestWebsocketURL(t *testing.T) {
	u, err := websocketURL("https://api.example.com/")
	assert.Equal(t, err, nil)
	assert.Equal(t, u, "wss://api.example.com/api/realtime")

	_, err = websocketURL("ftp://x")
	assert.NotEqual(t, err, nil)
}

func TestBridgeForwardsOnlyCallerWedding(t *testing.T) {
	hub := realtime.NewHub(8)
	defer hub.Close()
	ts := newBridge(t, hub)

	client, err := NewClient(ts.URL, http.Header{"X-Wedding": {"w1"}}, 8, logger.NewNop())
	assert.Equal(t, err, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := client.Subscribe(ctx, realtime.Filter{Table: "guests"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	foreign, _ := realtime.NewEnvelope("guests", realtime.KindInsert, "w2", map[string]string{"id": "x"}, nil)
	mine, _ := realtime.NewEnvelope("guests", realtime.KindInsert, "w1", map[string]string{"id": "g1"}, nil)
	assert.Equal(t, hub.Publish(ctx, foreign), nil)
	assert.Equal(t, hub.Publish(ctx, mine), nil)

	select {
	case env := <-sub.Events():
		assert.Equal(t, env.ID, mine.ID)
		assert.Equal(t, env.WeddingID, "w1")
	case <-ctx.Done():
		t.Fatalf("no envelope received")
	}
}

func TestMirrorOverWebsocket(t *testing.T) {
	hub := realtime.NewHub(8)
	defer hub.Close()
	ts := newBridge(t, hub)

	client, err := NewClient(ts.URL, http.Header{"X-Wedding": {"w1"}}, 8, nil)
	assert.Equal(t, err, nil)

	type guest struct {
		ID     string `json:"id"`
		Status string `json:"rsvp_status"`
	}
	states := make(chan realtime.State[guest], 8)
	mirror := realtime.NewMirror[guest](client, realtime.Config[guest]{
		Table:   "guests",
		Options: realtime.Options[guest]{ID: func(g guest) string { return g.ID }},
		Fetch: func(context.Context, string) ([]guest, error) {
			return []guest{{ID: "1", Status: "pending"}}, nil
		},
		OnChange: func(state realtime.State[guest]) { states <- state },
	}, "")
	defer mirror.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mirror.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-states

	env, _ := realtime.NewEnvelope("guests", realtime.KindUpdate, "w1", guest{ID: "1", Status: "confirmed"}, nil)
	assert.Equal(t, hub.Publish(ctx, env), nil)

	select {
	case state := <-states:
		assert.Equal(t, state.Items, []guest{{ID: "1", Status: "confirmed"}})
	case <-ctx.Done():
		t.Fatalf("update not applied")
	}
}

func TestCheckOrigin(t *testing.T) {
	server := NewServer(realtime.NewHub(0), ServerOptions{AllowedOrigins: []string{"https://plan.example.com/"}}, nil)

	request := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, Path, nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.Equal(t, server.checkOrigin(request("https://plan.example.com")), true)
	assert.Equal(t, server.checkOrigin(request("https://evil.example.com")), false)
	assert.Equal(t, server.checkOrigin(request("")), true)
}
