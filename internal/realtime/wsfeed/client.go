package wsfeed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wedding-app-go/internal/realtime"
	"wedding-app-go/pkg/logger"
)

// Client is a realtime.Feed backed by the server's websocket endpoint. Each
// subscription owns one connection. A dropped connection ends the
// subscription; there is no reconnect.
type Client struct {
	endpoint string
	header   http.Header
	dialer   *websocket.Dialer
	buffer   int
	log      logger.Logger
}

func NewClient(baseURL string, header http.Header, buffer int, log logger.Logger) (*Client, error) {
	endpoint, err := websocketURL(baseURL)
	if err != nil {
		return nil, err
	}
	if buffer <= 0 {
		buffer = realtime.DefaultSubscriberBuffer
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		header:   header,
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		buffer:   buffer,
		log:      log.Component("realtime.wsclient"),
	}, nil
}

func websocketURL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path += Path
	return u.String(), nil
}

func (c *Client) Subscribe(ctx context.Context, filter realtime.Filter) (realtime.Subscription, error) {
	if filter.Table == "" {
		return nil, realtime.ErrMissingTable
	}

	query := url.Values{}
	query.Set("table", filter.Table)
	if filter.Scoped() {
		query.Set("column", filter.Column)
		query.Set("value", filter.Value)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.endpoint+"?"+query.Encode(), c.header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", filter.Table, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", filter.Table, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	sub := &clientSubscription{
		conn:   conn,
		filter: filter,
		events: make(chan realtime.Envelope, c.buffer),
		cancel: cancel,
		done:   make(chan struct{}),
		log:    c.log,
	}
	go sub.run(runCtx)
	// unblock ReadJSON when the caller's context ends
	context.AfterFunc(runCtx, func() { _ = conn.Close() })

	return sub, nil
}

type clientSubscription struct {
	conn   *websocket.Conn
	filter realtime.Filter
	events chan realtime.Envelope
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	log    logger.Logger
}

func (s *clientSubscription) Events() <-chan realtime.Envelope {
	return s.events
}

func (s *clientSubscription) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.events)

	for {
		var env realtime.Envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				s.log.Warn("realtime.wsclient: connection lost", "table", s.filter.Table, "error", err.Error())
			}
			return
		}
		if !s.filter.Matches(env) {
			continue
		}
		select {
		case s.events <- env:
		case <-ctx.Done():
			return
		}
	}
}

func (s *clientSubscription) Close() error {
	s.once.Do(func() {
		s.cancel()
		_ = s.conn.Close()
		<-s.done
	})
	return nil
}
