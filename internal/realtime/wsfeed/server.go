// Package wsfeed bridges a realtime.Feed to websocket clients.
package wsfeed

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"wedding-app-go/internal/realtime"
	"wedding-app-go/pkg/logger"
)

const (
	Path = "/api/realtime"

	readLimit = 512
)

var ErrMissingTable = errors.New("table query parameter is required")

type ServerOptions struct {
	AllowedOrigins []string
	PingInterval   time.Duration
	WriteWait      time.Duration
}

type Server struct {
	feed     realtime.Feed
	upgrader websocket.Upgrader
	opts     ServerOptions
	log      logger.Logger
}

func NewServer(feed realtime.Feed, opts ServerOptions, log logger.Logger) *Server {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = 10 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	origins := make([]string, 0, len(opts.AllowedOrigins))
	for _, origin := range opts.AllowedOrigins {
		origins = append(origins, strings.TrimRight(origin, "/"))
	}
	opts.AllowedOrigins = origins

	s := &Server{
		feed: feed,
		opts: opts,
		log:  log.Component("realtime.ws"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// checkOrigin accepts any origin only when no list is configured; requests
// without an Origin header are not from a browser and pass.
func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.opts.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(s.opts.AllowedOrigins, origin)
}

// ParseFilter reads table, column and value from the query string.
func ParseFilter(query url.Values) (realtime.Filter, error) {
	filter := realtime.Filter{
		Table:  query.Get("table"),
		Column: query.Get("column"),
		Value:  query.Get("value"),
	}
	if filter.Table == "" {
		return realtime.Filter{}, ErrMissingTable
	}
	return filter, nil
}

// Serve upgrades the request and forwards every envelope of weddingID that
// matches filter until either side goes away. The caller has already
// authenticated the request.
func (s *Server) Serve(w http.ResponseWriter, r *http.Request, weddingID string, filter realtime.Filter) error {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub, err := s.feed.Subscribe(ctx, filter)
	if err != nil {
		return err
	}
	defer sub.Close()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the response
		s.log.BusinessError("realtime.ws: upgrade failed", err, "table", filter.Table)
		return nil
	}
	defer conn.Close()

	s.log.Debug("realtime.ws: client connected", "wedding_id", weddingID, "table", filter.Table)
	defer s.log.Debug("realtime.ws: client disconnected", "wedding_id", weddingID, "table", filter.Table)

	go s.readLoop(conn, cancel)
	s.writeLoop(ctx, conn, sub, weddingID)
	return nil
}

// readLoop only exists to notice the client closing and to process pongs.
func (s *Server) readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(readLimit)
	deadline := 2 * s.opts.PingInterval
	_ = conn.SetReadDeadline(time.Now().Add(deadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, sub realtime.Subscription, weddingID string) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.opts.WriteWait))
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.opts.WriteWait)); err != nil {
				return
			}
		case env, ok := <-sub.Events():
			if !ok {
				return
			}
			if env.WeddingID != weddingID {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			if err := conn.WriteJSON(env); err != nil {
				// a write deadline cannot be recovered from
				s.log.Debug("realtime.ws: write failed", "error", err.Error())
				return
			}
		}
	}
}
