// Package pgfeed carries realtime envelopes over Postgres LISTEN/NOTIFY.
// Publishing goes through the application's gorm pool; every subscription
// holds its own lib/pq listener connection.
package pgfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"wedding-app-go/internal/realtime"
	"wedding-app-go/pkg/logger"
)

// MaxPayload is the NOTIFY payload limit (8000 bytes in the default build,
// terminator included).
const MaxPayload = 7999

const (
	channelPrefix = "realtime_"
	pingInterval  = 90 * time.Second
)

var ErrPayloadTooLarge = errors.New("envelope exceeds notify payload limit")

type Options struct {
	DSN          string
	MinReconnect time.Duration
	MaxReconnect time.Duration
	Buffer       int
}

type Feed struct {
	db   *gorm.DB
	opts Options
	log  logger.Logger
}

func New(db *gorm.DB, opts Options, log logger.Logger) *Feed {
	if opts.MinReconnect <= 0 {
		opts.MinReconnect = 10 * time.Second
	}
	if opts.MaxReconnect < opts.MinReconnect {
		opts.MaxReconnect = opts.MinReconnect
	}
	if opts.Buffer <= 0 {
		opts.Buffer = realtime.DefaultSubscriberBuffer
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Feed{db: db, opts: opts, log: log.Component("realtime.postgres")}
}

func Channel(table string) string {
	return channelPrefix + table
}

func encode(env realtime.Envelope) (string, error) {
	payload, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	if len(payload) > MaxPayload {
		return "", fmt.Errorf("%w: %s %d bytes", ErrPayloadTooLarge, env.Table, len(payload))
	}
	return string(payload), nil
}

func (f *Feed) Publish(ctx context.Context, env realtime.Envelope) error {
	payload, err := encode(env)
	if err != nil {
		return err
	}
	if err := f.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", Channel(env.Table), payload).Error; err != nil {
		return fmt.Errorf("pg_notify %s: %w", env.Table, err)
	}
	return nil
}

func (f *Feed) Subscribe(ctx context.Context, filter realtime.Filter) (realtime.Subscription, error) {
	if filter.Table == "" {
		return nil, realtime.ErrMissingTable
	}

	channel := Channel(filter.Table)
	listener := pq.NewListener(f.opts.DSN, f.opts.MinReconnect, f.opts.MaxReconnect, func(event pq.ListenerEventType, err error) {
		switch event {
		case pq.ListenerEventDisconnected:
			f.log.Warn("realtime.postgres: listener disconnected", "channel", channel, "error", errString(err))
		case pq.ListenerEventReconnected:
			f.log.Info("realtime.postgres: listener reconnected", "channel", channel)
		case pq.ListenerEventConnectionAttemptFailed:
			f.log.Warn("realtime.postgres: listener connect failed", "channel", channel, "error", errString(err))
		}
	})
	if err := listener.Listen(channel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen %s: %w", channel, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		listener: listener,
		filter:   filter,
		events:   make(chan realtime.Envelope, f.opts.Buffer),
		cancel:   cancel,
		done:     make(chan struct{}),
		log:      f.log,
	}
	go sub.run(runCtx)

	return sub, nil
}

// Close is a no-op; the gorm pool is owned by the caller.
func (f *Feed) Close() error {
	return nil
}

type subscription struct {
	listener *pq.Listener
	filter   realtime.Filter
	events   chan realtime.Envelope
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
	err      error
	log      logger.Logger
}

func (s *subscription) Events() <-chan realtime.Envelope {
	return s.events
}

func (s *subscription) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.events)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.listener.Ping(); err != nil {
				s.log.Warn("realtime.postgres: listener ping failed", "error", err.Error())
			}
		case notification, ok := <-s.listener.Notify:
			if !ok {
				return
			}
			// nil is sent after a reconnect
			if notification == nil {
				continue
			}
			var env realtime.Envelope
			if err := json.Unmarshal([]byte(notification.Extra), &env); err != nil {
				s.log.Warn("realtime.postgres: malformed envelope skipped", "channel", notification.Channel, "error", err.Error())
				continue
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
}

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
		s.err = s.listener.Close()
	})
	return s.err
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
