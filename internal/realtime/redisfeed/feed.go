// Package redisfeed carries realtime envelopes over Redis pub/sub, one channel
// per table.
package redisfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"

	"wedding-app-go/internal/realtime"
	"wedding-app-go/pkg/logger"
)

const channelPrefix = "realtime:"

type Options struct {
	Addr     string
	Password string
	DB       int
	Buffer   int
}

type Feed struct {
	client *redis.Client
	buffer int
	log    logger.Logger
}

func New(ctx context.Context, opts Options, log logger.Logger) (*Feed, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return NewWithClient(client, opts.Buffer, log), nil
}

func NewWithClient(client *redis.Client, buffer int, log logger.Logger) *Feed {
	if buffer <= 0 {
		buffer = realtime.DefaultSubscriberBuffer
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Feed{client: client, buffer: buffer, log: log.Component("realtime.redis")}
}

func Channel(table string) string {
	return channelPrefix + table
}

func (f *Feed) Publish(ctx context.Context, env realtime.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := f.client.Publish(ctx, Channel(env.Table), payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", env.Table, err)
	}
	return nil
}

func (f *Feed) Subscribe(ctx context.Context, filter realtime.Filter) (realtime.Subscription, error) {
	if filter.Table == "" {
		return nil, realtime.ErrMissingTable
	}

	ps := f.client.Subscribe(ctx, Channel(filter.Table))
	// wait for the subscription confirmation so publishes issued after
	// Subscribe returns are not missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", filter.Table, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		ps:     ps,
		filter: filter,
		events: make(chan realtime.Envelope, f.buffer),
		cancel: cancel,
		done:   make(chan struct{}),
		log:    f.log,
	}
	go sub.run(runCtx)

	return sub, nil
}

func (f *Feed) Close() error {
	return f.client.Close()
}

type subscription struct {
	ps     *redis.PubSub
	filter realtime.Filter
	events chan realtime.Envelope
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
	log    logger.Logger
}

func (s *subscription) Events() <-chan realtime.Envelope {
	return s.events
}

func (s *subscription) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.events)

	messages := s.ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var env realtime.Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				s.log.Warn("realtime.redis: malformed envelope skipped", "channel", msg.Channel, "error", err.Error())
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
		s.err = s.ps.Close()
		<-s.done
	})
	return s.err
}
