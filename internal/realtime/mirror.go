package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"wedding-app-go/pkg/logger"
)

const UnknownLabel = "Unknown"

// Related lets a mirror react to changes of another table, for example seat
// rows carrying the name of the guest that sits on them.
type Related[T any] struct {
	Table string
	Apply func(items []T, env Envelope) ([]T, bool)
}

type Config[T any] struct {
	Name  string
	Table string

	// ScopeColumn narrows the feed to rows whose column equals the mirror
	// scope. ScopeKey reads the same value from a decoded row.
	ScopeColumn   string
	ScopeRequired bool
	ScopeKey      func(T) string

	Options Options[T]
	Fetch   func(ctx context.Context, scope string) ([]T, error)

	// Join enriches inserted rows. When it fails the row is passed through
	// Fallback instead.
	Join     func(ctx context.Context, record T) (T, error)
	Fallback func(record T) T

	// Notify decides whether an applied change raises a toast. prev is the
	// local row before the change, nil for inserts of unknown ids.
	Notify   func(change Change[T], prev *T) (Toast, bool)
	Notifier Notifier
	OnChange func(state State[T])

	Related []Related[T]
	Log     logger.Logger
}

type State[T any] struct {
	Items   []T
	Loading bool
	Err     error
}

// Mirror keeps a local list synchronized with one table. Start acquires the
// subscriptions, Close releases them; nothing mutates the list after Close.
type Mirror[T any] struct {
	feed  Feed
	cfg   Config[T]
	scope string
	log   logger.Logger

	mu      sync.Mutex
	state   State[T]
	started bool
	closed  bool
	cancel  context.CancelFunc
	subs    []Subscription
	wg      sync.WaitGroup
	version uint64

	// deliver orders OnChange calls; delivered is the last version handed out.
	deliver   sync.Mutex
	delivered uint64
}

func NewMirror[T any](feed Feed, cfg Config[T], scope string) *Mirror[T] {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	m := &Mirror[T]{
		feed:  feed,
		cfg:   cfg,
		scope: scope,
		log:   log.Component("realtime.mirror").With("mirror", cfg.Name, "scope", scope),
	}
	m.state.Items = []T{}
	m.state.Loading = !m.scopeMissing()
	return m
}

func (m *Mirror[T]) scopeMissing() bool {
	return m.cfg.ScopeRequired && m.scope == ""
}

func (m *Mirror[T]) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMirrorClosed
	}
	if m.started {
		m.mu.Unlock()
		return ErrMirrorStarted
	}
	m.started = true

	if m.scopeMissing() {
		m.state = State[T]{Items: []T{}}
		snapshot, version := m.commitLocked()
		m.mu.Unlock()
		m.changed(snapshot, version)
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.state.Loading = true
	m.mu.Unlock()

	// subscribe before the snapshot so no change between the two is lost;
	// replace-by-id absorbs the overlap.
	subs, err := m.subscribe(runCtx)
	if err != nil {
		m.fail(fmt.Errorf("subscribe %s: %w", m.cfg.Table, err))
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		closeAll(subs)
		return ErrMirrorClosed
	}
	m.subs = subs
	m.mu.Unlock()

	var items []T
	if m.cfg.Fetch != nil {
		items, err = m.cfg.Fetch(runCtx, m.scope)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.log.Debug("realtime.mirror: snapshot discarded after close")
		return ErrMirrorClosed
	}
	if err != nil {
		m.mu.Unlock()
		m.log.InternalError("realtime.mirror: snapshot failed", err, "table", m.cfg.Table)
		m.fail(err)
		return err
	}
	if items == nil {
		items = []T{}
	}
	m.state = State[T]{Items: items}
	snapshot, version := m.commitLocked()
	m.mu.Unlock()

	// the snapshot reaches OnChange before any consumer can apply a change
	m.changed(snapshot, version)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMirrorClosed
	}
	m.wg.Add(len(subs))
	for i, sub := range subs {
		if i == 0 {
			go m.consume(runCtx, sub)
			continue
		}
		go m.consumeRelated(runCtx, sub, m.cfg.Related[i-1])
	}
	m.mu.Unlock()
	return nil
}

func (m *Mirror[T]) subscribe(ctx context.Context) ([]Subscription, error) {
	filter := Filter{Table: m.cfg.Table}
	if m.cfg.ScopeColumn != "" && m.scope != "" {
		filter.Column = m.cfg.ScopeColumn
		filter.Value = m.scope
	}

	primary, err := m.feed.Subscribe(ctx, filter)
	if err != nil {
		return nil, err
	}
	subs := []Subscription{primary}

	for _, related := range m.cfg.Related {
		sub, err := m.feed.Subscribe(ctx, Filter{Table: related.Table})
		if err != nil {
			closeAll(subs)
			return nil, fmt.Errorf("subscribe %s: %w", related.Table, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// fail records a terminal error and releases the subscriptions. There is no
// retry.
func (m *Mirror[T]) fail(err error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state.Loading = false
	m.state.Err = err
	subs := m.subs
	m.subs = nil
	if m.cancel != nil {
		m.cancel()
	}
	snapshot, version := m.commitLocked()
	m.mu.Unlock()

	closeAll(subs)
	m.changed(snapshot, version)
}

func (m *Mirror[T]) consume(ctx context.Context, sub Subscription) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-sub.Events():
			if !ok {
				return
			}
			change, err := Decode[T](env)
			if err != nil {
				m.log.Warn("realtime.mirror: undecodable change skipped", "table", env.Table, "envelope_id", env.ID, "error", err.Error())
				continue
			}
			err = m.Apply(ctx, change)
			switch {
			case err == nil:
			case errors.Is(err, ErrScopeMismatch):
				m.log.Debug("realtime.mirror: change outside scope skipped", "envelope_id", env.ID)
			case errors.Is(err, ErrMirrorClosed):
				return
			default:
				m.log.Warn("realtime.mirror: change not applied", "envelope_id", env.ID, "error", err.Error())
			}
		}
	}
}

func (m *Mirror[T]) consumeRelated(ctx context.Context, sub Subscription, related Related[T]) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-sub.Events():
			if !ok {
				return
			}
			if related.Apply == nil {
				continue
			}
			m.mu.Lock()
			if m.closed {
				m.mu.Unlock()
				return
			}
			items, changed := related.Apply(m.state.Items, env)
			if !changed {
				m.mu.Unlock()
				continue
			}
			m.state.Items = items
			snapshot, version := m.commitLocked()
			m.mu.Unlock()
			m.changed(snapshot, version)
		}
	}
}

// Apply folds one change into the local list.
func (m *Mirror[T]) Apply(ctx context.Context, change Change[T]) error {
	record := change.Record()
	if record == nil {
		return ErrMissingRecord
	}
	if !m.inScope(change.Kind, *record) {
		return ErrScopeMismatch
	}

	if change.Kind == KindInsert && m.cfg.Join != nil {
		joined, err := m.cfg.Join(ctx, *record)
		if err != nil {
			m.log.Warn("realtime.mirror: join failed, using fallback", "table", m.cfg.Table, "error", err.Error())
			joined = *record
			if m.cfg.Fallback != nil {
				joined = m.cfg.Fallback(*record)
			}
		}
		change.New = &joined
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMirrorClosed
	}
	var prev *T
	if m.cfg.Options.ID != nil {
		if idx := indexOf(m.state.Items, m.cfg.Options.ID(*change.Record()), m.cfg.Options.ID); idx >= 0 {
			item := m.state.Items[idx]
			prev = &item
		}
	}
	items, changed := Reconcile(m.state.Items, change, m.cfg.Options)
	if !changed {
		m.mu.Unlock()
		return nil
	}
	m.state.Items = items
	snapshot, version := m.commitLocked()
	m.mu.Unlock()

	m.changed(snapshot, version)
	if m.cfg.Notify != nil && m.cfg.Notifier != nil {
		if toast, ok := m.cfg.Notify(change, prev); ok {
			m.cfg.Notifier.Notify(toast)
		}
	}
	return nil
}

func (m *Mirror[T]) inScope(kind Kind, record T) bool {
	if m.scope == "" || m.cfg.ScopeKey == nil {
		return true
	}
	key := m.cfg.ScopeKey(record)
	if key == "" && kind == KindDelete {
		return true
	}
	return key == m.scope
}

func (m *Mirror[T]) State() State[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Mirror[T]) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	if m.cancel != nil {
		m.cancel()
	}
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()

	err := closeAll(subs)
	m.wg.Wait()
	return err
}

func (m *Mirror[T]) snapshotLocked() State[T] {
	return State[T]{
		Items:   clone(m.state.Items),
		Loading: m.state.Loading,
		Err:     m.state.Err,
	}
}

// commitLocked stamps the current state with the next version.
func (m *Mirror[T]) commitLocked() (State[T], uint64) {
	m.version++
	return m.snapshotLocked(), m.version
}

// changed hands a state to OnChange unless a newer one was already
// delivered, so listeners never move backwards.
func (m *Mirror[T]) changed(state State[T], version uint64) {
	if m.cfg.OnChange == nil {
		return
	}
	m.deliver.Lock()
	defer m.deliver.Unlock()
	if version <= m.delivered {
		return
	}
	m.delivered = version
	m.cfg.OnChange(state)
}

func closeAll(subs []Subscription) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
