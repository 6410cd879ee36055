package realtime

import (
	"context"

	"wedding-app-go/pkg/logger"
)

// Broadcaster turns committed mutations into envelopes. Observers learn about
// a mutation only through the feed, so a publish failure is logged and the
// mutation still succeeds.
type Broadcaster struct {
	pub Publisher
	log logger.Logger
}

func NewBroadcaster(pub Publisher, log logger.Logger) *Broadcaster {
	if log == nil {
		log = logger.NewNop()
	}
	return &Broadcaster{pub: pub, log: log.Component("realtime.broadcaster")}
}

func (b *Broadcaster) Inserted(ctx context.Context, table, weddingID string, record any) {
	b.emit(ctx, table, KindInsert, weddingID, record, nil)
}

func (b *Broadcaster) Updated(ctx context.Context, table, weddingID string, record, old any) {
	b.emit(ctx, table, KindUpdate, weddingID, record, old)
}

func (b *Broadcaster) Deleted(ctx context.Context, table, weddingID string, old any) {
	b.emit(ctx, table, KindDelete, weddingID, nil, old)
}

func (b *Broadcaster) emit(ctx context.Context, table string, kind Kind, weddingID string, record, old any) {
	if b == nil || b.pub == nil {
		return
	}

	env, err := NewEnvelope(table, kind, weddingID, record, old)
	if err != nil {
		b.log.InternalError("realtime.broadcast: build envelope failed", err, "table", table, "type", string(kind))
		return
	}

	// the request context may already be done once the response is written
	if err := b.pub.Publish(context.WithoutCancel(ctx), env); err != nil {
		b.log.InternalError("realtime.broadcast: publish failed", err,
			"table", table,
			"type", string(kind),
			"wedding_id", weddingID,
			"envelope_id", env.ID,
		)
		return
	}

	b.log.Debug("realtime.broadcast: published", "table", table, "type", string(kind), "envelope_id", env.ID)
}
