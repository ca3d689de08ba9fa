// Package stream provides the live change feed: every write to a watched
// collection is published as an explicit change event that clients consume
// over a channel, replacing the implicit callback registry of a hosted
// document store subscription.
package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Collections that can be watched.
const (
	CollectionAccounts = "accounts"
	CollectionBookings = "bookings"
)

// Kind classifies a change event.
type Kind string

const (
	KindAppend Kind = "append"
	KindUpdate Kind = "update"
	KindRemove Kind = "remove"
)

// ChangeEvent describes one mutation of a record in a collection.
type ChangeEvent struct {
	Collection string          `json:"collection"`
	Kind       Kind            `json:"kind"`
	RecordID   string          `json:"record_id"`
	Record     json.RawMessage `json:"record,omitempty"`
	At         time.Time       `json:"at"`
}

// Feed broadcasts change events through Redis pub/sub so every API instance
// sees writes made by its peers.
type Feed struct {
	client *redis.Client
	logger *zap.Logger
}

// NewFeed builds a feed on top of an existing Redis client.
func NewFeed(client *redis.Client, logger *zap.Logger) *Feed {
	return &Feed{client: client, logger: logger}
}

func channelFor(collection string) string {
	return "feed:" + collection
}

// Publish emits a change event for a record. Failures are logged, not
// returned: the write already happened and watchers are best effort.
func (f *Feed) Publish(ctx context.Context, collection string, kind Kind, recordID string, record any) {
	if f == nil || f.client == nil {
		return
	}

	event := ChangeEvent{
		Collection: collection,
		Kind:       kind,
		RecordID:   recordID,
		At:         time.Now().UTC(),
	}
	if record != nil {
		raw, err := json.Marshal(record)
		if err != nil {
			f.logger.Warn("feed record marshal failed", zap.Error(err))
			return
		}
		event.Record = raw
	}

	payload, err := json.Marshal(event)
	if err != nil {
		f.logger.Warn("feed event marshal failed", zap.Error(err))
		return
	}
	if err := f.client.Publish(ctx, channelFor(collection), payload).Err(); err != nil {
		f.logger.Warn("feed publish failed",
			zap.String("collection", collection),
			zap.Error(err))
	}
}

// Watch returns an unbounded, restartable stream of change events for one
// collection. The channel closes when ctx is cancelled. Callers that fall
// behind lose events rather than block publishers.
func (f *Feed) Watch(ctx context.Context, collection string) <-chan ChangeEvent {
	out := make(chan ChangeEvent, 16)
	if f == nil || f.client == nil {
		close(out)
		return out
	}

	sub := f.client.Subscribe(ctx, channelFor(collection))
	go func() {
		defer close(out)
		defer sub.Close()
		f.forward(ctx, sub.Channel(), out)
	}()
	return out
}

// forward pumps raw pub/sub messages into the watcher channel until ctx is
// cancelled or the source closes. Sends never block; a full watcher channel
// drops the event.
func (f *Feed) forward(ctx context.Context, msgs <-chan *redis.Message, out chan<- ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				f.logger.Warn("feed event decode failed", zap.Error(err))
				continue
			}
			select {
			case out <- event:
			default:
				// slow watcher, drop
			}
		}
	}
}
