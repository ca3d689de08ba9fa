package stream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rawMessage(t *testing.T, event ChangeEvent) *redis.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return &redis.Message{Channel: channelFor(event.Collection), Payload: string(payload)}
}

func TestForwardDeliversEvents(t *testing.T) {
	feed := NewFeed(nil, zap.NewNop())
	msgs := make(chan *redis.Message)
	out := make(chan ChangeEvent, 16)

	done := make(chan struct{})
	go func() {
		feed.forward(context.Background(), msgs, out)
		close(done)
	}()

	msgs <- rawMessage(t, ChangeEvent{Collection: CollectionBookings, Kind: KindAppend, RecordID: "bk-1"})
	msgs <- rawMessage(t, ChangeEvent{Collection: CollectionBookings, Kind: KindUpdate, RecordID: "bk-1"})
	close(msgs)
	<-done

	require.Len(t, out, 2)
	first := <-out
	assert.Equal(t, KindAppend, first.Kind)
	assert.Equal(t, "bk-1", first.RecordID)
	second := <-out
	assert.Equal(t, KindUpdate, second.Kind)
}

func TestForwardDropsForSlowWatchers(t *testing.T) {
	feed := NewFeed(nil, zap.NewNop())
	msgs := make(chan *redis.Message)
	out := make(chan ChangeEvent, 1)

	done := make(chan struct{})
	go func() {
		feed.forward(context.Background(), msgs, out)
		close(done)
	}()

	// nobody reads out, so only the first event fits
	for _, id := range []string{"bk-1", "bk-2", "bk-3"} {
		msgs <- rawMessage(t, ChangeEvent{Collection: CollectionBookings, Kind: KindAppend, RecordID: id})
	}
	close(msgs)
	<-done

	require.Len(t, out, 1)
	kept := <-out
	assert.Equal(t, "bk-1", kept.RecordID)
}

func TestForwardSkipsUndecodableMessages(t *testing.T) {
	feed := NewFeed(nil, zap.NewNop())
	msgs := make(chan *redis.Message)
	out := make(chan ChangeEvent, 16)

	done := make(chan struct{})
	go func() {
		feed.forward(context.Background(), msgs, out)
		close(done)
	}()

	msgs <- &redis.Message{Payload: "{not json"}
	msgs <- rawMessage(t, ChangeEvent{Collection: CollectionAccounts, Kind: KindAppend, RecordID: "acc-1"})
	close(msgs)
	<-done

	require.Len(t, out, 1)
	assert.Equal(t, "acc-1", (<-out).RecordID)
}

func TestForwardStopsOnCancel(t *testing.T) {
	feed := NewFeed(nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan *redis.Message)
	out := make(chan ChangeEvent, 16)

	done := make(chan struct{})
	go func() {
		feed.forward(ctx, msgs, out)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward did not stop on context cancel")
	}
}

func TestWatchWithoutClientClosesImmediately(t *testing.T) {
	var feed *Feed
	ch := feed.Watch(context.Background(), CollectionAccounts)
	_, open := <-ch
	assert.False(t, open)

	ch = NewFeed(nil, zap.NewNop()).Watch(context.Background(), CollectionBookings)
	_, open = <-ch
	assert.False(t, open)
}
