package queue

import (
	"context"
	"testing"
	"time"

	"eventease/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Delivery) Delivery {
	t.Helper()
	select {
	case d, ok := <-ch:
		require.True(t, ok, "channel closed")
		return d
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}
	return Delivery{}
}

func TestMemoryChangeFeed_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewMemoryChangeFeed(10)
	eventID := uuid.New()
	change := model.NewChangeEvent(model.TableLikes, model.ChangeInsert, uuid.New(), eventID)

	require.NoError(t, feed.Publish(ctx, change))

	deliveries, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	d := receive(t, deliveries)
	assert.Equal(t, change, *d.Data)
	d.Ack()
}

func TestMemoryChangeFeed_NackRequeue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewMemoryChangeFeed(10)
	change := model.NewChangeEvent(model.TableEvents, model.ChangeUpdate, uuid.New(), uuid.New())
	require.NoError(t, feed.Publish(ctx, change))

	deliveries, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	first := receive(t, deliveries)
	first.Nack(true)

	again := receive(t, deliveries)
	assert.Equal(t, change, *again.Data)

	again.Nack(false)
	select {
	case d := <-deliveries:
		t.Fatalf("unexpected redelivery: %+v", d.Data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryChangeFeed_PublishRespectsContext(t *testing.T) {
	feed := NewMemoryChangeFeed(1)
	change := model.NewChangeEvent(model.TableEvents, model.ChangeInsert, uuid.New(), uuid.New())
	require.NoError(t, feed.Publish(context.Background(), change))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := feed.Publish(ctx, change)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryChangeFeed_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	feed := NewMemoryChangeFeed(1)

	deliveries, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-deliveries:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}
