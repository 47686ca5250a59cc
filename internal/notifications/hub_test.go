package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case msg := <-c.Send:
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return ""
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()

	c1, err := hub.Register(1, nil)
	require.NoError(t, err)
	c2, err := hub.Register(1, nil)
	require.NoError(t, err)
	c3, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.Broadcast(1, `{"type":"test"}`)

	assert.Equal(t, `{"type":"test"}`, receive(t, c1))
	assert.Equal(t, `{"type":"test"}`, receive(t, c2))

	select {
	case msg := <-c3.Send:
		t.Fatalf("user 2 should not receive user 1's message, got %s", msg)
	default:
	}
}

func TestHubBroadcastAll(t *testing.T) {
	hub := NewHub()

	c1, err := hub.Register(1, nil)
	require.NoError(t, err)
	c2, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.BroadcastAll("hello")

	assert.Equal(t, "hello", receive(t, c1))
	assert.Equal(t, "hello", receive(t, c2))
}

func TestHubPerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(7, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(7, nil)
	assert.Error(t, err)

	// A different user is unaffected.
	_, err = hub.Register(8, nil)
	assert.NoError(t, err)
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(3, nil)
	require.NoError(t, err)
	assert.True(t, hub.IsOnline(3))

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(3))

	// Double unregister is a no-op.
	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(3))
}

func TestClientSlowConsumerDropsOverflow(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(5, nil)
	require.NoError(t, err)

	for i := 0; i < cap(client.Send); i++ {
		client.TrySend([]byte("event"))
	}
	require.Equal(t, cap(client.Send), len(client.Send))

	// The queue is full: the overflow event must be dropped, not block.
	client.TrySend([]byte("overflow"))
	assert.Equal(t, cap(client.Send), len(client.Send))
	for len(client.Send) > 0 {
		assert.NotEqual(t, "overflow", string(<-client.Send))
	}
}

func TestClientTrySendAfterCloseDoesNotPanic(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(6, nil)
	require.NoError(t, err)
	close(client.Send)

	assert.NotPanics(t, func() { client.TrySend([]byte("late event")) })
}

func TestHubWiringDeliversRedisEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewHub()
	notifier := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, notifier))

	client, err := hub.Register(42, nil)
	require.NoError(t, err)
	other, err := hub.Register(43, nil)
	require.NoError(t, err)

	// Subscriber needs a moment to attach before the first publish.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, notifier.PublishUser(ctx, 42, `{"type":"contract_issued"}`))
	assert.Equal(t, `{"type":"contract_issued"}`, receive(t, client))

	require.NoError(t, notifier.PublishBroadcast(ctx, `{"type":"publication_created"}`))
	assert.Equal(t, `{"type":"publication_created"}`, receive(t, client))
	assert.Equal(t, `{"type":"publication_created"}`, receive(t, other))
}

func TestNotifierNilRedisIsNoop(t *testing.T) {
	notifier := NewNotifier(nil)
	ctx := context.Background()

	assert.NoError(t, notifier.PublishUser(ctx, 1, "x"))
	assert.NoError(t, notifier.PublishBroadcast(ctx, "x"))
	assert.NoError(t, notifier.StartPatternSubscriber(ctx, func(string, string) {}))
}

func TestUserChannel(t *testing.T) {
	assert.Equal(t, "notifications:user:15", UserChannel(15))
	assert.Equal(t, fmt.Sprintf("notifications:user:%d", 0), UserChannel(0))
}
