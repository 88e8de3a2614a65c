package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())
	return client, mr
}

func receive(t *testing.T, ch <-chan *redis.Message) Event {
	t.Helper()
	select {
	case msg := <-ch:
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestRedisPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	client, _ := setupTestRedis(t)
	pub := NewRedisPublisher(client, "registry:events")

	sub := client.Subscribe(ctx, pub.GlobalChannel(), pub.ProjectChannel("p1"))
	t.Cleanup(func() { _ = sub.Close() })
	// wait for both subscription confirmations
	for i := 0; i < 2; i++ {
		_, err := sub.Receive(ctx)
		require.NoError(t, err)
	}
	ch := sub.Channel()

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Publish(ctx, Event{
		Action:    ActionApply,
		Kind:      "entity",
		Project:   "p1",
		Name:      "driver_id",
		Timestamp: at,
	}))

	for i := 0; i < 2; i++ {
		ev := receive(t, ch)
		assert.Equal(t, ActionApply, ev.Action)
		assert.Equal(t, "p1", ev.Project)
		assert.Equal(t, "driver_id", ev.Name)
		assert.True(t, at.Equal(ev.Timestamp))
	}
}

func TestRedisPublisher_GlobalOnly(t *testing.T) {
	ctx := context.Background()
	client, _ := setupTestRedis(t)
	pub := NewRedisPublisher(client, "registry:events")

	sub := client.Subscribe(ctx, pub.GlobalChannel())
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, pub.Publish(ctx, Event{Action: ActionTeardown, Timestamp: time.Now()}))
	ev := receive(t, sub.Channel())
	assert.Equal(t, ActionTeardown, ev.Action)
	assert.Empty(t, ev.Project)
}

func TestRedisPublisher_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })

	err := NewRedisPublisher(client, "registry:events").Publish(context.Background(), Event{Action: ActionTeardown})
	require.Error(t, err)
	assert.True(t, Error.Has(err))
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{Action: ActionApply}))
}
