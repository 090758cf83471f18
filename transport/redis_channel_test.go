package transport

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/sitharaj88/reacton/crdt"
)

func TestRedisChannelPublishSubscribeRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	sender, err := NewRedisChannel(ctx, RedisChannelConfig{
		RedisURL: "redis://" + mr.Addr(),
		Channel:  "reacton-sync",
	})
	require.NoError(t, err)
	defer sender.Close()

	receiver, err := NewRedisChannel(ctx, RedisChannelConfig{
		RedisURL: "redis://" + mr.Addr(),
		Channel:  "reacton-sync",
	})
	require.NoError(t, err)
	defer receiver.Close()

	inbound, err := receiver.Subscribe(ctx)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond) // let miniredis register the subscription

	msg := crdt.NewSyncAck("counter", crdt.Clock{"n1": 3}, "n1")
	require.NoError(t, sender.Publish(ctx, msg))

	select {
	case got := <-inbound:
		require.Equal(t, msg.Type, got.Type)
		require.Equal(t, msg.Name, got.Name)
		require.Equal(t, msg.Clock, got.Clock)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published message")
	}
}
