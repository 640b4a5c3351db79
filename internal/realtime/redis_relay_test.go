package realtime

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisRelayDeliversEachMessageOnce(t *testing.T) {
	rdb := newRedisClient(t)
	hub, _, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	relay := NewRedisRelay(rdb, "", quietLogger())
	require.NoError(t, relay.Start(ctx, hub))

	pub := NewPublisher(hub, relay, nil)
	require.NoError(t, pub.Publish(ctx, Message{Event: EventVideoNew, Data: VideoNew{
		ID:       7,
		Creator:  "0xcreator",
		IPFSHash: "ipfs://QmClip",
		Title:    "clutch",
	}}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"video:new","data":{"id":7,"creator":"0xcreator","ipfsHash":"ipfs://QmClip","title":"clutch"}}`, string(raw))
	expectNoMessage(t, conn)
}

func TestRedisRelayStartFailsWithoutServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	rdb := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	hub := NewHub(nil, quietLogger(), nil)
	assert.Error(t, NewRedisRelay(rdb, "relay-test", quietLogger()).Start(ctx, hub))
}

func TestNewPublisherFeedsHubOnce(t *testing.T) {
	hub := NewHub(nil, quietLogger(), nil)
	relay := NewRedisRelay(newRedisClient(t), "", quietLogger())
	sink := &KafkaSink{writer: &fakeKafkaWriter{}, now: time.Now}

	assert.Equal(t, Fanout{hub}, NewPublisher(hub, nil, nil))
	assert.Equal(t, Fanout{hub, sink}, NewPublisher(hub, nil, sink))

	withRelay := NewPublisher(hub, relay, sink)
	require.Len(t, withRelay, 2)
	assert.Same(t, relay, withRelay[0])
	assert.Same(t, sink, withRelay[1])
}
