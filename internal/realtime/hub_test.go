package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func startHub(t *testing.T) (*Hub, *Metrics, string) {
	t.Helper()
	metrics := NewMetrics(prometheus.NewRegistry())
	hub := NewHub(nil, quietLogger(), metrics)
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, metrics, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func expectNoMessage(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	var netErr net.Error
	require.True(t, errors.As(err, &netErr) && netErr.Timeout(), "expected read timeout, got %v", err)
}

func TestHubDeliversOnlyToConnectedClients(t *testing.T) {
	hub, metrics, url := startHub(t)

	early := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	err := hub.Broadcast(Message{Event: EventBetPlaced, Data: BetPlaced{
		EventID: 1,
		Amount:  decimal.RequireFromString("0.01"),
		Option:  0,
	}})
	require.NoError(t, err)

	late := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	_ = early.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := early.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"bet:placed","data":{"eventId":1,"amount":"0.01","option":0}}`, string(raw))

	expectNoMessage(t, early)
	expectNoMessage(t, late)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Broadcasts.WithLabelValues(EventBetPlaced)))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Clients))
}

func TestHubDeliversBroadcastSentDuringHandshake(t *testing.T) {
	var (
		hub  *Hub
		once sync.Once
	)
	hub = NewHub(func(*http.Request) bool {
		once.Do(func() {
			_ = hub.Broadcast(Message{Event: EventEventResolved, Data: EventResolved{EventID: 4, WinningOption: 1}})
		})
		return true
	}, quietLogger(), nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws")
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"event:resolved","data":{"eventId":4,"winningOption":1}}`, string(raw))
}

func TestHubRemovesDisconnectedClient(t *testing.T) {
	hub, _, url := startHub(t)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)

	assert.NoError(t, hub.Broadcast(Message{Event: EventVideoNew, Data: VideoNew{ID: 1}}))
}

func TestHubDropsWhenQueueFull(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	hub := NewHub(nil, quietLogger(), metrics)
	c := &client{id: "slow", send: make(chan []byte, 1)}
	hub.clients[c] = struct{}{}

	require.NoError(t, hub.Broadcast(Message{Event: EventVoteUpdate, Data: VoteUpdate{ProposalID: 1}}))
	require.NoError(t, hub.Broadcast(Message{Event: EventVoteUpdate, Data: VoteUpdate{ProposalID: 1}}))

	assert.Len(t, c.send, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Dropped))
}

type recordingPublisher struct {
	msgs []Message
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, msg Message) error {
	r.msgs = append(r.msgs, msg)
	return r.err
}

func TestFanoutPublishesToAll(t *testing.T) {
	a := &recordingPublisher{}
	b := &recordingPublisher{err: errors.New("broker down")}
	c := &recordingPublisher{}

	err := Fanout{a, b, c}.Publish(context.Background(), Message{Event: EventItemSold})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Len(t, a.msgs, 1)
	assert.Len(t, c.msgs, 1)
}

type fakeKafkaWriter struct {
	msgs []kafka.Message
}

func (f *fakeKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestKafkaSinkKeysByEvent(t *testing.T) {
	w := &fakeKafkaWriter{}
	sink := &KafkaSink{writer: w, now: time.Now}

	require.NoError(t, sink.Publish(context.Background(), Message{
		Event: EventNewProposal,
		Data:  NewProposal{ID: 3, Title: "t", Description: "d"},
	}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, EventNewProposal, string(w.msgs[0].Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, EventNewProposal, decoded["event"])
}
