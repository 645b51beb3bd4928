package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/dkalnins/trackdesk/internal/models"
)

// pushServer is a minimal stand-in for the backend's /ws/issues endpoint.
type pushServer struct {
	srv *httptest.Server

	mu    sync.Mutex
	conns []*websocket.Conn
	auths []string
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()
	ps := &pushServer{}
	upgrader := websocket.Upgrader{}
	ps.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.mu.Lock()
		ps.auths = append(ps.auths, r.Header.Get("Authorization"))
		ps.mu.Unlock()

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		ps.mu.Lock()
		ps.conns = append(ps.conns, conn)
		ps.mu.Unlock()

		// Keep the connection alive; discard any client frames.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ps.srv.Close)
	return ps
}

func (ps *pushServer) url() string {
	return "ws" + strings.TrimPrefix(ps.srv.URL, "http")
}

func (ps *pushServer) send(t *testing.T, payload string) {
	t.Helper()
	ps.mu.Lock()
	defer ps.mu.Unlock()
	require.NotEmpty(t, ps.conns)
	for _, conn := range ps.conns {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
	}
}

func (ps *pushServer) dropAll() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, conn := range ps.conns {
		_ = conn.Close()
	}
}

func waitEvent(t *testing.T, ch <-chan models.Event) models.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "subscriber channel closed unexpectedly")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return models.Event{}
	}
}

func TestChannel_OpensAndDeliversEvents(t *testing.T) {
	ps := newPushServer(t)

	ch, err := Dial(context.Background(), ps.url(), nil)
	require.NoError(t, err)
	defer ch.Close()
	require.Equal(t, StateOpen, ch.State())

	_, events := ch.Subscribe()
	ps.send(t, `{"type":"issue_updated","issue_id":7}`)

	ev := waitEvent(t, events)
	require.Equal(t, "issue_updated", ev.Type)
	require.Equal(t, int64(7), ev.IssueID)
}

func TestChannel_FanOutReachesAllSubscribers(t *testing.T) {
	ps := newPushServer(t)

	ch, err := Dial(context.Background(), ps.url(), nil)
	require.NoError(t, err)
	defer ch.Close()

	_, a := ch.Subscribe()
	_, b := ch.Subscribe()
	ps.send(t, `{"type":"issue_created","issue_id":1}`)

	require.Equal(t, int64(1), waitEvent(t, a).IssueID)
	require.Equal(t, int64(1), waitEvent(t, b).IssueID)
}

func TestChannel_UnsubscribedConsumerStopsReceiving(t *testing.T) {
	ps := newPushServer(t)

	ch, err := Dial(context.Background(), ps.url(), nil)
	require.NoError(t, err)
	defer ch.Close()

	id, gone := ch.Subscribe()
	_, stays := ch.Subscribe()
	ch.Unsubscribe(id)

	ps.send(t, `{"type":"issue_updated","issue_id":3}`)
	require.Equal(t, int64(3), waitEvent(t, stays).IssueID)

	select {
	case ev := <-gone:
		t.Fatalf("unsubscribed consumer received %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestChannel_NonJSONFrameStillProducesEvent(t *testing.T) {
	ps := newPushServer(t)

	ch, err := Dial(context.Background(), ps.url(), nil)
	require.NoError(t, err)
	defer ch.Close()

	_, events := ch.Subscribe()
	ps.send(t, "something changed")

	ev := waitEvent(t, events)
	require.Empty(t, ev.Type)
	require.Equal(t, "something changed", string(ev.Raw))
}

func TestChannel_CloseIsIdempotentAndTerminal(t *testing.T) {
	ps := newPushServer(t)

	ch, err := Dial(context.Background(), ps.url(), nil)
	require.NoError(t, err)

	_, events := ch.Subscribe()

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())

	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not finish after Close")
	}
	require.Equal(t, StateClosed, ch.State())
	require.NoError(t, ch.Err())

	_, ok := <-events
	require.False(t, ok, "subscriber channels close on teardown")
}

func TestChannel_RemoteDropReportsErroredNotPanic(t *testing.T) {
	ps := newPushServer(t)

	ch, err := Dial(context.Background(), ps.url(), nil)
	require.NoError(t, err)
	defer ch.Close()

	ps.dropAll()

	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not notice remote drop")
	}
	require.Equal(t, StateErrored, ch.State())
	require.Error(t, ch.Err())
}

func TestChannel_SubscribeAfterTeardownYieldsClosedChannel(t *testing.T) {
	ps := newPushServer(t)

	ch, err := Dial(context.Background(), ps.url(), nil)
	require.NoError(t, err)
	require.NoError(t, ch.Close())
	<-ch.Done()

	_, events := ch.Subscribe()
	_, ok := <-events
	require.False(t, ok)
}

func TestChannel_DialFailureReturnsError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := Dial(ctx, "ws://127.0.0.1:1/ws/issues", nil)
	require.Error(t, err)
}

func TestChannel_SendsNoAuthorizationHeader(t *testing.T) {
	ps := newPushServer(t)

	ch, err := Dial(context.Background(), ps.url(), nil)
	require.NoError(t, err)
	defer ch.Close()

	ps.mu.Lock()
	defer ps.mu.Unlock()
	require.Equal(t, []string{""}, ps.auths)
}
