// Package realtime maintains the push connection that delivers issue-change
// notifications outside the request/response cycle. The channel only moves
// bytes and states; deciding what a notification means (and whether to
// reconnect after a failure) belongs to the caller.
package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dkalnins/trackdesk/internal/logging"
	"github.com/dkalnins/trackdesk/internal/models"
)

// State is the channel lifecycle position.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// subscriber channels hold this many undelivered events; beyond that the
// subscriber starts losing events rather than blocking the reader.
const subscriberBuffer = 16

// Channel is a live push connection. Events fan out to every subscriber;
// there is no per-subscriber replay, so late subscribers miss earlier
// events. A failed channel reports its cause via Err and Done but never
// takes the process down.
type Channel struct {
	conn *websocket.Conn
	log  logging.Logger

	mu      sync.Mutex
	state   State
	subs    map[uuid.UUID]chan models.Event
	err     error
	closing bool

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the push endpoint. The connection carries no
// Authorization header; the backend accepts the stream unauthenticated.
func Dial(ctx context.Context, url string, log logging.Logger) (*Channel, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	log = log.With("component", "realtime")

	c := &Channel{
		log:   log,
		state: StateConnecting,
		subs:  make(map[uuid.UUID]chan models.Event),
		done:  make(chan struct{}),
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c.conn = conn
	c.setState(StateOpen)
	log.Info(ctx, "channel open", "url", url)

	go c.readLoop()
	return c, nil
}

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the terminal cause once Done is closed; nil for a clean close.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Done is closed when the channel stops delivering events, for any reason.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Subscribe registers a new event consumer. The channel is buffered; a
// consumer that falls behind loses events instead of stalling the shared
// reader. The subscriber channel is closed on teardown.
func (c *Channel) Subscribe() (uuid.UUID, <-chan models.Event) {
	id := uuid.New()
	ch := make(chan models.Event, subscriberBuffer)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed || c.state == StateErrored {
		close(ch)
		return id, ch
	}
	c.subs[id] = ch
	return id, ch
}

// Unsubscribe detaches a consumer. Its channel stops receiving events but
// is left open; teardown of the whole channel is what closes it.
func (c *Channel) Unsubscribe(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, id)
}

// Close tears the connection down. Idempotent; pending subscribers see
// their channels closed once the reader drains out.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closing = true
		c.mu.Unlock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = c.conn.Close()
	})
	return nil
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// readLoop is the single reader: it decodes frames, fans them out, and owns
// the terminal state transition plus subscriber-channel closing.
func (c *Channel) readLoop() {
	ctx := context.Background()
	var cause error

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			deliberate := c.closing
			c.mu.Unlock()

			if !deliberate && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cause = err
			}
			break
		}
		c.deliver(models.DecodeEvent(data))
	}

	c.mu.Lock()
	if cause != nil {
		c.state = StateErrored
		c.err = cause
	} else {
		c.state = StateClosed
	}
	subs := c.subs
	c.subs = map[uuid.UUID]chan models.Event{}
	c.mu.Unlock()

	if cause != nil {
		c.log.Warn(ctx, "channel errored", "err", cause)
	} else {
		c.log.Info(ctx, "channel closed")
	}

	for _, ch := range subs {
		close(ch)
	}
	_ = c.conn.Close()
	close(c.done)
}

func (c *Channel) deliver(ev models.Event) {
	c.mu.Lock()
	targets := make([]chan models.Event, 0, len(c.subs))
	for _, ch := range c.subs {
		targets = append(targets, ch)
	}
	c.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- ev:
		default:
			// Subscriber is not keeping up; dropping is fine because
			// consumers refetch authoritative state on any event.
		}
	}
}
