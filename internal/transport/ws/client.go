// Package ws owns the persistent connection to the quiz server: it dials,
// decodes the snapshot broadcast stream, queues outbound actions, and
// reconnects unconditionally with capped exponential backoff.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"quizo/internal/domain"
)

// State labels the connection lifecycle. There is no distinguished error
// state: refused connections and unknown rooms both surface as the manager
// cycling through reconnecting.
type State string

const (
	StateIdle         State = "idle"
	StateConnecting   State = "connecting"
	StateOpen         State = "open"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// Config carries the endpoint and backoff policy.
type Config struct {
	BaseURL        string        // e.g. ws://127.0.0.1:8000
	InitialBackoff time.Duration // first retry delay, defaults to 500ms
	MaxBackoff     time.Duration // backoff cap, defaults to 15s
}

const (
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 15 * time.Second
	outboxSize            = 16
	snapshotBuffer        = 8
)

// Client is one logical connection for a (room code, nickname) pair. The
// avatar is fixed for the connection's lifetime.
type Client struct {
	id  string
	url string

	initialBackoff time.Duration
	maxBackoff     time.Duration
	rnd            *rand.Rand

	snapshots chan domain.Snapshot
	outbox    chan domain.Action
	done      chan struct{}

	cancel    context.CancelFunc
	closeOnce sync.Once

	mu    sync.RWMutex
	state State
}

// Dial validates the inputs, then opens the connection in the background.
// Empty nickname or room code means no connection attempt is made at all.
// The returned client delivers every decoded snapshot on Snapshots until
// Close or ctx cancellation.
func Dial(ctx context.Context, cfg Config, roomCode, nickname, avatar string) (*Client, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, domain.ErrEmptyNickname
	}
	room := domain.NormalizeRoomCode(roomCode)
	if room == "" {
		return nil, domain.ErrEmptyRoomCode
	}

	initial := cfg.InitialBackoff
	if initial <= 0 {
		initial = defaultInitialBackoff
	}
	upper := cfg.MaxBackoff
	if upper < initial {
		upper = defaultMaxBackoff
	}

	c := &Client{
		id:             uuid.NewString(),
		url:            JoinURL(cfg.BaseURL, room, nickname, avatar),
		initialBackoff: initial,
		maxBackoff:     upper,
		rnd:            rand.New(rand.NewSource(time.Now().UnixNano())),
		snapshots:      make(chan domain.Snapshot, snapshotBuffer),
		outbox:         make(chan domain.Action, outboxSize),
		done:           make(chan struct{}),
		state:          StateIdle,
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.run(runCtx)
	return c, nil
}

// JoinURL builds the connection endpoint:
// <ws-base>/ws/{ROOM}/{nickname}?avatar=<escaped avatar>.
func JoinURL(baseURL, room, nickname, avatar string) string {
	return fmt.Sprintf("%s/ws/%s/%s?avatar=%s",
		strings.TrimRight(baseURL, "/"),
		url.PathEscape(room),
		url.PathEscape(nickname),
		url.QueryEscape(avatar))
}

// Snapshots delivers inbound snapshots in arrival order. The channel is
// closed once the client shuts down.
func (c *Client) Snapshots() <-chan domain.Snapshot {
	return c.snapshots
}

// Send queues an action fire-and-forget. Queued actions survive a reconnect
// and are written in call order; no acknowledgement is awaited. It fails
// only when the client is shut down or the outbox is saturated.
func (c *Client) Send(action domain.Action) error {
	select {
	case <-c.done:
		return domain.ErrNotConnected
	default:
	}
	select {
	case c.outbox <- action:
		return nil
	default:
		return domain.ErrNotConnected
	}
}

// State reports where the reconnect loop currently is.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Close stops the connection and blocks until no more snapshots will be
// delivered.
func (c *Client) Close() {
	c.closeOnce.Do(c.cancel)
	<-c.done
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// run owns the reconnect loop: dial, pump until the connection drops, back
// off, dial again. Retry is unconditional until the context ends.
func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	defer close(c.snapshots)
	defer c.setState(StateClosed)

	backoff := c.initialBackoff
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return
		}
		if attempt == 0 {
			c.setState(StateConnecting)
		} else {
			c.setState(StateReconnecting)
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("ws %s: dial failed: %v (retry in %s)", c.id, err, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.withJitter(backoff)):
			}
			if backoff *= 2; backoff > c.maxBackoff {
				backoff = c.maxBackoff
			}
			continue
		}

		backoff = c.initialBackoff
		c.setState(StateOpen)
		err = c.pump(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return
		}
		log.Printf("ws %s: connection lost: %v (reconnecting)", c.id, err)
	}
}

// pump runs the read and write sides until either fails or the context is
// canceled. Closing the connection unblocks a pending read.
func (c *Client) pump(ctx context.Context, conn *websocket.Conn) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		conn.Close()
		return nil
	})

	g.Go(func() error {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return err
			}
			var snap domain.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				log.Printf("ws %s: dropping undecodable frame: %v", c.id, err)
				continue
			}
			select {
			case c.snapshots <- snap:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case action := <-c.outbox:
				if err := conn.WriteJSON(action); err != nil {
					return err
				}
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	return g.Wait()
}

// withJitter spreads retries by up to 10% so clients that dropped together
// do not redial in lockstep.
func (c *Client) withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d + time.Duration(c.rnd.Int63n(int64(d)/10+1))
}
