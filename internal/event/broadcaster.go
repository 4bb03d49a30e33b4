package event

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"diamondpad/internal/observability"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Subscribers never send
	// application data, so this only needs to cover control frames.
	maxMessageSize = 512

	// Per-subscriber send buffer. A subscriber that falls this far behind
	// is disconnected rather than blocking the ledger.
	sendBufferSize = 64
)

// Broadcaster pushes every event to all connected WebSocket subscribers.
// It also implements http.Handler for the subscription endpoint.
type Broadcaster struct {
	log      *logrus.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*subscriber]struct{}
	closed  bool
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// NewBroadcaster creates a Broadcaster with no subscribers.
func NewBroadcaster(log *logrus.Logger) *Broadcaster {
	return &Broadcaster{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*subscriber]struct{}),
	}
}

var _ Notifier = (*Broadcaster)(nil)

// Notify serializes the event and queues it to every connected subscriber.
// Slow subscribers are dropped, not waited on.
func (b *Broadcaster) Notify(_ context.Context, e Event) error {
	msg, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.clients {
		select {
		case sub.send <- msg:
		default:
			b.log.WithField("remote", sub.conn.RemoteAddr().String()).
				Warn("subscriber too slow, dropping connection")
			b.removeLocked(sub)
		}
	}
	return nil
}

// ServeHTTP upgrades the request and registers the peer as a subscriber.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		conn.Close()
		return
	}
	b.clients[sub] = struct{}{}
	observability.UpdateEventSubscribers(len(b.clients))
	b.mu.Unlock()

	b.log.WithField("remote", conn.RemoteAddr().String()).Info("event subscriber connected")

	go b.writePump(sub)
	go b.readPump(sub)
}

// Close disconnects all subscribers and rejects new ones.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for sub := range b.clients {
		b.removeLocked(sub)
	}
}

// SubscriberCount returns the number of connected subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// removeLocked unregisters a subscriber. Caller holds b.mu. Closing the send
// channel makes the write pump send a close frame and tear down the socket.
func (b *Broadcaster) removeLocked(sub *subscriber) {
	if _, ok := b.clients[sub]; !ok {
		return
	}
	delete(b.clients, sub)
	close(sub.send)
	observability.UpdateEventSubscribers(len(b.clients))
}

func (b *Broadcaster) remove(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(sub)
}

func (b *Broadcaster) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (b *Broadcaster) readPump(sub *subscriber) {
	defer func() {
		b.remove(sub)
		sub.conn.Close()
	}()

	sub.conn.SetReadLimit(maxMessageSize)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		sub.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				b.log.WithError(err).Debug("event subscriber read error")
			}
			return
		}
	}
}
