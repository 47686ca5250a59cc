package notifications

import (
	"log"
	"time"

	"bazaar/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// The notification socket is one-way: the server pushes event envelopes and
// the browser sends nothing but pongs. Limits and timeouts are sized for
// that: events are small JSON objects, so a client that falls 64 messages
// behind is not keeping up and gets a gap notice instead of unbounded
// buffering.
const (
	writeWait  = 5 * time.Second
	pongWait   = 45 * time.Second
	pingPeriod = 30 * time.Second

	// Nothing legitimate arrives from the client, so the read limit only
	// needs to cover control frames.
	readLimit = 512

	sendBuffer = 64

	// Metric label identifying this hub's drops.
	hubLabel = "notifications"
)

// dropNotice tells the client that events were discarded so it can re-fetch
// the affected resources instead of trusting its local state.
var dropNotice = []byte(`{"type":"events_dropped","payload":{"reason":"slow_consumer"}}`)

// Client is one websocket connection of one user. A user may hold several
// concurrently (multiple tabs); the hub fans events out to all of them.
type Client struct {
	hub    *Hub
	UserID uint

	// Conn is nil in hub-level tests that never open a socket.
	Conn *websocket.Conn

	// Send is the outbound event queue drained by WritePump.
	Send chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBuffer),
	}
}

// ReadPump drains the connection until it dies. Inbound frames are
// discarded; reading is still required to process pongs and notice closes.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(readLimit)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("notification socket read error (user %d): %v", c.UserID, err)
			}
			return
		}
	}
}

// WritePump moves queued events onto the wire and keeps the connection
// alive with pings. It owns all writes; nothing else touches the socket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues an event without ever blocking the broadcaster. A full
// queue drops the event, records the drop, and tries to leave one gap
// notice so the client knows to re-fetch.
func (c *Client) TrySend(event []byte) {
	defer func() {
		// Send may be closed by a concurrent unregister.
		if r := recover(); r != nil {
			observability.WebSocketBackpressureDrops.WithLabelValues(hubLabel, "closed").Inc()
		}
	}()

	select {
	case c.Send <- event:
		return
	default:
	}

	observability.WebSocketBackpressureDrops.WithLabelValues(hubLabel, "slow_consumer").Inc()
	log.Printf("notification socket for user %d is full, dropping event", c.UserID)

	select {
	case c.Send <- dropNotice:
	default:
	}
}
