package controllers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"recolecta/internal/middleware"
	"recolecta/internal/models"
	"recolecta/internal/stores"
)

const (
	writeWait      = 10 * time.Second
	maxInboundSize = 512
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SnapshotMessage is what a subscriber receives after connecting and after
// every change to the request list.
type SnapshotMessage struct {
	Type string           `json:"type"`
	Data []models.Request `json:"data"`
}

type hubClient struct {
	conn   *websocket.Conn
	userID string
	role   models.Role
	send   chan []models.Request
}

// RequestHub pushes request list snapshots to websocket clients. Each
// client only sees the requests its role allows.
type RequestHub struct {
	mu          sync.Mutex
	clients     map[*hubClient]struct{}
	latest      []models.Request
	seen        bool
	closed      bool
	unsubscribe func()
}

// NewRequestHub subscribes to source. Call Close to detach it and drop
// every client.
func NewRequestHub(source *stores.RequestStore) *RequestHub {
	h := &RequestHub{clients: make(map[*hubClient]struct{})}
	h.unsubscribe = source.Subscribe(h.broadcast)

	snapshot := source.Requests()
	h.mu.Lock()
	if !h.seen {
		h.latest, h.seen = snapshot, true
	}
	h.mu.Unlock()
	return h
}

// broadcast runs on the store's notification path and must not block.
func (h *RequestHub) broadcast(st stores.RequestState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest, h.seen = st.Requests, true
	for cl := range h.clients {
		offer(cl, visibleTo(cl.userID, cl.role, h.latest))
	}
}

// offer replaces any snapshot the client has not picked up yet.
func offer(cl *hubClient, reqs []models.Request) {
	select {
	case cl.send <- reqs:
		return
	default:
	}
	select {
	case <-cl.send:
	default:
	}
	select {
	case cl.send <- reqs:
	default:
		logrus.WithField("user_id", cl.userID).Warn("Snapshot dropped for slow websocket client")
	}
}

func visibleTo(userID string, role models.Role, all []models.Request) []models.Request {
	out := make([]models.Request, 0, len(all))
	for _, r := range all {
		switch role {
		case models.RoleAdmin, models.RoleCompany:
		case models.RoleCollector:
			if r.CollectorID != userID {
				continue
			}
		default:
			if r.UserID != userID {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func (h *RequestHub) register(cl *hubClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[cl] = struct{}{}
	offer(cl, visibleTo(cl.userID, cl.role, h.latest))
	logrus.WithFields(logrus.Fields{
		"user_id":  cl.userID,
		"role":     cl.role,
		"conn_ptr": fmt.Sprintf("%p", cl.conn),
	}).Info("Client registered with RequestHub")
	return true
}

func (h *RequestHub) unregister(cl *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	close(cl.send)
	logrus.WithFields(logrus.Fields{
		"user_id":  cl.userID,
		"conn_ptr": fmt.Sprintf("%p", cl.conn),
	}).Info("Client unregistered from RequestHub")
}

// Clients reports how many connections are registered.
func (h *RequestHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops listening to the store and closes every connection.
func (h *RequestHub) Close() {
	h.unsubscribe()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for cl := range h.clients {
		cl.conn.Close()
	}
}

func (cl *hubClient) writeLoop() {
	for reqs := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteJSON(SnapshotMessage{Type: "requests", Data: reqs}); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("user_id", cl.userID).Warn("Failed to send snapshot")
			}
			cl.conn.Close()
			return
		}
	}
}

// readLoop discards inbound frames and returns once the peer disconnects.
func (cl *hubClient) readLoop() {
	cl.conn.SetReadLimit(maxInboundSize)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// StreamRequests upgrades an authenticated request to a websocket and
// streams snapshots until either side closes.
func (h *Handler) StreamRequests(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	cl := &hubClient{
		conn:   conn,
		userID: middleware.UserIDFrom(c),
		role:   middleware.RoleFrom(c),
		send:   make(chan []models.Request, 1),
	}
	if !h.Hub.register(cl) {
		return
	}

	go cl.writeLoop()
	cl.readLoop()
	h.Hub.unregister(cl)
}
