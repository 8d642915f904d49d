package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Mateuse/Gpu-Monitor/internal/api/dto"
	"github.com/Mateuse/Gpu-Monitor/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Envelope wraps every message pushed to websocket clients. Type is
// "snapshot" or "poll_error"; Data is the matching DTO.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans poll outcomes out to connected websocket clients. It
// subscribes to the snapshot bus and pushes every emission as a JSON
// envelope. Slow or broken clients are dropped rather than allowed to
// stall the broadcast.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
	logger     *slog.Logger
}

// NewHub creates a hub. Run must be started in its own goroutine
// before any client connects.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     logger.With("component", "ws_hub"),
	}
}

// Run processes register, unregister, and broadcast events until the
// process exits.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.logger.Info("websocket client connected", "clients", h.ClientCount())

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()
			h.logger.Info("websocket client disconnected", "clients", h.ClientCount())

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Warn("websocket write failed, dropping client", "error", err)
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// OnSnapshot implements bus.Subscriber.
func (h *Hub) OnSnapshot(snap *domain.MetricSnapshot) {
	h.push(Envelope{Type: "snapshot", Data: dto.ToSnapshotResponse(snap)})
}

// OnError implements bus.Subscriber.
func (h *Hub) OnError(perr *domain.PollError) {
	h.push(Envelope{Type: "poll_error", Data: dto.ToPollErrorResponse(perr)})
}

func (h *Hub) push(env Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("failed to marshal websocket envelope", "error", err)
		return
	}

	// Drop the message when the broadcast buffer is full; the next
	// poll supersedes it anyway.
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("websocket broadcast buffer full, message dropped")
	}
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the request and keeps the connection
// registered until the client goes away. Client messages are read and
// discarded; the stream is push-only.
func (h *Hub) HandleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		h.register <- conn

		defer func() {
			h.unregister <- conn
		}()

		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Warn("websocket read error", "error", err)
				}
				break
			}
		}
	}
}
