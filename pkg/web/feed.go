// Package web provides the live moderation event feed over websockets.
package web

import (
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPingPeriod = 30 * time.Second
	feedSendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Host filtering already happened in logsMiddleware
		return true
	},
}

// feedClient is one connected websocket subscriber. An empty guildID
// subscribes to every guild.
type feedClient struct {
	conn    *websocket.Conn
	send    chan []byte
	guildID string
}

// ModlogFeed broadcasts committed moderation events to websocket
// subscribers on /ws/modlog. It implements moderation.Notifier.
type ModlogFeed struct {
	clients map[*feedClient]struct{}
	mu      sync.RWMutex
}

var _ moderation.Notifier = (*ModlogFeed)(nil)

var (
	feedInstance *ModlogFeed
	feedOnce     sync.Once
)

// NewModlogFeed creates an empty feed hub
func NewModlogFeed() *ModlogFeed {
	return &ModlogFeed{clients: make(map[*feedClient]struct{})}
}

// InitFeed initializes the global feed instance
func InitFeed() *ModlogFeed {
	feedOnce.Do(func() {
		feedInstance = NewModlogFeed()
	})
	return feedInstance
}

// GetFeed returns the global feed instance
func GetFeed() *ModlogFeed {
	return feedInstance
}

// SetupFeedRoutes registers the websocket endpoint on the server
func (f *ModlogFeed) SetupFeedRoutes(s *Server) {
	s.GET("/ws/modlog", f.handleWS)
}

// Notify fans the event out to matching subscribers. Slow clients get
// dropped rather than blocking the moderation pipeline.
func (f *ModlogFeed) Notify(ev moderation.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("Error serializando evento para el feed: "+err.Error(), "WebFeed")
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for client := range f.clients {
		if client.guildID != "" && client.guildID != ev.GuildID {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Buffer full, the writer goroutine will close it
		}
	}
}

// ClientCount returns the number of connected subscribers
func (f *ModlogFeed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// handleWS upgrades the connection and starts the client pumps
func (f *ModlogFeed) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Error actualizando conexión websocket: "+err.Error(), "WebFeed")
		return
	}

	client := &feedClient{
		conn:    conn,
		send:    make(chan []byte, feedSendBuffer),
		guildID: c.Query("guild"),
	}

	f.mu.Lock()
	f.clients[client] = struct{}{}
	f.mu.Unlock()

	logger.Debug("Nuevo suscriptor del modlog conectado", "WebFeed")

	go f.writePump(client)
	go f.readPump(client)
}

// writePump flushes queued events and keeps the connection alive
func (f *ModlogFeed) writePump(client *feedClient) {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound messages and detects disconnects
func (f *ModlogFeed) readPump(client *feedClient) {
	defer func() {
		f.mu.Lock()
		delete(f.clients, client)
		f.mu.Unlock()
		close(client.send)
		client.conn.Close()
		logger.Debug("Suscriptor del modlog desconectado", "WebFeed")
	}()

	client.conn.SetReadLimit(512)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
