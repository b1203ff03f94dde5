package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// wsWriteTimeout bounds every outbound write
	wsWriteTimeout = 10 * time.Second

	// wsPingInterval keeps idle connections alive
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWebSocket streams monitor notifications to the client until it
// disconnects. Slow clients miss notifications rather than stall the
// monitor.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Server: websocket upgrade failed: %v", err)
		return
	}

	listener := s.monitorService.Subscribe()
	defer listener.Cancel()
	defer conn.Close()

	log.Printf("Server: websocket client connected from %s", r.RemoteAddr)

	// Read loop detects the client closing the connection
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(wsPingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-done:
			log.Printf("Server: websocket client disconnected from %s", r.RemoteAddr)
			return
		case notification := <-listener.Chan():
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(notification); err != nil {
				log.Printf("Server: websocket write failed: %v", err)
				return
			}
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}
