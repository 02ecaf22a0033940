package service

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/chatpdf/types"
)

const (
	wsReadLimit    = 64 * 1024
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
)

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(v)
}

// WebSocketService pushes chat state and notices to connected browsers.
type WebSocketService struct {
	chat     *ChatService
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func NewWebSocketService(chat *ChatService) *WebSocketService {
	return &WebSocketService{
		chat: chat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // local UI only
			},
		},
		clients: make(map[*wsClient]struct{}),
	}
}

func (s *WebSocketService) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	client := &wsClient{conn: conn}
	s.add(client)
	defer s.remove(client)

	if err := client.writeJSON(types.WebSocketResponse{
		Type:    types.TypeWebsocketState,
		Payload: s.chat.State(),
	}); err != nil {
		log.Println("Write error:", err)
		return
	}

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			log.Println("Unmarshal error:", err)
			continue
		}
		switch req.Type {
		case types.TypeWebsocketPing:
			if err := client.writeJSON(types.WebSocketResponse{Type: types.TypeWebsocketPong}); err != nil {
				log.Println("Write error:", err)
				return
			}
		case types.TypeWebsocketState:
			if err := client.writeJSON(types.WebSocketResponse{
				Type:    types.TypeWebsocketState,
				Payload: s.chat.State(),
			}); err != nil {
				log.Println("Write error:", err)
				return
			}
		default:
			log.Println("Invalid message type:", req.Type)
		}
	}
}

func (s *WebSocketService) StateChanged(state types.ChatState) {
	s.broadcast(types.WebSocketResponse{Type: types.TypeWebsocketState, Payload: state})
}

func (s *WebSocketService) Notify(level, text string) {
	s.broadcast(types.WebSocketResponse{
		Type:    types.TypeWebsocketNotice,
		Payload: types.Notice{Level: level, Text: text},
	})
}

func (s *WebSocketService) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *WebSocketService) broadcast(msg types.WebSocketResponse) {
	s.mu.Lock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.writeJSON(msg); err != nil {
			log.Println("Write error:", err)
			s.remove(c)
		}
	}
}

func (s *WebSocketService) add(c *wsClient) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
}

func (s *WebSocketService) remove(c *wsClient) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}
