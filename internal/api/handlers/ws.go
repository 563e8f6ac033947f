package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/lonnieqin/chatapi/internal/api/services"
	"github.com/lonnieqin/chatapi/internal/llm"
)

const wsChatModel = "gpt-4o-mini"

// client wraps a socket with a write lock so the relay path and the owner's
// echo path never interleave frames.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) Send(message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(message))
}

// ConnectionManager tracks live sockets by user id. Handlers run on separate
// goroutines, so the map is mutex-guarded; only connect/disconnect mutate it.
type ConnectionManager struct {
	mu    sync.Mutex
	conns map[string]*client
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{conns: make(map[string]*client)}
}

func (m *ConnectionManager) Connect(userID string, conn *websocket.Conn) *client {
	c := &client{conn: conn}
	m.mu.Lock()
	m.conns[userID] = c
	m.mu.Unlock()
	return c
}

func (m *ConnectionManager) Disconnect(userID string) {
	m.mu.Lock()
	delete(m.conns, userID)
	m.mu.Unlock()
}

// SendPersonal delivers a message to the target user's socket if connected.
func (m *ConnectionManager) SendPersonal(message, userID string) bool {
	m.mu.Lock()
	c, ok := m.conns[userID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	return c.Send(message) == nil
}

// WSHandler serves the chat relay sockets. Frames are JSON {to, message};
// the special target "gpt-4o-mini" routes the message through the chat
// dispatcher instead of another user.
type WSHandler struct {
	Hub        *ConnectionManager
	Auth       *services.Authenticator
	Dispatcher *llm.Dispatcher
	upgrader   websocket.Upgrader
}

func NewWSHandler(auth *services.Authenticator, dispatcher *llm.Dispatcher) *WSHandler {
	return &WSHandler{
		Hub:        NewConnectionManager(),
		Auth:       auth,
		Dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GET /ws?user_id=
func (h *WSHandler) Relay(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	h.serve(w, r, userID)
}

// GET /ollama?user_id=&access_token=
//
// Authenticated variant: the (user id, token) pair is validated before the
// upgrade, so bad credentials fail the HTTP handshake instead of producing a
// half-open socket.
func (h *WSHandler) AuthRelay(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	accessToken := r.URL.Query().Get("access_token")

	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	user, err := h.Auth.Authenticate(uint(id), accessToken)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	h.serve(w, r, userID)
}

func (h *WSHandler) serve(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	c := h.Hub.Connect(userID, conn)
	defer func() {
		h.Hub.Disconnect(userID)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame struct {
			To      string `json:"to"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			_ = c.Send("Invalid JSON format")
			continue
		}

		switch {
		case strings.EqualFold(frame.To, wsChatModel):
			reply, err := h.askModel(r.Context(), frame.Message)
			if err != nil {
				_ = c.Send(fmt.Sprintf("%s: %v", wsChatModel, err))
				continue
			}
			_ = c.Send(fmt.Sprintf("%s: %s", userID, frame.Message))
			_ = c.Send(fmt.Sprintf("%s: %s", wsChatModel, reply))
		case frame.To != "" && frame.Message != "":
			all := fmt.Sprintf("%s: %s", userID, frame.Message)
			h.Hub.SendPersonal(all, frame.To)
			_ = c.Send(all)
		default:
			_ = c.Send("Invalid message format")
		}
	}
}

// askModel runs a one-shot completion through the dispatcher.
func (h *WSHandler) askModel(ctx context.Context, message string) (string, error) {
	provider, err := h.Dispatcher.Select(wsChatModel)
	if err != nil {
		return "", err
	}
	reply, err := provider.Complete(ctx, llm.Conversation{
		Model:    wsChatModel,
		Messages: []llm.Message{{Role: "user", Content: message}},
	})
	if err != nil {
		return "", err
	}
	if len(reply) == 0 {
		return "", fmt.Errorf("empty reply")
	}
	return reply[0].Content, nil
}
