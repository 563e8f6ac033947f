package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/lonnieqin/chatapi/internal/api/services"
	"github.com/lonnieqin/chatapi/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWSServer(t *testing.T, h *WSHandler) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", h.Relay)
	mux.HandleFunc("GET /ollama", h.AuthRelay)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func dialWS(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(data)
}

func TestRelayBetweenUsers(t *testing.T) {
	db := newTestDB(t)
	h := NewWSHandler(services.NewAuthenticator(db), llm.NewDispatcher(false))
	server := newWSServer(t, h)

	alice := dialWS(t, server, "/ws?user_id=1")
	bob := dialWS(t, server, "/ws?user_id=2")

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte(`{"to":"2","message":"hi bob"}`)))

	// The target receives the frame and the sender gets an echo.
	assert.Equal(t, "1: hi bob", readText(t, bob))
	assert.Equal(t, "1: hi bob", readText(t, alice))
}

func TestRelayToOfflineUser(t *testing.T) {
	db := newTestDB(t)
	h := NewWSHandler(services.NewAuthenticator(db), llm.NewDispatcher(false))
	server := newWSServer(t, h)

	alice := dialWS(t, server, "/ws?user_id=1")
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte(`{"to":"99","message":"anyone?"}`)))

	// Delivery to an absent target is dropped; the sender still gets the echo.
	assert.Equal(t, "1: anyone?", readText(t, alice))
}

func TestRelayInvalidJSON(t *testing.T) {
	db := newTestDB(t)
	h := NewWSHandler(services.NewAuthenticator(db), llm.NewDispatcher(false))
	server := newWSServer(t, h)

	alice := dialWS(t, server, "/ws?user_id=1")
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, "Invalid JSON format", readText(t, alice))
}

func TestRelayMissingFields(t *testing.T) {
	db := newTestDB(t)
	h := NewWSHandler(services.NewAuthenticator(db), llm.NewDispatcher(false))
	server := newWSServer(t, h)

	alice := dialWS(t, server, "/ws?user_id=1")
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte(`{"to":"","message":""}`)))
	assert.Equal(t, "Invalid message format", readText(t, alice))
}

func TestRelayRequiresUserID(t *testing.T) {
	db := newTestDB(t)
	h := NewWSHandler(services.NewAuthenticator(db), llm.NewDispatcher(false))
	server := newWSServer(t, h)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Messages addressed to the model go through the dispatcher, and the reply
// comes back on the sender's own socket after the echo.
func TestRelayToModel(t *testing.T) {
	db := newTestDB(t)
	d := llm.NewDispatcher(false, newStubProvider("gpt-4o-mini", "hello human", false))
	h := NewWSHandler(services.NewAuthenticator(db), d)
	server := newWSServer(t, h)

	alice := dialWS(t, server, "/ws?user_id=1")
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte(`{"to":"gpt-4o-mini","message":"hi"}`)))

	assert.Equal(t, "1: hi", readText(t, alice))
	assert.Equal(t, "gpt-4o-mini: hello human", readText(t, alice))
}

func TestAuthRelayRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice@example.com", "token-1")
	h := NewWSHandler(services.NewAuthenticator(db), llm.NewDispatcher(false))
	server := newWSServer(t, h)

	url := "ws" + strings.TrimPrefix(server.URL, "http") +
		fmt.Sprintf("/ollama?user_id=%d&access_token=wrong", user.ID)
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRelayAcceptsValidToken(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice@example.com", "token-1")
	h := NewWSHandler(services.NewAuthenticator(db), llm.NewDispatcher(false))
	server := newWSServer(t, h)

	conn := dialWS(t, server, fmt.Sprintf("/ollama?user_id=%d&access_token=token-1", user.ID))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"to":"2","message":"hi"}`)))
	assert.Equal(t, fmt.Sprintf("%d: hi", user.ID), readText(t, conn))
}
