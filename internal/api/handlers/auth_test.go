package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/lonnieqin/chatapi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	db := newTestDB(t)
	h := &AuthHandler{DB: db}

	rec := postJSON(t, http.HandlerFunc(h.Signup), "/signup/", map[string]string{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "hunter2",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "User signed up successfully!", env.Message)

	var resp models.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.NotZero(t, resp.UserID)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.NotEmpty(t, resp.AccessToken)

	// The password must never leave the server, hashed or otherwise.
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.NotContains(t, rec.Body.String(), "password")

	var stored models.User
	require.NoError(t, db.First(&stored, resp.UserID).Error)
	assert.NotEqual(t, "hunter2", stored.Password)
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice@example.com", "token-1")
	h := &AuthHandler{DB: db}

	rec := postJSON(t, http.HandlerFunc(h.Signup), "/signup/", map[string]string{
		"email":    "alice@example.com",
		"username": "alice2",
		"password": "hunter2",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists.", decodeDetail(t, rec))
}

func TestSignupMissingFields(t *testing.T) {
	db := newTestDB(t)
	h := &AuthHandler{DB: db}

	rec := postJSON(t, http.HandlerFunc(h.Signup), "/signup/", map[string]string{
		"email": "alice@example.com",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid input", decodeDetail(t, rec))
}

func TestLoginRotatesToken(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice@example.com", "token-1")
	h := &AuthHandler{DB: db}

	rec := postJSON(t, http.HandlerFunc(h.Login), "/login/", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "User login successfully!", env.Message)

	var resp models.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, "token-1", resp.AccessToken, "login must issue a fresh token")

	// The rotated token is persisted; the old one is gone.
	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, resp.AccessToken, stored.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice@example.com", "token-1")
	h := &AuthHandler{DB: db}

	rec := postJSON(t, http.HandlerFunc(h.Login), "/login/", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password.", decodeDetail(t, rec))
}

func TestLoginUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	h := &AuthHandler{DB: db}

	rec := postJSON(t, http.HandlerFunc(h.Login), "/login/", map[string]string{
		"email":    "nobody@example.com",
		"password": "hunter2",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password.", decodeDetail(t, rec))
}
