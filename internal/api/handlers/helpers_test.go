package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lonnieqin/chatapi/internal/api/middleware"
	"github.com/lonnieqin/chatapi/internal/api/services"
	"github.com/lonnieqin/chatapi/internal/models"
	"github.com/lonnieqin/chatapi/internal/repositories"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// envelope mirrors utils.Envelope with the data left raw so each test can
// decode it into its own shape.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, token string) models.User {
	t.Helper()
	hashed, err := services.HashPassword("hunter2")
	require.NoError(t, err)
	user := models.User{
		Email:           email,
		Username:        email,
		Password:        hashed,
		AccessToken:     token,
		TokenExpireDate: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// postJSON drives a handler with a JSON body and optional headers.
func postJSON(t *testing.T, handler http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

// blogRouter wires the blog routes the way the real router does, including
// the API_KEY middleware on the write endpoints.
func blogRouter(db *gorm.DB) http.Handler {
	auth := services.NewAuthenticator(db)
	apiKey := middleware.APIKeyAuth(auth)

	blogHandler := &BlogHandler{DB: db}
	blogV2Handler := &BlogV2Handler{DB: db}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /all_blogs/", blogHandler.All)
	mux.HandleFunc("POST /blogs/user/{user_id}", blogHandler.ByUser)
	mux.HandleFunc("POST /blogs/{blog_id}", blogHandler.ByID)
	mux.HandleFunc("POST /blogs/v2/user/{user_id}", blogV2Handler.ByUser)
	mux.HandleFunc("POST /blogs/v2/{blog_id}", blogV2Handler.ByID)
	mux.Handle("POST /blogs/", apiKey(http.HandlerFunc(blogHandler.Create)))
	mux.Handle("POST /blogs/edit/", apiKey(http.HandlerFunc(blogHandler.Edit)))
	mux.Handle("POST /blogs/delete/", apiKey(http.HandlerFunc(blogHandler.Delete)))
	mux.Handle("POST /blogs/v2/", apiKey(http.HandlerFunc(blogV2Handler.Create)))
	mux.Handle("POST /blogs/v2/edit/", apiKey(http.HandlerFunc(blogV2Handler.Edit)))
	mux.Handle("POST /blogs/v2/delete/", apiKey(http.HandlerFunc(blogV2Handler.Delete)))
	return mux
}
