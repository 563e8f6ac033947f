package api

import (
	"fmt"
	"net/http"

	_ "github.com/lonnieqin/chatapi/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/lonnieqin/chatapi/internal/api/handlers"
	"github.com/lonnieqin/chatapi/internal/api/middleware"
	"github.com/lonnieqin/chatapi/internal/api/services"
	"github.com/lonnieqin/chatapi/internal/config"
	"github.com/lonnieqin/chatapi/internal/llm"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// Deps carries everything the route layer needs; all of it is constructed in
// main and injected here.
type Deps struct {
	Config     config.Config
	DB         *gorm.DB
	Dispatcher *llm.Dispatcher
	Auth       *services.Authenticator
}

func SetupRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()
	c := cors.New(deps.Config.CorsConfig)

	authHandler := &handlers.AuthHandler{DB: deps.DB}
	blogHandler := &handlers.BlogHandler{DB: deps.DB}
	blogV2Handler := &handlers.BlogV2Handler{DB: deps.DB}
	feedbackHandler := &handlers.FeedbackHandler{DB: deps.DB}
	chatHandler := &handlers.ChatHandler{Dispatcher: deps.Dispatcher}
	wsHandler := handlers.NewWSHandler(deps.Auth, deps.Dispatcher)

	apiKey := middleware.APIKeyAuth(deps.Auth)

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mux.HandleFunc("POST /signup/", authHandler.Signup)
	mux.HandleFunc("POST /login/", authHandler.Login)

	mux.HandleFunc("POST /chat-models/", chatHandler.Models)
	mux.HandleFunc("POST /chat/completions/", chatHandler.Completions)

	mux.HandleFunc("POST /feedback/", feedbackHandler.Create)
	mux.HandleFunc("POST /feedback/user/{user_id}", feedbackHandler.ByUser)

	mux.HandleFunc("POST /all_blogs/", blogHandler.All)
	mux.HandleFunc("POST /blogs/user/{user_id}", blogHandler.ByUser)
	mux.HandleFunc("POST /blogs/{blog_id}", blogHandler.ByID)
	mux.HandleFunc("POST /blogs/v2/user/{user_id}", blogV2Handler.ByUser)
	mux.HandleFunc("POST /blogs/v2/{blog_id}", blogV2Handler.ByID)

	mux.HandleFunc("GET /ws", wsHandler.Relay)
	mux.HandleFunc("GET /ollama", wsHandler.AuthRelay)

	// ---------- PROTECTED ROUTES (API_KEY header) ----------
	mux.Handle("POST /blogs/", apiKey(http.HandlerFunc(blogHandler.Create)))
	mux.Handle("POST /blogs/edit/", apiKey(http.HandlerFunc(blogHandler.Edit)))
	mux.Handle("POST /blogs/delete/", apiKey(http.HandlerFunc(blogHandler.Delete)))
	mux.Handle("POST /blogs/v2/", apiKey(http.HandlerFunc(blogV2Handler.Create)))
	mux.Handle("POST /blogs/v2/edit/", apiKey(http.HandlerFunc(blogV2Handler.Edit)))
	mux.Handle("POST /blogs/v2/delete/", apiKey(http.HandlerFunc(blogV2Handler.Delete)))

	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
