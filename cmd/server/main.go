package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/lonnieqin/chatapi/internal/api"
	"github.com/lonnieqin/chatapi/internal/api/services"
	"github.com/lonnieqin/chatapi/internal/config"
	"github.com/lonnieqin/chatapi/internal/llm"
	"github.com/lonnieqin/chatapi/internal/repositories"
)

func main() {
	cfg := config.Load()

	db, err := repositories.Connect(cfg.PostgresURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	log.Println("Successfully connected to database")

	registry := llm.NewToolRegistry()
	if cfg.Vendors.TavilyAPIKey != "" {
		registry.Register(llm.NewTavilyClient(cfg.Vendors.TavilyAPIKey).SearchTool())
	}

	// Registration order matters: the first provider matching a model key
	// wins, and the first provider overall is the fallback target when
	// CHAT_FALLBACK_DEFAULT is enabled.
	dispatcher := llm.NewDispatcher(cfg.ChatFallback,
		llm.NewAzureOpenAIProvider(cfg.Vendors.AzureOpenAIEndpoint, cfg.Vendors.AzureOpenAIAPIKey),
		llm.NewNvidiaProvider(cfg.Vendors.NvidiaAPIKey),
		llm.NewFunctionCallingProvider(cfg.Vendors.AzureOpenAIEndpoint, cfg.Vendors.AzureOpenAIAPIKey, registry),
		llm.NewDeepSeekProvider(llm.DeepSeekEndpoint, cfg.Vendors.DeepSeekAPIKey),
		llm.NewGeminiProvider(cfg.Vendors.GeminiAPIKey),
	)

	handler := api.SetupRouter(api.Deps{
		Config:     cfg,
		DB:         db,
		Dispatcher: dispatcher,
		Auth:       services.NewAuthenticator(db),
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
		// No WriteTimeout: SSE streams and websockets stay open for the
		// duration of generation. Slow-client protection comes from the
		// header read timeout instead.
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Starting chat API server on port: %s", cfg.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", cfg.Port, err)
	}
}
