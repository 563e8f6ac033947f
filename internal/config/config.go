package config

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// VendorConfig holds the per-provider credentials consumed by the chat layer.
type VendorConfig struct {
	AzureOpenAIAPIKey   string
	AzureOpenAIEndpoint string
	DeepSeekAPIKey      string
	NvidiaAPIKey        string
	GeminiAPIKey        string
	TavilyAPIKey        string
}

type Config struct {
	PostgresURL string
	Port        string
	Environment string
	// ChatFallback routes unknown chat models to the first registered
	// provider instead of failing with 400. Off unless explicitly enabled.
	ChatFallback bool
	CorsConfig   cors.Options
	Vendors      VendorConfig
}

// Load reads .env (when present) and assembles the configuration. The result
// is passed down explicitly; there is no package-level instance.
func Load() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	return Config{
		PostgresURL:  getEnv("POSTGRES_URL", ""),
		Port:         getEnv("PORT", "8000"),
		Environment:  getEnv("ENV", "development"),
		ChatFallback: getEnv("CHAT_FALLBACK_DEFAULT", "") == "true",
		CorsConfig:   CorsConfig(),
		Vendors: VendorConfig{
			// API_KEY is the legacy name for the Azure OpenAI credential;
			// AZURE_OPENAI_API_KEY wins when both are set.
			AzureOpenAIAPIKey:   getEnv("AZURE_OPENAI_API_KEY", getEnv("API_KEY", "")),
			AzureOpenAIEndpoint: getEnv("AZURE_OPENAI_ENDPOINT", "https://ai-lonnieqin6583ai982841037486.openai.azure.com"),
			DeepSeekAPIKey:      getEnv("DEEPSEEK_APIKEY", ""),
			NvidiaAPIKey:        getEnv("NVDIA_DEEPSEEK_API_KEY", ""),
			GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
			TavilyAPIKey:        getEnv("TAVILY_API_KEY", ""),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func CorsConfig() cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}
}
