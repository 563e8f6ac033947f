package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const tavilyBaseURL = "https://api.tavily.com"

// TavilyClient calls the Tavily web-search API. It backs the "search" tool.
type TavilyClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewTavilyClient(apiKey string) *TavilyClient {
	return &TavilyClient{
		baseURL: tavilyBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// Search runs a query and returns the raw JSON result document.
func (t *TavilyClient) Search(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tavily search failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}

// SearchTool adapts the client into a registry entry.
func (t *TavilyClient) SearchTool() (Tool, ToolFunc) {
	def := Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        "search",
			Description: "Search the web for up-to-date information",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query",
					},
				},
				"required": []string{"query"},
			},
		},
	}
	fn := func(ctx context.Context, args json.RawMessage) (string, error) {
		var input struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(args, &input); err != nil {
			return "", fmt.Errorf("invalid search arguments: %w", err)
		}
		return t.Search(ctx, input.Query)
	}
	return def, fn
}
