package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider serves gemini-2.0-flash through the Google generative
// language REST API. The Gemini wire format has no system/assistant roles:
// user turns stay "user", everything else becomes "model".
type GeminiProvider struct {
	baseURL   string
	apiKey    string
	modelName string
	client    *http.Client
	model     ChatModel
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		baseURL:   geminiBaseURL,
		apiKey:    apiKey,
		modelName: "gemini-2.0-flash",
		client:    &http.Client{Timeout: DefaultTimeout},
		model: ChatModel{
			ID:          uuid.NewString(),
			Model:       "gemini-2.0-flash",
			DisplayName: "Gemini 2.0 Flash",
			Provider:    "Google",
			Stream:      false,
			Description: "Gemini",
		},
	}
}

func (p *GeminiProvider) Model() ChatModel {
	return p.model
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig map[string]any  `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *GeminiProvider) Complete(ctx context.Context, conv Conversation) ([]Message, error) {
	contents := make([]geminiContent, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		role := "model"
		if m.Role == "user" {
			role = "user"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}

	payload, err := json.Marshal(geminiRequest{
		Contents: contents,
		GenerationConfig: map[string]any{
			"temperature":      1,
			"topP":             0.95,
			"topK":             40,
			"maxOutputTokens":  8192,
			"responseMimeType": "text/plain",
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.modelName, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return []Message{{Role: "assistant", Content: text.String()}}, nil
}

func (p *GeminiProvider) Stream(ctx context.Context, conv Conversation) (<-chan string, error) {
	return nil, ErrStreamingNotSupported
}
