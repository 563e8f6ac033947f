package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every outbound vendor call. Streaming responses are
// covered too: the timeout applies to the whole exchange, matching the 120s
// budget the service has always given slow models.
const DefaultTimeout = 120 * time.Second

// RequestMessage is one turn in the OpenAI-compatible wire format.
type RequestMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a vendor-requested invocation of a local function.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Tool advertises a callable function to the vendor.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type ChatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []RequestMessage `json:"messages"`
	MaxTokens   uint32           `json:"max_tokens,omitempty"`
	Temperature *float32         `json:"temperature,omitempty"`
	TopP        *float32         `json:"top_p,omitempty"`
	Stream      bool             `json:"stream,omitempty"`
	Tools       []Tool           `json:"tools,omitempty"`
	ToolChoice  string           `json:"tool_choice,omitempty"`
}

type ResponseMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

type ChatChoice struct {
	Index        uint32           `json:"index"`
	Message      ResponseMessage  `json:"message"`
	Delta        *ResponseMessage `json:"delta,omitempty"`
	FinishReason string           `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     uint32 `json:"prompt_tokens"`
	CompletionTokens uint32 `json:"completion_tokens"`
	TotalTokens      uint32 `json:"total_tokens"`
}

type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created uint64       `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

// ChatClient talks to one OpenAI-compatible chat/completions endpoint. The
// zero value is not usable; construct with NewChatClient or NewAzureChatClient.
type ChatClient struct {
	endpoint string
	headers  map[string]string
	client   *http.Client
}

// NewChatClient targets a plain OpenAI-compatible endpoint authenticated with
// a bearer key. baseURL is the API root, e.g. "https://integrate.api.nvidia.com/v1".
func NewChatClient(baseURL, apiKey string) *ChatClient {
	return &ChatClient{
		endpoint: strings.TrimSuffix(baseURL, "/") + "/chat/completions",
		headers: map[string]string{
			"Authorization": "Bearer " + apiKey,
		},
		client: &http.Client{Timeout: DefaultTimeout},
	}
}

// NewAzureChatClient targets an Azure OpenAI deployment, which authenticates
// with an api-key header and versions the API through a query parameter.
func NewAzureChatClient(endpoint, deployment, apiKey, apiVersion string) *ChatClient {
	u := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimSuffix(endpoint, "/"), url.PathEscape(deployment), url.QueryEscape(apiVersion))
	return &ChatClient{
		endpoint: u,
		headers: map[string]string{
			"api-key": apiKey,
		},
		client: &http.Client{Timeout: DefaultTimeout},
	}
}

func (c *ChatClient) post(ctx context.Context, body any) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	return resp, nil
}

// CreateChatCompletion performs a buffered, non-streaming completion.
func (c *ChatClient) CreateChatCompletion(ctx context.Context, request ChatCompletionRequest) (*ChatCompletionResponse, error) {
	request.Stream = false
	resp, err := c.post(ctx, request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var response ChatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &response, nil
}

// CreateChatCompletionStream runs a streaming completion, invoking handler
// once per SSE chunk until the [DONE] sentinel or an error.
func (c *ChatClient) CreateChatCompletionStream(ctx context.Context, request ChatCompletionRequest, handler func(ChatCompletionResponse) error) error {
	request.Stream = true
	resp, err := c.post(ctx, request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || !strings.HasPrefix(line, "data: ") {
			continue
		}
		if line == "data: [DONE]" {
			break
		}

		var chunk ChatCompletionResponse
		if err := json.Unmarshal([]byte(line[6:]), &chunk); err != nil {
			return fmt.Errorf("failed to unmarshal stream chunk: %w", err)
		}
		if err := handler(chunk); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading stream: %w", err)
	}
	return nil
}

// StreamContent starts a streaming completion and returns a channel of text
// deltas. The channel is closed when the vendor finishes or ctx is cancelled;
// either way the upstream body is closed so the vendor call never outlives
// its consumer.
func (c *ChatClient) StreamContent(ctx context.Context, request ChatCompletionRequest) (<-chan string, error) {
	request.Stream = true
	resp, err := c.post(ctx, request)
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 8)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}
			if line == "data: [DONE]" {
				return
			}

			var chunk ChatCompletionResponse
			if err := json.Unmarshal([]byte(line[6:]), &chunk); err != nil {
				return
			}
			delta := chunkContent(chunk)
			if delta == "" {
				continue
			}
			select {
			case ch <- delta:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// chunkContent pulls the text fragment out of a streamed chunk.
func chunkContent(chunk ChatCompletionResponse) string {
	if len(chunk.Choices) == 0 {
		return ""
	}
	choice := chunk.Choices[0]
	if choice.Delta != nil {
		return choice.Delta.Content
	}
	return choice.Message.Content
}

// requestMessages converts the generic conversation turns into the
// OpenAI-compatible wire shape. Attachments are not forwarded; the
// OpenAI-compatible vendors only accept role/content pairs here.
func requestMessages(conv Conversation) []RequestMessage {
	messages := make([]RequestMessage, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		messages = append(messages, RequestMessage{Role: m.Role, Content: m.Content})
	}
	return messages
}
