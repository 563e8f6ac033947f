package llm

import "fmt"

// Message is a single conversation turn in the generic request shape shared
// by every provider. Order is chronological and forwarded as-is.
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant" | "tool"
	Content string `json:"content"`
	Files   []File `json:"files,omitempty"`
}

// File is an inline attachment on a message.
type File struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64 payload
}

// Conversation is the transient chat request; it is never persisted.
type Conversation struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// ChatModel describes a selectable model for client-side pickers. IDs are
// generated fresh at construction and are not stable across restarts.
type ChatModel struct {
	ID          string `json:"id"`
	Model       string `json:"model"`
	DisplayName string `json:"displayName"`
	Provider    string `json:"provider"`
	Stream      bool   `json:"stream"`
	Description string `json:"description"`
}

// UpstreamError carries a vendor's non-2xx status and body text so the HTTP
// facade can surface them verbatim.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request failed with status %d: %s", e.StatusCode, e.Body)
}
