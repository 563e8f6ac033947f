package llm

import (
	"context"
	"errors"
)

// ErrStreamingNotSupported is returned by Stream on providers whose
// descriptor advertises Stream=false.
var ErrStreamingNotSupported = errors.New("provider does not support streaming")

// Provider adapts the generic Conversation to one vendor's API.
//
// Complete returns the full reply as assistant messages. Stream returns a
// lazy, single-pass channel of text chunks that is closed when generation
// ends; cancelling ctx stops the upstream read and releases the vendor
// connection. Neither path retries; vendor failures surface as *UpstreamError
// and transport failures as plain errors.
type Provider interface {
	Model() ChatModel
	Complete(ctx context.Context, conv Conversation) ([]Message, error)
	Stream(ctx context.Context, conv Conversation) (<-chan string, error)
}
