package llm

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// FunctionCallingProvider is the tool-enabled gpt-4o-mini variant. When the
// vendor requests tool calls it invokes the local registry once per call,
// appends each result as a role="tool" message and resubmits the augmented
// conversation exactly once before returning the final assistant message.
type FunctionCallingProvider struct {
	client     *ChatClient
	registry   *ToolRegistry
	deployment string
	model      ChatModel
}

func NewFunctionCallingProvider(endpoint, apiKey string, registry *ToolRegistry) *FunctionCallingProvider {
	const deployment = "gpt-4o-mini"
	return &FunctionCallingProvider{
		client:     NewAzureChatClient(endpoint, deployment, apiKey, azureAPIVersion),
		registry:   registry,
		deployment: deployment,
		model: ChatModel{
			ID:          uuid.NewString(),
			Model:       "gpt-4o-mini-function-calling",
			DisplayName: "gpt-4o-mini(Function Calling)",
			Provider:    "OpenAI",
			Stream:      false,
			Description: gpt4oMiniDesc,
		},
	}
}

func (p *FunctionCallingProvider) Model() ChatModel {
	return p.model
}

func (p *FunctionCallingProvider) Complete(ctx context.Context, conv Conversation) ([]Message, error) {
	messages := requestMessages(conv)

	resp, err := p.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model:      p.deployment,
		Messages:   messages,
		Tools:      p.registry.Definitions(),
		ToolChoice: "auto",
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("vendor returned no choices")
	}

	reply := resp.Choices[0].Message
	if len(reply.ToolCalls) == 0 {
		return assistantReply(resp), nil
	}

	messages = append(messages, RequestMessage{
		Role:      reply.Role,
		Content:   reply.Content,
		ToolCalls: reply.ToolCalls,
	})
	for _, call := range reply.ToolCalls {
		result, err := p.registry.Invoke(ctx, call.Function.Name, call.Function.Arguments)
		if errors.Is(err, ErrUnknownTool) {
			// Unrecognized tools are skipped: no tool message is appended.
			continue
		}
		if err != nil {
			return nil, err
		}
		messages = append(messages, RequestMessage{
			Role:       "tool",
			ToolCallID: call.ID,
			Name:       call.Function.Name,
			Content:    result,
		})
	}

	final, err := p.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model:    p.deployment,
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}
	return assistantReply(final), nil
}

func (p *FunctionCallingProvider) Stream(ctx context.Context, conv Conversation) (<-chan string, error) {
	return nil, ErrStreamingNotSupported
}
