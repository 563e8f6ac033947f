package llm

import (
	"context"

	"github.com/google/uuid"
)

const (
	azureAPIVersion = "2024-05-01-preview"
	gpt4oMiniDesc   = "GPT-4o-Mini, a cutting-edge AI language model designed to offer powerful AI capabilities in a compact and accessible format. Building on the successes of its predecessors, GPT-4o-Mini retains the advanced understanding and language generation abilities that have made the GPT series a favorite among developers and researchers."
)

// AzureOpenAIProvider serves gpt-4o-mini through an Azure OpenAI deployment.
type AzureOpenAIProvider struct {
	client     *ChatClient
	deployment string
	model      ChatModel
}

func NewAzureOpenAIProvider(endpoint, apiKey string) *AzureOpenAIProvider {
	const deployment = "gpt-4o-mini"
	return &AzureOpenAIProvider{
		client:     NewAzureChatClient(endpoint, deployment, apiKey, azureAPIVersion),
		deployment: deployment,
		model: ChatModel{
			ID:          uuid.NewString(),
			Model:       "gpt-4o-mini",
			DisplayName: "gpt-4o-mini",
			Provider:    "OpenAI",
			Stream:      true,
			Description: gpt4oMiniDesc,
		},
	}
}

func (p *AzureOpenAIProvider) Model() ChatModel {
	return p.model
}

func (p *AzureOpenAIProvider) Complete(ctx context.Context, conv Conversation) ([]Message, error) {
	resp, err := p.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model:    p.deployment,
		Messages: requestMessages(conv),
	})
	if err != nil {
		return nil, err
	}
	return assistantReply(resp), nil
}

func (p *AzureOpenAIProvider) Stream(ctx context.Context, conv Conversation) (<-chan string, error) {
	return p.client.StreamContent(ctx, ChatCompletionRequest{
		Model:    p.deployment,
		Messages: requestMessages(conv),
	})
}

// assistantReply collapses a completion response into the generic reply
// shape: a single assistant message.
func assistantReply(resp *ChatCompletionResponse) []Message {
	if len(resp.Choices) == 0 {
		return nil
	}
	msg := resp.Choices[0].Message
	role := msg.Role
	if role == "" {
		role = "assistant"
	}
	return []Message{{Role: role, Content: msg.Content}}
}
