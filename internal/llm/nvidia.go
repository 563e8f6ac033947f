package llm

import (
	"context"

	"github.com/google/uuid"
)

const nvidiaBaseURL = "https://integrate.api.nvidia.com/v1"

// NvidiaProvider serves DeepSeek-R1 hosted on NVIDIA's inference endpoint.
type NvidiaProvider struct {
	client *ChatClient
	model  ChatModel
}

func NewNvidiaProvider(apiKey string) *NvidiaProvider {
	return &NvidiaProvider{
		client: NewChatClient(nvidiaBaseURL, apiKey),
		model: ChatModel{
			ID:          uuid.NewString(),
			Model:       "nvdia-deepseek-r1",
			DisplayName: "DeepSeek-R1",
			Provider:    "NVDIA",
			Stream:      true,
			Description: "DeepSeek R1 in NVDIA",
		},
	}
}

func (p *NvidiaProvider) Model() ChatModel {
	return p.model
}

func (p *NvidiaProvider) request(conv Conversation) ChatCompletionRequest {
	temperature := float32(0.6)
	topP := float32(0.7)
	return ChatCompletionRequest{
		Model:       "deepseek-ai/deepseek-r1",
		Messages:    requestMessages(conv),
		Temperature: &temperature,
		TopP:        &topP,
		MaxTokens:   4096,
	}
}

func (p *NvidiaProvider) Complete(ctx context.Context, conv Conversation) ([]Message, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.request(conv))
	if err != nil {
		return nil, err
	}
	return assistantReply(resp), nil
}

func (p *NvidiaProvider) Stream(ctx context.Context, conv Conversation) (<-chan string, error) {
	return p.client.StreamContent(ctx, p.request(conv))
}
