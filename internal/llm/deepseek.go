package llm

import (
	"context"

	"github.com/google/uuid"
)

// DeepSeekEndpoint is the Azure AI serverless deployment hosting DeepSeek-R1.
const DeepSeekEndpoint = "https://deepseek-r1-zxxnw.eastus2.models.ai.azure.com"

const deepSeekDesc = "DeepSeek-R1 excels at reasoning tasks using a step-by-step training process, such as language, scientific reasoning, and coding tasks. It features 671B total parameters with 37B active parameters, and 128k context length."

// DeepSeekProvider serves DeepSeek-R1 through its Azure AI serverless
// endpoint, which speaks the OpenAI chat/completions dialect with a bearer key.
type DeepSeekProvider struct {
	client *ChatClient
	model  ChatModel
}

func NewDeepSeekProvider(endpoint, apiKey string) *DeepSeekProvider {
	return &DeepSeekProvider{
		client: NewChatClient(endpoint, apiKey),
		model: ChatModel{
			ID:          uuid.NewString(),
			Model:       "DeepSeek-R1",
			DisplayName: "DeepSeek-R1",
			Provider:    "DeepSeek",
			Stream:      true,
			Description: deepSeekDesc,
		},
	}
}

func (p *DeepSeekProvider) Model() ChatModel {
	return p.model
}

func (p *DeepSeekProvider) request(conv Conversation) ChatCompletionRequest {
	return ChatCompletionRequest{
		Model:     "DeepSeek-R1",
		Messages:  requestMessages(conv),
		MaxTokens: 2048,
	}
}

func (p *DeepSeekProvider) Complete(ctx context.Context, conv Conversation) ([]Message, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.request(conv))
	if err != nil {
		return nil, err
	}
	return assistantReply(resp), nil
}

func (p *DeepSeekProvider) Stream(ctx context.Context, conv Conversation) (<-chan string, error) {
	return p.client.StreamContent(ctx, p.request(conv))
}
