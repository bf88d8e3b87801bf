package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// completionTemperature controls randomness of the chat completion (0-2,
// lower is more focused).
const completionTemperature = 0.7

// OpenAIService implements Embedder and Completer against the OpenAI API.
type OpenAIService struct {
	client     openai.Client
	embedModel string
	chatModel  string
}

// NewOpenAIService creates an OpenAI-backed embedding and completion client.
func NewOpenAIService(apiKey, embedModel, chatModel string, httpClient *http.Client) *OpenAIService {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAIService{
		client:     openai.NewClient(opts...),
		embedModel: embedModel,
		chatModel:  chatModel,
	}
}

// EmbedText generates an embedding vector for the given text.
func (o *OpenAIService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(o.embedModel),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings call failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings response contained no data")
	}

	embedding := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

// Complete submits the prompt as a single user message and returns the first
// choice's content.
func (o *OpenAIService) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(o.chatModel),
		Temperature: openai.Float(completionTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
