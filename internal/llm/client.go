package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// embedFunc calls the provider for one text
type embedFunc func(ctx context.Context, text string) ([]float32, error)

// GeminiEmbedder implements similarity.Embedder with Gemini embeddings
type GeminiEmbedder struct {
	client *genai.Client
	config *Config
	embed  embedFunc
}

// NewGeminiEmbedder creates a new Gemini embedding client
func NewGeminiEmbedder(ctx context.Context, config *Config, apiKey string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.EmbeddingModel(config.Model)
	model.TaskType = taskType(config.TaskType)

	return &GeminiEmbedder{
		client: client,
		config: config,
		embed: func(ctx context.Context, text string) ([]float32, error) {
			resp, err := model.EmbedContent(ctx, genai.Text(text))
			if err != nil {
				return nil, err
			}
			if resp == nil || resp.Embedding == nil {
				return nil, fmt.Errorf("no embedding in response")
			}
			return resp.Embedding.Values, nil
		},
	}, nil
}

// Name returns the provider and model, e.g. "gemini/text-embedding-004"
func (e *GeminiEmbedder) Name() string {
	return fmt.Sprintf("%s/%s", e.config.Provider, e.config.Model)
}

// Embed returns the embedding of text as float64 values
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	values, err := e.embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty embedding returned by %s", e.Name())
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out, nil
}

// Close releases resources held by the client
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func taskType(name string) genai.TaskType {
	switch name {
	case "retrieval_document":
		return genai.TaskTypeRetrievalDocument
	case "retrieval_query":
		return genai.TaskTypeRetrievalQuery
	case "clustering":
		return genai.TaskTypeClustering
	case "classification":
		return genai.TaskTypeClassification
	default:
		return genai.TaskTypeSemanticSimilarity
	}
}
