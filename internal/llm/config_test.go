package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "text-embedding-004", config.Model)
}

func TestWithModel(t *testing.T) {
	original := DefaultConfig()
	modified := original.WithModel("embedding-001")

	// Original should be unchanged
	assert.Equal(t, DefaultEmbeddingModel, original.Model)
	assert.Equal(t, "embedding-001", modified.Model)
	assert.Equal(t, DefaultEmbeddingModel, original.WithModel("").Model)
}

func TestTaskType(t *testing.T) {
	assert.Equal(t, genai.TaskTypeSemanticSimilarity, taskType(""))
	assert.Equal(t, genai.TaskTypeRetrievalQuery, taskType("retrieval_query"))
	assert.Equal(t, genai.TaskTypeClustering, taskType("clustering"))
}

func TestNewGeminiEmbedder_RequiresKey(t *testing.T) {
	_, err := NewGeminiEmbedder(context.Background(), nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestGeminiEmbedder_Embed(t *testing.T) {
	e := &GeminiEmbedder{
		config: DefaultConfig(),
		embed: func(_ context.Context, text string) ([]float32, error) {
			return []float32{0.5, -0.25}, nil
		},
	}

	got, err := e.Embed(context.Background(), "python")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.25}, got)
	assert.Equal(t, "gemini/text-embedding-004", e.Name())
	assert.NoError(t, e.Close())
}

func TestGeminiEmbedder_EmbedErrors(t *testing.T) {
	failing := &GeminiEmbedder{
		config: DefaultConfig(),
		embed: func(context.Context, string) ([]float32, error) {
			return nil, errors.New("quota exceeded")
		},
	}
	_, err := failing.Embed(context.Background(), "python")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	empty := &GeminiEmbedder{
		config: DefaultConfig(),
		embed: func(context.Context, string) ([]float32, error) {
			return nil, nil
		},
	}
	_, err = empty.Embed(context.Background(), "python")
	assert.Error(t, err)
}
