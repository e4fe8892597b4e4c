package similarity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTFIDFCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want func(t *testing.T, got float64)
	}{
		{
			name: "identical documents",
			a:    "python developer building data pipelines",
			b:    "python developer building data pipelines",
			want: func(t *testing.T, got float64) { assert.InDelta(t, 1.0, got, 1e-9) },
		},
		{
			name: "disjoint documents",
			a:    "python pipelines",
			b:    "marketing budget",
			want: func(t *testing.T, got float64) { assert.Equal(t, 0.0, got) },
		},
		{
			name: "partial overlap",
			a:    "python backend services",
			b:    "python frontend design",
			want: func(t *testing.T, got float64) {
				assert.Greater(t, got, 0.0)
				assert.Less(t, got, 1.0)
			},
		},
		{
			name: "identical cyrillic documents",
			a:    "разработчик python строит конвейеры данных",
			b:    "разработчик python строит конвейеры данных",
			want: func(t *testing.T, got float64) { assert.InDelta(t, 1.0, got, 1e-9) },
		},
		{
			name: "accented latin terms",
			a:    "développeur café",
			b:    "développeur thé",
			want: func(t *testing.T, got float64) {
				assert.Greater(t, got, 0.0)
				assert.Less(t, got, 1.0)
			},
		},
		{
			name: "only stopwords",
			a:    "the and of",
			b:    "python",
			want: func(t *testing.T, got float64) { assert.Equal(t, 0.0, got) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, TFIDFCosine(tt.a, tt.b, DefaultMaxFeatures))
		})
	}
}

func TestTFIDFCosine_SharedTermWeight(t *testing.T) {
	// idf(shared)=1, idf(unique)=ln(1.5)+1; cosine = 1 / (1 + (ln(1.5)+1)^2)
	got := TFIDFCosine("alpha beta", "alpha gamma", DefaultMaxFeatures)
	u := 1.4054651081081644
	assert.InDelta(t, 1/(1+u*u), got, 1e-9)
}

func TestTopTerms_Limit(t *testing.T) {
	got := topTerms(map[string]float64{"a": 3, "b": 1, "c": 2}, 2)
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float64{1}, []float64{1, 2}))
	assert.InDelta(t, -1.0, Cosine([]float64{1, 0}, []float64{-1, 0}), 1e-9)
}

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(0)
	ctx := context.Background()

	a, err := e.Embed(ctx, "Senior Go engineer with Kubernetes experience")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "Senior Go engineer with Kubernetes experience")
	require.NoError(t, err)

	assert.Len(t, a, DefaultHashDimensions)
	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, Cosine(a, b), 1e-9)
}

func TestHashEmbedder_Empty(t *testing.T) {
	v, err := NewHashEmbedder(16).Embed(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, v, 16)
	for _, x := range v {
		assert.Equal(t, 0.0, x)
	}
}

func TestHashEmbedder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHashEmbedder(16).Embed(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Relevance(t *testing.T) {
	eng := NewEngine(nil)
	ctx := context.Background()

	same, err := eng.Relevance(ctx, "python data engineer", "python data engineer")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same.TFIDFScore, 1e-9)
	assert.InDelta(t, 1.0, same.SemanticScore, 1e-9)
	assert.InDelta(t, 0.7, same.CombinedScore, 1e-9)

	related, err := eng.Relevance(ctx, "python data engineer", "java data analyst")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, related.TFIDFScore, 0.0)
	assert.LessOrEqual(t, related.TFIDFScore, 1.0)
	assert.GreaterOrEqual(t, related.SemanticScore, 0.0)
	assert.LessOrEqual(t, related.SemanticScore, 1.0)
	assert.Less(t, related.CombinedScore, same.CombinedScore)
}

func TestEngine_RelevanceEmptyInput(t *testing.T) {
	eng := NewEngine(&StaticEmbedder{Err: errors.New("should not be called")})

	got, err := eng.Relevance(context.Background(), "  ", "python")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestEngine_ClampsNegativeCosine(t *testing.T) {
	eng := NewEngine(&StaticEmbedder{Vectors: map[string][]float64{
		"alpha": {1, 0},
		"beta":  {-1, 0},
	}})

	got, err := eng.Relevance(context.Background(), "alpha", "beta")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.SemanticScore)
	assert.Equal(t, 0.0, got.TFIDFScore)
	assert.Equal(t, 0.0, got.CombinedScore)
}

func TestEngine_EmbedderError(t *testing.T) {
	eng := NewEngine(&StaticEmbedder{Err: errors.New("model unavailable")})

	_, err := eng.Relevance(context.Background(), "python", "python")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestEngine_DimensionMismatch(t *testing.T) {
	eng := NewEngine(&StaticEmbedder{Vectors: map[string][]float64{
		"alpha": {1, 0},
		"beta":  {1, 0, 0},
	}})

	_, err := eng.Relevance(context.Background(), "alpha", "beta")
	require.Error(t, err)
}

func TestEngine_CustomWeights(t *testing.T) {
	eng := NewEngine(nil, WithWeights(Weights{Semantic: 0.5, TFIDF: 0.5}))

	got, err := eng.Relevance(context.Background(), "go", "go")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.CombinedScore, 1e-9)
	assert.Equal(t, "hash", eng.EmbedderName())
}
