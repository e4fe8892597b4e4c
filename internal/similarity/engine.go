package similarity

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Weights controls how the component scores are combined.
// SkillMatch is reserved: Relevance never applies it.
type Weights struct {
	Semantic   float64
	TFIDF      float64
	SkillMatch float64
}

// DefaultWeights returns the standard 0.4 semantic / 0.3 tfidf split.
func DefaultWeights() Weights {
	return Weights{Semantic: 0.4, TFIDF: 0.3, SkillMatch: 0.3}
}

// Engine computes text relevance. It holds no per-call state and is safe for concurrent use.
type Engine struct {
	embedder    Embedder
	weights     Weights
	maxFeatures int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights overrides the combination weights.
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithMaxFeatures overrides the TF-IDF vocabulary cap.
func WithMaxFeatures(n int) Option {
	return func(e *Engine) { e.maxFeatures = n }
}

// NewEngine creates an Engine backed by embedder. A nil embedder uses a HashEmbedder.
func NewEngine(embedder Embedder, opts ...Option) *Engine {
	if embedder == nil {
		embedder = NewHashEmbedder(DefaultHashDimensions)
	}
	e := &Engine{
		embedder:    embedder,
		weights:     DefaultWeights(),
		maxFeatures: DefaultMaxFeatures,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EmbedderName reports which embedder backs the engine.
func (e *Engine) EmbedderName() string {
	return e.embedder.Name()
}

// Relevance scores a against b. Component scores are clamped to [0,1] before combining.
// Blank input scores zero without consulting the embedder.
func (e *Engine) Relevance(ctx context.Context, a, b string) (types.KeywordSimilarity, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return types.KeywordSimilarity{}, nil
	}

	tfidf := clamp01(TFIDFCosine(a, b, e.maxFeatures))

	va, err := e.embedder.Embed(ctx, a)
	if err != nil {
		return types.KeywordSimilarity{}, fmt.Errorf("failed to embed first text with %s: %w", e.embedder.Name(), err)
	}
	vb, err := e.embedder.Embed(ctx, b)
	if err != nil {
		return types.KeywordSimilarity{}, fmt.Errorf("failed to embed second text with %s: %w", e.embedder.Name(), err)
	}
	if len(va) != len(vb) {
		return types.KeywordSimilarity{}, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(va), len(vb))
	}
	semantic := clamp01(Cosine(va, vb))

	return types.KeywordSimilarity{
		TFIDFScore:    tfidf,
		SemanticScore: semantic,
		CombinedScore: e.weights.Semantic*semantic + e.weights.TFIDF*tfidf,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
