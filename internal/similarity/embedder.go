package similarity

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/jonathan/resume-matcher/internal/parsing"
)

// Embedder turns text into a dense vector. Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Name() string
}

// DefaultHashDimensions matches the width of common small sentence-embedding models.
const DefaultHashDimensions = 384

// HashEmbedder is a deterministic local embedder based on feature hashing.
// Each stemmed unigram, adjacent-word bigram and character trigram is hashed to a signed
// bucket, and the resulting vector is L2-normalized.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a HashEmbedder with the given number of dimensions.
// Non-positive values fall back to DefaultHashDimensions.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return &HashEmbedder{dims: dims}
}

// Name identifies the embedder in logs.
func (e *HashEmbedder) Name() string {
	return "hash"
}

// Embed returns the hashed feature vector of text. Empty text yields a zero vector.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, e.dims)
	tokens := parsing.Preprocess(text, parsing.DefaultPreprocessOptions())

	for i, tok := range tokens {
		e.add(vec, "w:"+tok, 1.0)
		if i > 0 {
			e.add(vec, "b:"+tokens[i-1]+" "+tok, 0.5)
		}
		padded := " " + tok + " "
		for j := 0; j+3 <= len(padded); j++ {
			e.add(vec, "c:"+padded[j:j+3], 0.25)
		}
	}

	normalize(vec)
	return vec, nil
}

// add hashes a feature into vec with a sign taken from the hash
func (e *HashEmbedder) add(vec []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

func normalize(vec []float64) {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
}

// StaticEmbedder returns fixed vectors keyed by exact text. It is meant for tests and
// for wiring precomputed embeddings.
type StaticEmbedder struct {
	Vectors map[string][]float64
	Err     error
}

// Name identifies the embedder in logs.
func (s *StaticEmbedder) Name() string {
	return "static"
}

// Embed returns the stored vector for text, or Err when set.
func (s *StaticEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if v, ok := s.Vectors[strings.TrimSpace(text)]; ok {
		return v, nil
	}
	return []float64{}, nil
}
