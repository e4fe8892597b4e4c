// Package llm provides the Gemini-backed embedding client used for semantic similarity.
package llm

// Provider represents an embedding provider
type Provider string

// Provider constants define supported embedding providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultEmbeddingModel is the Gemini embedding model used when none is configured
const DefaultEmbeddingModel = "text-embedding-004"

// Config holds the embedding configuration
type Config struct {
	Provider Provider
	Model    string
	// TaskType is passed to the provider as an embedding hint; empty means semantic similarity
	TaskType string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    DefaultEmbeddingModel,
	}
}

// WithModel returns a copy of the config using model. Empty model keeps the current one.
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	if model != "" {
		newConfig.Model = model
	}
	return &newConfig
}
