package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "substring match inside hyphenated word",
			input:    "Built python-based services",
			contains: []string{"python"},
		},
		{
			name:     "case insensitive",
			input:    "Experience with Docker and KUBERNETES",
			contains: []string{"docker", "kubernetes"},
		},
		{
			name:     "multi word skills",
			input:    "Applied machine learning and computer vision",
			contains: []string{"machine learning", "computer vision"},
		},
		{
			name:     "alias resolves to vocabulary entry",
			input:    "Backend in Node.js with Postgres",
			contains: []string{"nodejs", "postgresql"},
		},
		{
			name:     "unrelated skill absent",
			input:    "Python developer",
			excludes: []string{"tensorflow", "aws"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestExtract_UniqueAndSorted(t *testing.T) {
	got := Extract("git git git github gitlab")
	assert.IsIncreasing(t, got)

	counts := make(map[string]int)
	for _, s := range got {
		counts[s]++
	}
	for s, n := range counts {
		assert.Equal(t, 1, n, "skill %q should appear once", s)
	}
}

func TestExtract_Empty(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.NotNil(t, Extract(""))
}

func TestExtractFrom_FallbackTerms(t *testing.T) {
	got := ExtractFrom("We need a full stack engineer comfortable on the backend", FallbackTerms)
	assert.Contains(t, got, "full stack")
	assert.Contains(t, got, "backend")
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "go", Canonical(" Golang "))
	assert.Equal(t, "kubernetes", Canonical("K8s"))
	assert.Equal(t, "python", Canonical("Python"))
	assert.Equal(t, "", Canonical("   "))
}
