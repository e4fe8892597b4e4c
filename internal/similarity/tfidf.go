// Package similarity scores how textually close two documents are, combining a
// TF-IDF cosine with an embedding cosine.
package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/parsing"
)

// DefaultMaxFeatures caps the TF-IDF vocabulary size.
const DefaultMaxFeatures = 1000

// termPattern matches tokens of two or more letters, digits or underscores in any script
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// analyze lowercases text and returns its non-stopword terms.
func analyze(text string) []string {
	matches := termPattern.FindAllString(strings.ToLower(text), -1)
	terms := make([]string, 0, len(matches))
	for _, m := range matches {
		if !parsing.IsStopword(m) {
			terms = append(terms, m)
		}
	}
	return terms
}

// TFIDFCosine fits a TF-IDF model on exactly the two documents and returns the cosine
// similarity of their vectors. Nothing is kept between calls, so scores are only
// comparable within one call. Returns 0 when either document has no usable terms.
func TFIDFCosine(a, b string, maxFeatures int) float64 {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	docs := [2][]string{analyze(a), analyze(b)}
	if len(docs[0]) == 0 || len(docs[1]) == 0 {
		return 0
	}

	counts := [2]map[string]float64{{}, {}}
	totals := make(map[string]float64)
	df := make(map[string]int)
	for i, terms := range docs {
		for _, t := range terms {
			counts[i][t]++
			totals[t]++
		}
		for t := range counts[i] {
			df[t]++
		}
	}

	vocab := topTerms(totals, maxFeatures)

	// smooth idf: ln((1+n)/(1+df)) + 1
	n := float64(len(docs))
	idf := make(map[string]float64, len(vocab))
	for _, t := range vocab {
		idf[t] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	vectors := [2][]float64{}
	for i := range docs {
		v := make([]float64, len(vocab))
		for j, t := range vocab {
			v[j] = counts[i][t] * idf[t]
		}
		vectors[i] = v
	}

	return Cosine(vectors[0], vectors[1])
}

// topTerms returns at most limit terms ordered by corpus frequency, ties broken alphabetically.
func topTerms(totals map[string]float64, limit int) []string {
	terms := make([]string, 0, len(totals))
	for t := range totals {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	sort.Strings(terms)
	return terms
}

// Cosine returns the cosine similarity of two equal-length vectors, or 0 if either is zero.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
