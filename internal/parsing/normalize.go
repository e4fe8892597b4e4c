// Package parsing turns free text into the structured inputs used for matching:
// normalized tokens, job profiles and parsed resumes.
package parsing

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern        = regexp.MustCompile(`http\S+|www\S+`)
	emailPattern      = regexp.MustCompile(`\S+@\S+`)
	nonWordPattern    = regexp.MustCompile(`[^a-z0-9\s\-]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// foldDiacritics strips combining marks so "résumé" becomes "resume" instead of "rsum".
func foldDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}

// CleanText lowercases text, removes URLs and email addresses, drops every character
// other than letters, digits, whitespace and hyphens, and collapses whitespace.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(foldDiacritics(text))
	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	text = nonWordPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// Tokenize splits text into word tokens on whitespace.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	if fields == nil {
		return []string{}
	}
	return fields
}

// RemoveStopwords drops English stopwords from tokens.
func RemoveStopwords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !IsStopword(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// Lemmatize reduces each token to its Snowball stem.
func Lemmatize(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, english.Stem(tok, false))
	}
	return out
}

// PreprocessOptions selects the optional preprocessing stages.
type PreprocessOptions struct {
	RemoveStopwords bool
	Lemmatize       bool
}

// DefaultPreprocessOptions enables every stage.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{RemoveStopwords: true, Lemmatize: true}
}

// Preprocess runs clean, tokenize, stopword removal and lemmatization in order.
func Preprocess(text string, opts PreprocessOptions) []string {
	tokens := Tokenize(CleanText(text))
	if opts.RemoveStopwords {
		tokens = RemoveStopwords(tokens)
	}
	if opts.Lemmatize {
		tokens = Lemmatize(tokens)
	}
	return tokens
}
