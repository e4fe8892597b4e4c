// Package skills extracts technical skill keywords from free text.
package skills

import (
	"sort"
	"strings"
)

// Vocabulary is the fixed list of technical skills recognised in resumes and job descriptions.
var Vocabulary = []string{
	// Programming languages
	"python", "java", "javascript", "c++", "c#", "ruby", "go", "rust", "swift", "kotlin",
	"php", "scala", "r", "matlab", "perl", "groovy", "typescript",
	// Web
	"html", "css", "react", "angular", "vue", "nodejs", "express", "django", "flask",
	"spring", "asp.net", "fastapi", "graphql", "rest", "api",
	// Databases
	"sql", "mysql", "postgresql", "mongodb", "oracle", "cassandra", "redis", "elasticsearch",
	// Cloud and devops
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "gitlab", "github",
	"terraform", "ansible", "git", "ci/cd",
	// Data and AI
	"machine learning", "deep learning", "tensorflow", "pytorch", "keras", "scikit-learn",
	"nlp", "computer vision", "data analysis", "pandas", "numpy", "spark",
	// Tooling
	"jira", "agile", "scrum", "linux", "windows", "unix", "shell", "bash",
	"vim", "emacs", "vscode", "jupyter", "anaconda",
}

// FallbackTerms is the smaller list scanned when a job description yields no vocabulary skills.
var FallbackTerms = []string{
	"python", "java", "javascript", "react", "angular", "vue", "node", "express",
	"sql", "mysql", "postgresql", "mongodb", "aws", "azure", "gcp", "docker",
	"kubernetes", "git", "linux", "api", "rest", "graphql", "machine learning",
	"ai", "ml", "data science", "backend", "frontend", "full stack",
}

// aliases maps common spellings to their vocabulary entry
var aliases = map[string]string{
	"golang":   "go",
	"node.js":  "nodejs",
	"k8s":      "kubernetes",
	"react.js": "react",
	"reactjs":  "react",
	"vue.js":   "vue",
	"vuejs":    "vue",
	"postgres": "postgresql",
	"sklearn":  "scikit-learn",
}

// Canonical returns the vocabulary spelling for a skill name, lowercased and trimmed.
func Canonical(skill string) string {
	s := strings.ToLower(strings.TrimSpace(skill))
	if c, ok := aliases[s]; ok {
		return c
	}
	return s
}

// Extract returns the vocabulary skills contained in text, unique and sorted.
// Matching is case-insensitive substring containment, so "python-based" yields "python".
func Extract(text string) []string {
	found := ExtractFrom(text, Vocabulary)

	lower := strings.ToLower(text)
	seen := make(map[string]bool, len(found))
	for _, s := range found {
		seen[s] = true
	}
	for alias, canonical := range aliases {
		if !seen[canonical] && strings.Contains(lower, alias) {
			seen[canonical] = true
			found = append(found, canonical)
		}
	}

	sort.Strings(found)
	return found
}

// ExtractFrom returns the terms of vocab contained in text, unique and sorted.
func ExtractFrom(text string, vocab []string) []string {
	if text == "" {
		return []string{}
	}

	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	found := make([]string, 0)
	for _, term := range vocab {
		if seen[term] {
			continue
		}
		if strings.Contains(lower, term) {
			seen[term] = true
			found = append(found, term)
		}
	}

	sort.Strings(found)
	return found
}
