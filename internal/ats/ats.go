// Package ats estimates how well a parsed resume survives automated tracking system filters.
package ats

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Section names used in SectionScores
const (
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionSkills     = "technical_skills"
	SectionFormatting = "formatting"
	SectionKeywords   = "keywords"
)

// sectionWeights is ordered so the weighted sum is reproducible bit for bit
var sectionWeights = []struct {
	name   string
	weight float64
}{
	{SectionEducation, 0.20},
	{SectionExperience, 0.25},
	{SectionSkills, 0.25},
	{SectionFormatting, 0.15},
	{SectionKeywords, 0.15},
}

var (
	educationKeywords  = []string{"bachelor", "master", "phd", "degree", "university", "college", "institute", "gpa"}
	experienceKeywords = []string{"year", "month", "led", "managed", "developed", "designed", "implemented"}
	commonKeywords     = []string{
		"experience", "project", "developed", "designed", "implemented",
		"managed", "team", "python", "java", "sql", "api", "database",
		"achievement", "award", "certification",
	}
)

// Score returns the weighted ATS score in [0,100].
func Score(r *types.ParsedResume) float64 {
	sections := SectionScores(r)
	var total float64
	for _, sw := range sectionWeights {
		total += sections[sw.name] * sw.weight
	}
	return clamp(total, 0, 100)
}

// SectionScores returns each section's sub-score, each capped at 100.
func SectionScores(r *types.ParsedResume) map[string]float64 {
	if r == nil {
		r = types.NewParsedResume()
	}
	return map[string]float64{
		SectionEducation:  scoreEducation(r.Education),
		SectionExperience: scoreExperience(r.Experience),
		SectionSkills:     scoreSkills(r.TechnicalSkills),
		SectionFormatting: scoreCompleteness(r),
		SectionKeywords:   scoreKeywordDensity(r),
	}
}

// scoreEducation awards 10 points per entry mentioning a degree or institution.
func scoreEducation(entries []string) float64 {
	var score float64
	for _, e := range entries {
		if containsAny(strings.ToLower(e), educationKeywords) {
			score += 10
		}
	}
	return min(100, score)
}

// scoreExperience awards 10 points per entry plus 5 per keyword hit in each entry.
func scoreExperience(entries []string) float64 {
	score := float64(len(entries)) * 10
	for _, e := range entries {
		lower := strings.ToLower(e)
		for _, kw := range experienceKeywords {
			if strings.Contains(lower, kw) {
				score += 5
			}
		}
	}
	return min(100, score)
}

func scoreSkills(skills []string) float64 {
	return min(100, float64(len(skills))*5)
}

// scoreCompleteness starts at 50 and rewards contact details and populated sections.
func scoreCompleteness(r *types.ParsedResume) float64 {
	score := 50.0
	if r.HasEmail() {
		score += 10
	}
	if r.HasPhone() {
		score += 10
	}
	for _, section := range [][]string{r.Education, r.Experience, r.TechnicalSkills, r.Projects} {
		if len(section) > 0 {
			score += 5
		}
	}
	return min(100, score)
}

// scoreKeywordDensity checks the JSON form of the resume, field names included,
// for common resume keywords.
func scoreKeywordDensity(r *types.ParsedResume) float64 {
	data, err := json.Marshal(r)
	if err != nil {
		return 0
	}
	text := strings.ToLower(string(data))

	var score float64
	for _, kw := range commonKeywords {
		if strings.Contains(text, kw) {
			score += 5
		}
	}
	return min(100, score)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
