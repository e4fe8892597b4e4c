package parsing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// MinJobDescriptionLength is the shortest job description that gets analyzed.
// Anything shorter yields the default profile.
const MinJobDescriptionLength = 10

var (
	requiredSectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:required|must have|must know|qualifications?|skills required)[:\s]+(.*?)(?:\n\n|\n(?:[A-Z][a-z]+|Responsibilities|Experience|Education)|$)`),
		regexp.MustCompile(`(?is)(?:proficiency in|experience with|knowledge of)[:\s]+(.*?)(?:\.|;|\n)`),
	}
	skillPhrasePattern = regexp.MustCompile(`(?:experience with|proficient in|familiar with|knowledge of)\s+([a-z\s]+?)(?:\.|,|;|\n)`)
	bulletPattern      = regexp.MustCompile(`[•\-\*]\s*([^•\-\*\n]+)`)

	preferredPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)preferred[:\s]+([^.]+)`),
		regexp.MustCompile(`(?i)nice to have[:\s]+([^.]+)`),
		regexp.MustCompile(`(?i)bonus[:\s]+([^.]+)`),
		regexp.MustCompile(`(?i)plus[:\s]+([^.]+)`),
	}

	responsibilitySection = regexp.MustCompile(`(?is)(?:responsibilities?|duties?|key tasks?)[:\s]+(.*?)(?:\n\n|\n[A-Z]|$)`)
	responsibilitySplit   = regexp.MustCompile(`[•\-\*]\s*|\n`)
	sentenceSplit         = regexp.MustCompile(`[.!?]\s+`)

	yearsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)[+\-]?\s*years?\s*(?:of\s*)?experience`),
		regexp.MustCompile(`(?i)(\d+)[+\-]?\s*yrs?\s*(?:of\s*)?experience`),
		regexp.MustCompile(`(?i)experience[:\s]+(\d+)[+\-]?\s*years?`),
	}

	capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
)

var actionVerbs = []string{"develop", "design", "implement", "build", "create", "manage", "lead", "collaborate"}

var (
	entryLevelWords  = []string{"entry", "junior", "fresher", "graduate", "intern"}
	seniorLevelWords = []string{"senior", "sr.", "lead", "principal", "architect"}
	midLevelWords    = []string{"mid", "intermediate", "2-4 years", "3-5 years"}
)

// focusBucket groups keywords that signal one technical focus area
type focusBucket struct {
	name     string
	keywords []string
}

// focusBuckets is ordered; the output keeps this order.
var focusBuckets = []focusBucket{
	{"web_development", []string{"web", "frontend", "backend", "full stack", "react", "angular", "vue"}},
	{"mobile_development", []string{"mobile", "ios", "android", "react native", "flutter"}},
	{"data_science", []string{"data science", "machine learning", "ml", "ai", "data analysis"}},
	{"cloud_devops", []string{"cloud", "aws", "azure", "gcp", "devops", "kubernetes", "docker"}},
	{"backend", []string{"backend", "api", "microservices", "server", "rest", "graphql"}},
	{"frontend", []string{"frontend", "ui", "ux", "react", "angular", "javascript"}},
}

var domainKeywords = []string{
	"e-commerce", "fintech", "healthcare", "education", "enterprise",
	"startup", "saas", "api", "microservices", "agile", "scrum",
}

// AnalyzeJobDescription extracts a JobProfile from raw job description text.
// It never fails: short or empty input yields types.DefaultJobProfile().
func AnalyzeJobDescription(jobDescription string) *types.JobProfile {
	if len(strings.TrimSpace(jobDescription)) < MinJobDescriptionLength {
		return types.DefaultJobProfile()
	}

	level := DetermineExperienceLevel(jobDescription)

	return &types.JobProfile{
		RequiredSkills:      ExtractRequiredSkills(jobDescription),
		PreferredSkills:     ExtractPreferredSkills(jobDescription),
		KeyResponsibilities: ExtractResponsibilities(jobDescription),
		ExperienceLevel:     level,
		YearsExperience:     ExtractYearsExperience(jobDescription, level),
		TechnicalFocus:      IdentifyTechnicalFocus(jobDescription),
		DomainKnowledge:     ExtractDomainKeywords(jobDescription),
	}
}

// ExtractRequiredSkills runs several overlapping extraction passes and unions the results.
// Recall matters more than precision here; required skills are a soft signal downstream.
func ExtractRequiredSkills(jobDescription string) []string {
	if len(strings.TrimSpace(jobDescription)) < MinJobDescriptionLength {
		return []string{}
	}

	found := make([]string, 0)

	// Whole text
	found = append(found, skills.Extract(jobDescription)...)

	// Text following requirement headers and phrases
	for _, re := range requiredSectionPatterns {
		for _, m := range re.FindAllStringSubmatch(jobDescription, -1) {
			if m[1] != "" {
				found = append(found, skills.Extract(m[1])...)
			}
		}
	}

	// Bullet points
	for _, m := range bulletPattern.FindAllStringSubmatch(jobDescription, -1) {
		found = append(found, skills.Extract(m[1])...)
	}

	// "experience with X" style phrases
	lower := strings.ToLower(jobDescription)
	for _, m := range skillPhrasePattern.FindAllStringSubmatch(lower, -1) {
		found = append(found, skills.Extract(m[1])...)
	}

	unique := uniqueSorted(found, func(s string) bool { return len(s) > 1 })
	if len(unique) == 0 {
		unique = skills.ExtractFrom(jobDescription, skills.FallbackTerms)
	}

	if len(unique) > types.MaxRequiredSkills {
		unique = unique[:types.MaxRequiredSkills]
	}
	return unique
}

// ExtractPreferredSkills extracts skills following preferred/nice-to-have/bonus/plus markers.
func ExtractPreferredSkills(jobDescription string) []string {
	found := make([]string, 0)
	for _, re := range preferredPatterns {
		for _, m := range re.FindAllStringSubmatch(jobDescription, -1) {
			found = append(found, skills.Extract(m[1])...)
		}
	}

	unique := uniqueSorted(found, func(s string) bool { return s != "" })
	if len(unique) > types.MaxPreferredSkills {
		unique = unique[:types.MaxPreferredSkills]
	}
	return unique
}

// ExtractResponsibilities returns the lines of a responsibilities section, or failing that,
// the sentences that contain an action verb.
func ExtractResponsibilities(jobDescription string) []string {
	responsibilities := make([]string, 0)

	if m := responsibilitySection.FindStringSubmatch(jobDescription); m != nil {
		for _, line := range responsibilitySplit.Split(m[1], -1) {
			line = strings.TrimSpace(line)
			if len(line) > 10 {
				responsibilities = append(responsibilities, line)
			}
		}
	}

	if len(responsibilities) == 0 {
		for _, sentence := range sentenceSplit.Split(jobDescription, -1) {
			trimmed := strings.TrimSpace(sentence)
			if len(trimmed) > 20 && containsAny(strings.ToLower(sentence), actionVerbs) {
				responsibilities = append(responsibilities, trimmed)
			}
		}
	}

	if len(responsibilities) > types.MaxResponsibilities {
		responsibilities = responsibilities[:types.MaxResponsibilities]
	}
	return responsibilities
}

// DetermineExperienceLevel classifies seniority by keyword vote. Entry words win over
// senior words, and Mid is the default.
func DetermineExperienceLevel(jobDescription string) types.ExperienceLevel {
	lower := strings.ToLower(jobDescription)
	switch {
	case containsAny(lower, entryLevelWords):
		return types.LevelEntry
	case containsAny(lower, seniorLevelWords):
		return types.LevelSenior
	case containsAny(lower, midLevelWords):
		return types.LevelMid
	default:
		return types.LevelMid
	}
}

// ExtractYearsExperience returns the first explicit "N years of experience" figure, or the
// figure implied by the experience level (Entry 0, Mid 3, Senior 6).
func ExtractYearsExperience(jobDescription string, level types.ExperienceLevel) *float64 {
	for _, re := range yearsPatterns {
		if m := re.FindStringSubmatch(jobDescription); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return &v
			}
		}
	}

	var years float64
	switch level {
	case types.LevelEntry:
		years = 0
	case types.LevelMid:
		years = 3
	case types.LevelSenior:
		years = 6
	default:
		return nil
	}
	return &years
}

// IdentifyTechnicalFocus returns the focus buckets whose keywords appear, in bucket order.
func IdentifyTechnicalFocus(jobDescription string) []string {
	lower := strings.ToLower(jobDescription)
	focus := make([]string, 0)
	for _, b := range focusBuckets {
		if containsAny(lower, b.keywords) {
			focus = append(focus, b.name)
		}
	}
	if len(focus) == 0 {
		return []string{types.FocusGeneral}
	}
	return focus
}

// ExtractDomainKeywords returns lowercased capitalized words longer than four letters
// (first ten occurrences) together with any known domain keywords present.
func ExtractDomainKeywords(jobDescription string) []string {
	found := make([]string, 0)

	terms := make([]string, 0)
	for _, w := range capitalizedWord.FindAllString(jobDescription, -1) {
		if len(w) > 4 {
			terms = append(terms, strings.ToLower(w))
		}
	}
	if len(terms) > 10 {
		terms = terms[:10]
	}
	found = append(found, terms...)

	lower := strings.ToLower(jobDescription)
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}

	return uniqueSorted(found, func(s string) bool { return s != "" })
}

// uniqueSorted lowercases, trims, filters and deduplicates values, returning them sorted.
func uniqueSorted(values []string, keep func(string) bool) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if !keep(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// containsAny reports whether text contains any of the substrings.
func containsAny(text string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
