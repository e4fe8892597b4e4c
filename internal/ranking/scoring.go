package ranking

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	// responsibilityCap and technicalCap bound the two halves of project relevance
	responsibilityCap = 60.0
	technicalCap      = 40.0
	// responsibilityWords is how many leading words of a responsibility are matched
	responsibilityWords = 5
	// maxRelevantProjects and projectExcerptLength shape the relevant_projects list
	maxRelevantProjects  = 5
	projectExcerptLength = 100
	// maxExplicitYears ignores larger numbers, which are usually calendar years
	maxExplicitYears = 20.0
	// yearsPerPosition estimates experience when no explicit years are stated
	yearsPerPosition  = 1.5
	maxEstimatedYears = 10.0
)

// Patterns tried in order; the first with a usable match wins.
var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)[+\-]?\s*years?`),
	regexp.MustCompile(`(?i)(\d+)[+\-]?\s*yrs?`),
}

// computeSkillMatch compares resume skills to required and preferred skills. A skill matches
// when either string contains the other.
func computeSkillMatch(resumeSkills, projects []string, resumeText string, required, preferred []string) types.SkillMatch {
	have := lowerAll(resumeSkills)
	required = lowerAll(required)
	preferred = lowerAll(preferred)

	matchedRequired := []string{}
	missingRequired := []string{}
	for _, req := range required {
		if skillPresent(req, have) {
			matchedRequired = append(matchedRequired, req)
		} else {
			missingRequired = append(missingRequired, req)
		}
	}

	matchedPreferred := []string{}
	for _, pref := range preferred {
		if skillPresent(pref, have) {
			matchedPreferred = append(matchedPreferred, pref)
		}
	}

	projectsText := strings.ToLower(strings.Join(projects, " "))
	resumeLower := strings.ToLower(resumeText)
	usedInProjects := []string{}
	justListed := []string{}
	for _, s := range matchedRequired {
		if strings.Contains(projectsText, s) || strings.Contains(resumeLower, s) {
			usedInProjects = append(usedInProjects, s)
		} else {
			justListed = append(justListed, s)
		}
	}

	var pct float64
	if len(required) > 0 {
		pct = float64(len(matchedRequired)) / float64(len(required)) * 100
	}

	matched := make([]string, 0, len(matchedRequired)+len(matchedPreferred))
	matched = append(matched, matchedRequired...)
	matched = append(matched, matchedPreferred...)

	return types.SkillMatch{
		Score:                 math.Min(100, pct),
		MatchPercentage:       round1(pct),
		JDSkillsCount:         len(required),
		MatchedRequiredCount:  len(matchedRequired),
		MatchedPreferredCount: len(matchedPreferred),
		MissingRequiredCount:  len(missingRequired),
		MatchedSkills:         matched,
		MissingRequiredSkills: missingRequired,
		SkillsUsedInProjects:  usedInProjects,
		SkillsJustListed:      justListed,
	}
}

func skillPresent(skill string, have []string) bool {
	for _, h := range have {
		if skill == h || strings.Contains(h, skill) || strings.Contains(skill, h) {
			return true
		}
	}
	return false
}

// computeProjectRelevance scores projects against responsibilities (up to 60) and
// technical focus (up to 40).
func computeProjectRelevance(projects, responsibilities, focus []string) types.ProjectRelevance {
	if len(projects) == 0 {
		return types.ProjectRelevance{
			Relevance:        "No projects found",
			RelevantProjects: []string{},
		}
	}

	matches := 0
	relevant := []string{}
	for _, project := range projects {
		lower := strings.ToLower(project)
		count := 0
		for _, resp := range responsibilities {
			if containsAnyWord(lower, leadingWords(resp)) {
				count++
			}
		}
		if count > 0 {
			matches += count
			relevant = append(relevant, truncate(project, projectExcerptLength))
		}
	}

	projectsText := strings.ToLower(strings.Join(projects, " "))
	technical := 0
	for _, f := range focus {
		if strings.Contains(projectsText, f) {
			technical++
		}
	}

	respScore := math.Min(responsibilityCap, float64(matches)/float64(max(len(responsibilities), 1))*responsibilityCap)
	techScore := math.Min(technicalCap, float64(technical)/float64(max(len(focus), 1))*technicalCap)

	relevanceText := fmt.Sprintf("%d relevant projects found", len(relevant))
	if len(relevant) > maxRelevantProjects {
		relevant = relevant[:maxRelevantProjects]
	}

	return types.ProjectRelevance{
		Score:                   math.Min(100, respScore+techScore),
		Relevance:               relevanceText,
		RelevantProjects:        relevant,
		ResponsibilityAlignment: round1(respScore),
		TechnicalAlignment:      round1(techScore),
	}
}

// computeExperienceAlignment scores experience entries against responsibilities (up to 60)
// and the candidate's estimated years against the requirement (up to 40).
func computeExperienceAlignment(experience []string, resumeText string, profile *types.JobProfile) types.ExperienceAlignment {
	if len(experience) == 0 {
		return types.ExperienceAlignment{Alignment: "No experience found"}
	}

	years := estimateYears(resumeText, len(experience))

	experienceText := strings.ToLower(strings.Join(experience, " "))
	matches := 0
	for _, resp := range profile.KeyResponsibilities {
		if containsAnyWord(experienceText, leadingWords(resp)) {
			matches++
		}
	}
	respScore := math.Min(responsibilityCap, float64(matches)/float64(max(len(profile.KeyResponsibilities), 1))*responsibilityCap)

	var yearsScore float64
	if required := profile.RequiredYears(); required > 0 {
		yearsScore = yearsFitScore(math.Abs(years - required))
	} else {
		yearsScore = levelFitScore(profile.ExperienceLevel, years)
	}

	return types.ExperienceAlignment{
		Score:                 math.Min(100, respScore+yearsScore),
		Alignment:             fmt.Sprintf("Experience aligns with %d/%d responsibilities", matches, len(profile.KeyResponsibilities)),
		YearsEstimated:        round1(years),
		YearsRequired:         profile.YearsExperience,
		ResponsibilityMatches: matches,
	}
}

// yearsFitScore maps the gap in years to at most 40 points.
func yearsFitScore(diff float64) float64 {
	switch {
	case diff == 0:
		return 40
	case diff <= 1:
		return 30
	case diff <= 2:
		return 20
	default:
		return math.Max(0, 20-(diff-2)*5)
	}
}

// levelFitScore gives 40 points when the years fall in the level's band, else 20.
func levelFitScore(level types.ExperienceLevel, years float64) float64 {
	switch {
	case level == types.LevelEntry && years <= 2,
		level == types.LevelMid && years > 2 && years <= 5,
		level == types.LevelSenior && years > 5:
		return 40
	default:
		return 20
	}
}

// estimateYears prefers the largest explicit "N years" mention up to 20, falling back to
// 1.5 years per listed position capped at 10.
func estimateYears(resumeText string, positions int) float64 {
	for _, pattern := range yearsPatterns {
		best := -1.0
		for _, m := range pattern.FindAllStringSubmatch(resumeText, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil || v > maxExplicitYears {
				continue
			}
			best = math.Max(best, v)
		}
		if best >= 0 {
			return best
		}
	}

	if positions > 0 {
		return math.Min(float64(positions)*yearsPerPosition, maxEstimatedYears)
	}
	return 0
}

// leadingWords returns the first few lowercase words of a responsibility.
func leadingWords(resp string) []string {
	words := strings.Fields(strings.ToLower(resp))
	if len(words) > responsibilityWords {
		words = words[:responsibilityWords]
	}
	return words
}

func containsAnyWord(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
