package ats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// MinSkillCount is the number of listed skills below which a resume is flagged
const MinSkillCount = 5

// Recommendations lists resume improvements based on section content and the ATS score.
func Recommendations(r *types.ParsedResume, score float64) []string {
	if r == nil {
		r = types.NewParsedResume()
	}
	recs := []string{}

	if len(r.Education) == 0 {
		recs = append(recs, "Add your education details including degree, institution, and graduation date.")
	}
	if len(r.Experience) == 0 {
		recs = append(recs, "Add your work experience with specific dates and achievements.")
	}
	if len(r.TechnicalSkills) < MinSkillCount {
		recs = append(recs, "List your technical skills clearly. Include programming languages, tools, and frameworks.")
	}
	if len(r.Projects) == 0 {
		recs = append(recs, "Add projects you've worked on with descriptions and technologies used.")
	}
	if !r.HasEmail() {
		recs = append(recs, "Ensure your email address is clearly visible in the resume header.")
	}

	if score < 60 {
		recs = append(recs,
			"Your resume may not pass ATS filters. Consider using standard formatting without tables or graphics.",
			"Use standard section headings like 'Education', 'Experience', 'Skills' to improve ATS readability.",
		)
	}
	if score < 40 {
		recs = append(recs, "Your resume needs significant improvements. Reorganize sections and ensure proper formatting.")
	}

	return recs
}

// SkillRecommendations suggests up to five job skills missing from the resume, alphabetically.
func SkillRecommendations(resumeSkills, jobSkills []string) []string {
	have := make(map[string]bool, len(resumeSkills))
	for _, s := range resumeSkills {
		have[strings.ToLower(s)] = true
	}

	seen := make(map[string]bool)
	var missing []string
	for _, s := range jobSkills {
		key := strings.ToLower(s)
		if have[key] || seen[key] {
			continue
		}
		seen[key] = true
		missing = append(missing, key)
	}
	if len(missing) == 0 {
		return []string{}
	}

	sort.Strings(missing)
	if len(missing) > 5 {
		missing = missing[:5]
	}
	return []string{fmt.Sprintf("Consider learning these in-demand skills: %s", strings.Join(missing, ", "))}
}
