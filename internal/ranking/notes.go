package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	lowATSThreshold      = 60.0
	criticalATSThreshold = 40.0
	weakSectionThreshold = 50.0
	minResumeSkills      = 5
	missingSkillsShown   = 5
)

// generateImprovements lists fixes in display order. Each rule adds at most one line,
// except missing skills which may add an overflow line.
func generateImprovements(atsScore float64, skill types.SkillMatch, exp types.ExperienceAlignment, project types.ProjectRelevance, edu types.EducationFit, resume *types.ParsedResume) []string {
	out := []string{}

	if atsScore < lowATSThreshold {
		out = append(out, "ATS Score is low. Improve formatting: Use standard section headings (Education, Experience, Skills), avoid tables/graphics, use simple fonts.")
	}
	if atsScore < criticalATSThreshold {
		out = append(out, "Critical: Resume may not pass ATS filters. Restructure resume with clear sections and standard formatting.")
	}

	if missing := skill.MissingRequiredSkills; len(missing) > 0 {
		shown := missing
		if len(shown) > missingSkillsShown {
			shown = shown[:missingSkillsShown]
		}
		out = append(out, fmt.Sprintf("Missing %d required skills: %s. Consider learning or highlighting these skills.", len(missing), strings.Join(shown, ", ")))
		if len(missing) > missingSkillsShown {
			out = append(out, fmt.Sprintf("... and %d more missing skills. Review job requirements carefully.", len(missing)-missingSkillsShown))
		}
	}

	if n := len(skill.SkillsJustListed); n > 0 {
		out = append(out, fmt.Sprintf("%d matched skills are only listed, not demonstrated. Add projects/experience showing these skills in action.", n))
	}

	if exp.YearsRequired != nil && *exp.YearsRequired > 0 && exp.YearsEstimated < *exp.YearsRequired {
		out = append(out, fmt.Sprintf("Experience gap: %.1f years short of requirement. Highlight relevant projects, internships, or coursework to compensate.", *exp.YearsRequired-exp.YearsEstimated))
	}
	if exp.Score < weakSectionThreshold {
		out = append(out, "Experience doesn't align well with job responsibilities. Add specific achievements and responsibilities that match the role.")
	}
	if project.Score < weakSectionThreshold {
		out = append(out, "Projects may not be highly relevant. Add projects that demonstrate skills mentioned in job description.")
	}
	if edu.Score < weakSectionThreshold {
		out = append(out, "Education section needs improvement. Add relevant coursework, certifications, or technical training.")
	}

	if len(resume.Projects) == 0 {
		out = append(out, "Add projects section to showcase your technical skills and experience.")
	}
	if len(resume.Experience) == 0 {
		out = append(out, "Add work experience or internships. If none, highlight relevant projects and coursework.")
	}
	if len(resume.TechnicalSkills) < minResumeSkills {
		out = append(out, "Add more technical skills. List programming languages, frameworks, tools, and technologies you know.")
	}
	if !resume.HasEmail() {
		out = append(out, "Add email address in resume header.")
	}
	if !resume.HasPhone() {
		out = append(out, "Add phone number for contact.")
	}

	return out
}

// generateExplanation builds the pipe-delimited summary shown alongside the score.
func generateExplanation(score float64, category types.Category, skill types.SkillMatch, project types.ProjectRelevance, exp types.ExperienceAlignment, status types.ExperienceStatus, atsScore float64) string {
	parts := []string{fmt.Sprintf("ATS Score: %.1f/100", atsScore)}
	if atsScore < lowATSThreshold {
		parts = append(parts, "(Needs improvement)")
	}

	parts = append(parts, fmt.Sprintf("Match Score: %.1f%% - %s", score, category), "Matching:")

	if skill.JDSkillsCount > 0 {
		parts = append(parts, fmt.Sprintf("  ✓ Skills: %d/%d matched (%.1f%%)", skill.MatchedRequiredCount, skill.JDSkillsCount, skill.MatchPercentage))
	} else {
		parts = append(parts, "  ✓ Skills: No required skills specified in JD")
	}

	if exp.YearsEstimated > 0 {
		parts = append(parts, fmt.Sprintf("  ✓ Experience: %.1f years (%s match)", exp.YearsEstimated, status))
	}
	if project.Score > 0 {
		parts = append(parts, fmt.Sprintf("  ✓ Projects: %.1f%% relevant", project.Score))
	}
	if n := len(skill.MissingRequiredSkills); n > 0 {
		parts = append(parts, fmt.Sprintf("  ✗ Missing Skills: %d required skills not found", n))
	}

	return strings.Join(parts, " | ")
}
