package ranking

import (
	"math"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// technicalEducationKeywords are matched as substrings, so short entries like "it" hit often.
var technicalEducationKeywords = []string{"computer", "engineering", "science", "technology", "software", "it", "cs"}

const (
	technicalEducationPoints = 50.0
	otherEducationPoints     = 20.0
	domainCap                = 30.0
	exposurePerFocus         = 5.0
	exposureCap              = 20.0
)

// computeEducationFit scores education plus general profile fit: technical education,
// domain keywords and technical focus terms found anywhere in the resume.
func computeEducationFit(education []string, resumeText string, focus, domain []string) types.EducationFit {
	educationText := strings.ToLower(strings.Join(education, " "))
	resumeLower := strings.ToLower(resumeText)

	technical := containsAnyWord(educationText, technicalEducationKeywords)

	domainMatches := 0
	for _, d := range domain {
		if strings.Contains(resumeLower, d) {
			domainMatches++
		}
	}

	focusMatches := 0
	for _, f := range focus {
		if strings.Contains(resumeLower, f) {
			focusMatches++
		}
	}

	base := otherEducationPoints
	if technical {
		base = technicalEducationPoints
	}
	domainScore := math.Min(domainCap, float64(domainMatches)/float64(max(len(domain), 1))*domainCap)
	exposure := math.Min(exposureCap, float64(focusMatches)*exposurePerFocus)

	return types.EducationFit{
		Score:                 math.Min(100, base+domainScore+exposure),
		HasTechnicalEducation: technical,
		DomainRelevance:       round1(domainScore),
		TechnicalExposure:     round1(exposure),
	}
}
