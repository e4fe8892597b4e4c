package types

// ExperienceLevel is the seniority a job description asks for.
type ExperienceLevel string

// Experience levels recognised in job descriptions
const (
	LevelEntry  ExperienceLevel = "Entry"
	LevelMid    ExperienceLevel = "Mid"
	LevelSenior ExperienceLevel = "Senior"
)

// Limits applied when extracting a job profile
const (
	MaxRequiredSkills   = 30
	MaxPreferredSkills  = 20
	MaxResponsibilities = 15
)

// FocusGeneral is the technical focus reported when no focus bucket matched.
const FocusGeneral = "general"

// JobProfile is the structured view of a job description used for matching.
type JobProfile struct {
	RequiredSkills      []string        `json:"required_skills"`
	PreferredSkills     []string        `json:"preferred_skills"`
	KeyResponsibilities []string        `json:"key_responsibilities"`
	ExperienceLevel     ExperienceLevel `json:"experience_level"`
	YearsExperience     *float64        `json:"years_experience"` // nil when no requirement is known
	TechnicalFocus      []string        `json:"technical_focus"`
	DomainKnowledge     []string        `json:"domain_knowledge"`
}

// DefaultJobProfile returns the profile used for empty or unusable job descriptions.
func DefaultJobProfile() *JobProfile {
	return &JobProfile{
		RequiredSkills:      []string{},
		PreferredSkills:     []string{},
		KeyResponsibilities: []string{},
		ExperienceLevel:     LevelMid,
		YearsExperience:     nil,
		TechnicalFocus:      []string{},
		DomainKnowledge:     []string{},
	}
}

// RequiredYears returns the required years of experience, or 0 when none is set.
func (p *JobProfile) RequiredYears() float64 {
	if p == nil || p.YearsExperience == nil {
		return 0
	}
	return *p.YearsExperience
}

// JobProfileSummary is the part of a job profile echoed back in a match result.
type JobProfileSummary struct {
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	YearsRequired   *float64        `json:"years_required"`
}
