package types

// Category is the label attached to an overall match score.
type Category string

// Match categories, from best to worst
const (
	CategoryStrongMatch Category = "Strong Match"
	CategoryGoodMatch   Category = "Good Match"
	CategoryWeakMatch   Category = "Weak Match"
	CategoryNotSuitable Category = "Not Suitable"
)

// AllCategories lists every category in descending order of fit.
func AllCategories() []Category {
	return []Category{CategoryStrongMatch, CategoryGoodMatch, CategoryWeakMatch, CategoryNotSuitable}
}

// ExperienceStatus grades how close the candidate's years are to the requirement.
type ExperienceStatus string

// Experience match statuses
const (
	ExperienceGood ExperienceStatus = "Good"
	ExperienceFair ExperienceStatus = "Fair"
	ExperiencePoor ExperienceStatus = "Poor"
)

// SkillMatch reports how many required and preferred skills the resume covers.
type SkillMatch struct {
	Score                 float64  `json:"score"`
	MatchPercentage       float64  `json:"match_percentage"`
	JDSkillsCount         int      `json:"jd_skills_count"`
	MatchedRequiredCount  int      `json:"matched_required_count"`
	MatchedPreferredCount int      `json:"matched_preferred_count"`
	MissingRequiredCount  int      `json:"missing_required_count"`
	MatchedSkills         []string `json:"matched_skills"`
	MissingRequiredSkills []string `json:"missing_required_skills"`
	SkillsUsedInProjects  []string `json:"skills_used_in_projects"`
	SkillsJustListed      []string `json:"skills_just_listed"`
}

// ProjectRelevance reports how well the resume's projects fit the job.
type ProjectRelevance struct {
	Score                   float64  `json:"score"`
	Relevance               string   `json:"relevance"`
	RelevantProjects        []string `json:"relevant_projects"`
	ResponsibilityAlignment float64  `json:"responsibility_alignment"`
	TechnicalAlignment      float64  `json:"technical_alignment"`
}

// ExperienceAlignment reports how the resume's experience lines up with the role.
type ExperienceAlignment struct {
	Score                 float64  `json:"score"`
	Alignment             string   `json:"alignment"`
	YearsEstimated        float64  `json:"years_estimated"`
	YearsRequired         *float64 `json:"years_required"`
	ResponsibilityMatches int      `json:"responsibility_matches"`
}

// EducationFit reports education and general profile fit.
type EducationFit struct {
	Score                 float64 `json:"score"`
	HasTechnicalEducation bool    `json:"has_technical_education"`
	DomainRelevance       float64 `json:"domain_relevance"`
	TechnicalExposure     float64 `json:"technical_exposure"`
}

// KeywordSimilarity holds the text similarity scores, each in [0,1].
type KeywordSimilarity struct {
	TFIDFScore    float64 `json:"tfidf_score"`
	SemanticScore float64 `json:"semantic_score"`
	CombinedScore float64 `json:"combined_score"`
}

// MatchResult is the full outcome of scoring one resume against one job description.
type MatchResult struct {
	ATSScore              float64             `json:"ats_score"`
	ATSSectionScores      map[string]float64  `json:"ats_section_scores"`
	OverallScore          float64             `json:"overall_score"`
	Category              Category            `json:"category"`
	MatchedSkills         []string            `json:"matched_skills"`
	MissingSkills         []string            `json:"missing_skills"`
	SkillMatch            SkillMatch          `json:"skill_match"`
	ProjectRelevance      ProjectRelevance    `json:"project_relevance"`
	ExperienceAlignment   ExperienceAlignment `json:"experience_alignment"`
	EducationFit          EducationFit        `json:"education_profile_fit"`
	KeywordSimilarity     KeywordSimilarity   `json:"keyword_similarity"`
	ResumeStrength        int                 `json:"resume_strength"`
	ExperienceMatchStatus ExperienceStatus    `json:"experience_match_status"`
	JobProfile            JobProfileSummary   `json:"job_profile"`
	Improvements          []string            `json:"improvements"`
	Explanation           string              `json:"explanation"`
}
