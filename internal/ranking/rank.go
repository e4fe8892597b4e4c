// Package ranking scores a resume against a job description and ranks the results.
package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/jonathan/resume-matcher/internal/ats"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Overall score weights when the job description lists required skills
const (
	skillWeight      = 0.45
	experienceWeight = 0.25
	similarityWeight = 0.20
	projectWeight    = 0.10
	// atsBonusFactor scales the up-to-5-point ATS influence
	atsBonusFactor = 0.5
)

// Overall score weights when no required skills were found
const (
	noSkillsSimilarityWeight = 0.50
	noSkillsExperienceWeight = 0.30
	noSkillsProjectWeight    = 0.20
)

// Category thresholds, inclusive lower bounds
const (
	strongMatchThreshold = 80.0
	goodMatchThreshold   = 60.0
	weakMatchThreshold   = 40.0
)

// SimilarityScorer computes text similarity between resume and job description.
type SimilarityScorer interface {
	Relevance(ctx context.Context, a, b string) (types.KeywordSimilarity, error)
}

// Recorder receives match outcomes, typically for metrics.
type Recorder interface {
	ObserveMatch(category types.Category, duration time.Duration)
	SimilarityFallback()
}

type nopRecorder struct{}

func (nopRecorder) ObserveMatch(types.Category, time.Duration) {}
func (nopRecorder) SimilarityFallback()                        {}

// Matcher produces match results. It holds only read-only collaborators and is safe for
// concurrent use.
type Matcher struct {
	similarity SimilarityScorer
	logger     *slog.Logger
	recorder   Recorder
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger used for recovered similarity failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRecorder sets the recorder notified of every match.
func WithRecorder(r Recorder) Option {
	return func(m *Matcher) {
		if r != nil {
			m.recorder = r
		}
	}
}

// NewMatcher creates a Matcher that uses similarity for keyword similarity.
func NewMatcher(similarity SimilarityScorer, opts ...Option) *Matcher {
	m := &Matcher{
		similarity: similarity,
		logger:     slog.Default(),
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match scores resume against jobDescription. resumeText is the raw resume text used for
// free-text heuristics. The only error returned is context cancellation.
func (m *Matcher) Match(ctx context.Context, resume *types.ParsedResume, resumeText, jobDescription string) (*types.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	if resume == nil {
		resume = types.NewParsedResume()
	}

	atsScore := ats.Score(resume)
	sectionScores := ats.SectionScores(resume)

	// short or empty descriptions yield the default profile
	profile := parsing.AnalyzeJobDescription(jobDescription)

	skill := computeSkillMatch(resume.TechnicalSkills, resume.Projects, resumeText, profile.RequiredSkills, profile.PreferredSkills)
	project := computeProjectRelevance(resume.Projects, profile.KeyResponsibilities, profile.TechnicalFocus)
	experience := computeExperienceAlignment(resume.Experience, resumeText, profile)
	education := computeEducationFit(resume.Education, resumeText, profile.TechnicalFocus, profile.DomainKnowledge)

	similarity, err := m.keywordSimilarity(ctx, resumeText, jobDescription)
	if err != nil {
		return nil, err
	}

	// categorized after rounding so the label matches the reported score
	overall := round1(overallScore(skill, experience, project, similarity, atsScore))
	category := Categorize(overall)
	status := experienceStatus(experience)

	result := &types.MatchResult{
		ATSScore:              round1(atsScore),
		ATSSectionScores:      sectionScores,
		OverallScore:          overall,
		Category:              category,
		MatchedSkills:         skill.MatchedSkills,
		MissingSkills:         skill.MissingRequiredSkills,
		SkillMatch:            skill,
		ProjectRelevance:      project,
		ExperienceAlignment:   experience,
		EducationFit:          education,
		KeywordSimilarity:     similarity,
		ResumeStrength:        resumeStrength(skill, experience, similarity, education, atsScore),
		ExperienceMatchStatus: status,
		JobProfile: types.JobProfileSummary{
			ExperienceLevel: profile.ExperienceLevel,
			YearsRequired:   profile.YearsExperience,
		},
		Improvements: generateImprovements(atsScore, skill, experience, project, education, resume),
		Explanation:  generateExplanation(overall, category, skill, project, experience, status, atsScore),
	}

	m.recorder.ObserveMatch(category, time.Since(start))
	return result, nil
}

// keywordSimilarity runs the similarity scorer, substituting zeros for any failure other
// than cancellation.
func (m *Matcher) keywordSimilarity(ctx context.Context, resumeText, jobDescription string) (types.KeywordSimilarity, error) {
	if m.similarity == nil {
		return types.KeywordSimilarity{}, nil
	}

	sim, err := m.similarity.Relevance(ctx, resumeText, jobDescription)
	if err == nil {
		return sim, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return types.KeywordSimilarity{}, fmt.Errorf("keyword similarity: %w", ctxErr)
	}

	m.logger.Warn("keyword similarity failed, using zero scores", "error", err)
	m.recorder.SimilarityFallback()
	return types.KeywordSimilarity{}, nil
}

// overallScore combines the sub-scores. Without required skills only similarity,
// experience and projects count; otherwise skills dominate and the ATS score adds a bonus.
func overallScore(skill types.SkillMatch, experience types.ExperienceAlignment, project types.ProjectRelevance, sim types.KeywordSimilarity, atsScore float64) float64 {
	similarityPct := sim.CombinedScore * 100

	var score float64
	if skill.JDSkillsCount == 0 {
		score = similarityPct*noSkillsSimilarityWeight +
			experience.Score*noSkillsExperienceWeight +
			project.Score*noSkillsProjectWeight
	} else {
		score = skill.Score*skillWeight +
			experience.Score*experienceWeight +
			similarityPct*similarityWeight +
			project.Score*projectWeight
		atsInfluence := math.Min(5, atsScore/100*5)
		score += atsInfluence * atsBonusFactor
	}

	return clamp(score, 0, 100)
}

// Categorize maps an overall score to its category. Lower bounds are inclusive.
func Categorize(score float64) types.Category {
	score = clamp(score, 0, 100)
	switch {
	case score >= strongMatchThreshold:
		return types.CategoryStrongMatch
	case score >= goodMatchThreshold:
		return types.CategoryGoodMatch
	case score >= weakMatchThreshold:
		return types.CategoryWeakMatch
	default:
		return types.CategoryNotSuitable
	}
}

// experienceStatus grades the gap between estimated and required years.
func experienceStatus(exp types.ExperienceAlignment) types.ExperienceStatus {
	if exp.YearsRequired == nil || *exp.YearsRequired == 0 {
		return types.ExperienceFair
	}
	diff := math.Abs(exp.YearsEstimated - *exp.YearsRequired)
	switch {
	case diff <= 1:
		return types.ExperienceGood
	case diff <= 2:
		return types.ExperienceFair
	default:
		return types.ExperiencePoor
	}
}

// resumeStrength rates the resume from 0 to 10.
func resumeStrength(skill types.SkillMatch, exp types.ExperienceAlignment, sim types.KeywordSimilarity, edu types.EducationFit, atsScore float64) int {
	atsPoints := math.Min(2, atsScore/100*2)

	var skillPoints float64
	if skill.JDSkillsCount > 0 {
		skillPoints = math.Min(3, skill.MatchPercentage/100*3)
	} else {
		skillPoints = math.Min(1.5, float64(len(skill.MatchedSkills))*0.15)
	}

	expPoints := math.Min(2, exp.Score/100*2)
	simPoints := math.Min(2, sim.CombinedScore*2)
	eduPoints := math.Min(1, edu.Score/100)

	total := atsPoints + skillPoints + expPoints + simPoints + eduPoints
	if total == 0 && (len(skill.MatchedSkills) > 0 || exp.YearsEstimated > 0) {
		total = 1
	}

	return int(clamp(math.Round(total), 0, 10))
}

// SortByScore orders bulk results by overall score, highest first. Ties keep resume ID order.
func SortByScore(items []types.BulkResultItem) {
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := scoreOf(items[i]), scoreOf(items[j])
		if si != sj {
			return si > sj
		}
		return items[i].ResumeID.String() < items[j].ResumeID.String()
	})
}

func scoreOf(item types.BulkResultItem) float64 {
	if item.Result == nil {
		return -1
	}
	return item.Result.OverallScore
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
