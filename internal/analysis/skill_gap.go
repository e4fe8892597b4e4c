package analysis

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-matcher/internal/ats"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// criticalGapCount is how many missing skills are flagged as critical
const criticalGapCount = 3

// SkillGap compares resume skills with the vocabulary skills found in a job description.
// A target skill counts as matched when any resume skill contains it, so "postgresql"
// covers "sql". A resume skill is extra when no target skill contains it.
func SkillGap(resumeSkills []string, jobDescription string) *types.SkillGapReport {
	target := skills.Extract(jobDescription)

	current := make([]string, 0, len(resumeSkills))
	seen := make(map[string]bool, len(resumeSkills))
	for _, s := range resumeSkills {
		c := skills.Canonical(s)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		current = append(current, c)
	}

	report := &types.SkillGapReport{
		TargetSkills:  target,
		MatchedSkills: []string{},
		MissingSkills: []string{},
		ExtraSkills:   []string{},
		CriticalGaps:  []string{},
		LearningPath:  []types.LearningStep{},
	}

	for _, t := range target {
		if anyContains(current, t) {
			report.MatchedSkills = append(report.MatchedSkills, t)
		} else {
			report.MissingSkills = append(report.MissingSkills, t)
		}
	}
	for _, c := range current {
		if !anyContains(target, c) {
			report.ExtraSkills = append(report.ExtraSkills, c)
		}
	}

	if len(target) > 0 {
		pct := float64(len(report.MatchedSkills)) / float64(len(target)) * 100
		report.CompletionPercentage = math.Round(pct*10) / 10
	}

	n := min(criticalGapCount, len(report.MissingSkills))
	report.CriticalGaps = append(report.CriticalGaps, report.MissingSkills[:n]...)

	for i, s := range report.MissingSkills {
		priority := "medium"
		if i < 2 {
			priority = "high"
		}
		report.LearningPath = append(report.LearningPath, types.LearningStep{Skill: s, Priority: priority})
	}

	report.Recommendations = ats.SkillRecommendations(report.MatchedSkills, target)
	return report
}

// SkillGap loads a stored resume and reports its gap against a stored or inline job.
func (s *Service) SkillGap(ctx context.Context, req *types.SkillGapRequest) (*types.SkillGapReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resume, err := s.loadResume(ctx, req.ResumeID)
	if err != nil {
		return nil, err
	}

	jobDescription := req.JobDescription
	var jobID *uuid.UUID
	if req.JobID != nil {
		job, err := s.loadJob(ctx, *req.JobID)
		if err != nil {
			return nil, err
		}
		jobDescription = job.Description
		jobID = &job.ID
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &InputError{Message: "job description is required"}
	}

	report := SkillGap(resume.ParsedData.TechnicalSkills, jobDescription)
	report.ResumeID = &req.ResumeID
	report.JobID = jobID

	s.logger.Info("skill gap computed",
		"resume_id", req.ResumeID,
		"missing", len(report.MissingSkills),
		"completion", report.CompletionPercentage,
	)
	return report, nil
}

// anyContains reports whether some entry of list contains skill
func anyContains(list []string, skill string) bool {
	for _, l := range list {
		if strings.Contains(l, skill) {
			return true
		}
	}
	return false
}
