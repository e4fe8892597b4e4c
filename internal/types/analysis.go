package types

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRecord is a stored match result for one resume, optionally tied to a job posting.
type AnalysisRecord struct {
	ID        uuid.UUID    `json:"id"`
	ResumeID  uuid.UUID    `json:"resume_id"`
	JobID     *uuid.UUID   `json:"job_id,omitempty"`
	Result    *MatchResult `json:"result"`
	CreatedAt time.Time    `json:"created_at"`
}

// BulkItemError records why one resume in a batch could not be analyzed.
type BulkItemError struct {
	ResumeID uuid.UUID `json:"resume_id"`
	Error    string    `json:"error"`
}

// BulkResultItem is one successful entry of a bulk analysis.
type BulkResultItem struct {
	ResumeID   uuid.UUID    `json:"resume_id"`
	Filename   string       `json:"filename,omitempty"`
	AnalysisID *uuid.UUID   `json:"analysis_id,omitempty"`
	Result     *MatchResult `json:"result"`
}

// BulkAnalysisResult aggregates a batch of resumes scored against one job description.
// Results are ordered by overall score, highest first.
type BulkAnalysisResult struct {
	TotalResumes      int              `json:"total_resumes"`
	Analyzed          int              `json:"analyzed"`
	AverageScore      float64          `json:"average_score"`
	CategoryBreakdown map[Category]int `json:"category_breakdown"`
	Results           []BulkResultItem `json:"results"`
	Errors            []BulkItemError  `json:"errors"`
}

// ATSReport is the standalone ATS evaluation of a resume.
type ATSReport struct {
	ResumeID        *uuid.UUID         `json:"resume_id,omitempty"`
	ATSScore        float64            `json:"ats_score"`
	SectionScores   map[string]float64 `json:"section_scores"`
	Recommendations []string           `json:"recommendations"`
}

// LearningStep is one entry of a skill gap learning path.
type LearningStep struct {
	Skill    string `json:"skill"`
	Priority string `json:"priority"`
}

// SkillGapReport compares a resume's skills with the skills a job asks for.
type SkillGapReport struct {
	ResumeID             *uuid.UUID     `json:"resume_id,omitempty"`
	JobID                *uuid.UUID     `json:"job_id,omitempty"`
	TargetSkills         []string       `json:"target_skills"`
	MatchedSkills        []string       `json:"matched_skills"`
	MissingSkills        []string       `json:"missing_skills"`
	ExtraSkills          []string       `json:"extra_skills"`
	CompletionPercentage float64        `json:"completion_percentage"`
	CriticalGaps         []string       `json:"critical_gaps"`
	LearningPath         []LearningStep `json:"learning_path"`
	Recommendations      []string       `json:"recommendations"`
}

// BulkUploadItem is one resume stored by a bulk upload.
type BulkUploadItem struct {
	ID              uuid.UUID `json:"id"`
	Filename        string    `json:"filename"`
	Status          string    `json:"status"`
	ATSScore        float64   `json:"ats_score"`
	ExtractedSkills []string  `json:"extracted_skills"`
}

// BulkUploadError records why one uploaded file was not stored.
type BulkUploadError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BulkUploadResult is the outcome of storing several uploaded resume files.
type BulkUploadResult struct {
	TotalFiles int               `json:"total_files"`
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Results    []BulkUploadItem  `json:"results"`
	Errors     []BulkUploadError `json:"errors"`
}
