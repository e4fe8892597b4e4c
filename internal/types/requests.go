package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MaxBulkResumes caps the number of resumes accepted in one bulk analysis.
const MaxBulkResumes = 500

// AnalyzeResumeJobRequest asks for one stored resume to be matched against one stored job posting.
type AnalyzeResumeJobRequest struct {
	ResumeID uuid.UUID `json:"resume_id" validate:"required"`
	JobID    uuid.UUID `json:"job_id" validate:"required"`
}

// BulkAnalysisRequest asks for many stored resumes to be matched against one job description.
// Either JobID or JobDescription identifies the job; JobID wins when both are set.
type BulkAnalysisRequest struct {
	ResumeIDs      []uuid.UUID `json:"resume_ids" validate:"required,min=1,max=500,dive,required"`
	JobID          *uuid.UUID  `json:"job_id,omitempty"`
	JobDescription string      `json:"job_description,omitempty" validate:"required_without=JobID"`
}

// MatchRequest is a stateless match of an inline resume against an inline job description.
type MatchRequest struct {
	Resume         ParsedResume `json:"resume"`
	ResumeText     string       `json:"resume_text"`
	JobDescription string       `json:"job_description"` // empty scores against the default profile
}

// CreateResumeRequest stores a resume from raw text. Parsed data is derived when omitted.
type CreateResumeRequest struct {
	Filename   string        `json:"filename" validate:"required,max=255"`
	RawText    string        `json:"raw_text" validate:"required"`
	ParsedData *ParsedResume `json:"parsed_data,omitempty"`
}

// CreateJobRequest stores a job posting.
type CreateJobRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required_without=URL"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
}

// JobProfileRequest asks for a job description to be analyzed.
type JobProfileRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
}

// SkillGapRequest asks which job skills a stored resume lacks.
// Either JobID or JobDescription identifies the job; JobID wins when both are set.
type SkillGapRequest struct {
	ResumeID       uuid.UUID  `json:"resume_id" validate:"required"`
	JobID          *uuid.UUID `json:"job_id,omitempty"`
	JobDescription string     `json:"job_description,omitempty" validate:"required_without=JobID"`
}

// AnalysisJob is the queue message asking for one resume/job analysis.
type AnalysisJob struct {
	ResumeID uuid.UUID `json:"resume_id" validate:"required"`
	JobID    uuid.UUID `json:"job_id" validate:"required"`
}

// Validate validates the AnalyzeResumeJobRequest using the validator.
func (r *AnalyzeResumeJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the BulkAnalysisRequest using the validator.
func (r *BulkAnalysisRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the MatchRequest using the validator.
func (r *MatchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateResumeRequest using the validator.
func (r *CreateResumeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the JobProfileRequest using the validator.
func (r *JobProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SkillGapRequest using the validator.
func (r *SkillGapRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the AnalysisJob using the validator.
func (r *AnalysisJob) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
