package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Resume is a stored resume with its parsed structure
type Resume struct {
	ID         uuid.UUID           `json:"id"`
	Filename   string              `json:"filename"`
	RawText    string              `json:"raw_text"`
	ParsedData *types.ParsedResume `json:"parsed_data"`
	ATSScore   *float64            `json:"ats_score,omitempty"`
	UploadedAt time.Time           `json:"uploaded_at"`
}

// ResumeCreateInput contains the fields needed to store a resume
type ResumeCreateInput struct {
	Filename   string
	RawText    string
	ParsedData *types.ParsedResume
	ATSScore   *float64
}
