package db

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobPosting is a stored job description
type JobPosting struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	URL             *string   `json:"url,omitempty"`
	RequiredSkills  []string  `json:"required_skills"`
	ExperienceLevel string    `json:"experience_level"`
	ContentHash     string    `json:"content_hash"`
	CreatedAt       time.Time `json:"created_at"`
}

// JobPostingCreateInput contains the fields needed to store a job posting
type JobPostingCreateInput struct {
	Title           string
	Description     string
	URL             string
	RequiredSkills  []string
	ExperienceLevel string
}

// HashJobContent generates a SHA-256 hash of the description with whitespace collapsed
func HashJobContent(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}
