// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxResumeSkills caps the number of technical skills kept on a parsed resume.
const MaxResumeSkills = 50

// PersonalInfo holds the contact details found in a resume header.
type PersonalInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ParsedResume is the structured form of a resume, one list of entries per section.
// Section slices are never nil once the value has gone through Normalize.
type ParsedResume struct {
	PersonalInfo    PersonalInfo `json:"personal_info"`
	Education       []string     `json:"education"`
	Experience      []string     `json:"experience"`
	TechnicalSkills []string     `json:"technical_skills"`
	Projects        []string     `json:"projects"`
	Certifications  []string     `json:"certifications"`
	Achievements    []string     `json:"achievements"`
}

// NewParsedResume returns an empty resume with every section initialised.
func NewParsedResume() *ParsedResume {
	r := &ParsedResume{}
	r.Normalize()
	return r
}

// Normalize replaces nil sections with empty slices and lowercases skills.
func (r *ParsedResume) Normalize() {
	if r.Education == nil {
		r.Education = []string{}
	}
	if r.Experience == nil {
		r.Experience = []string{}
	}
	if r.Projects == nil {
		r.Projects = []string{}
	}
	if r.Certifications == nil {
		r.Certifications = []string{}
	}
	if r.Achievements == nil {
		r.Achievements = []string{}
	}

	skills := make([]string, 0, len(r.TechnicalSkills))
	for _, s := range r.TechnicalSkills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) > MaxResumeSkills {
		skills = skills[:MaxResumeSkills]
	}
	r.TechnicalSkills = skills
}

// HasEmail reports whether an email address was found.
func (r *ParsedResume) HasEmail() bool {
	return strings.TrimSpace(r.PersonalInfo.Email) != ""
}

// HasPhone reports whether a phone number was found.
func (r *ParsedResume) HasPhone() bool {
	return strings.TrimSpace(r.PersonalInfo.Phone) != ""
}

// DecodeParsedResume unmarshals JSON into a normalized ParsedResume.
// Missing sections decode to empty slices.
func DecodeParsedResume(data []byte) (*ParsedResume, error) {
	var r ParsedResume
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode parsed resume: %w", err)
	}
	r.Normalize()
	return &r, nil
}
