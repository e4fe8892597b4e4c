package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

// handleMatch scores an inline resume against an inline job description without touching storage
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req types.MatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	resume, text := matchInput(&req)
	result, err := s.matcher.Match(r.Context(), resume, text, req.JobDescription)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// matchInput picks the resume structure and text for a match request. A request that
// only carries resume_text is parsed; one that only carries structure is flattened.
func matchInput(req *types.MatchRequest) (*types.ParsedResume, string) {
	resume := req.Resume
	resume.Normalize()
	text := strings.TrimSpace(req.ResumeText)

	if text != "" && isEmptyResume(&resume) {
		return parsing.ParseResumeStructure(text), text
	}
	if text == "" {
		text = parsing.ResumeText(&resume)
	}
	return &resume, text
}

func isEmptyResume(r *types.ParsedResume) bool {
	return !r.HasEmail() && !r.HasPhone() &&
		len(r.Education) == 0 && len(r.Experience) == 0 && len(r.TechnicalSkills) == 0 &&
		len(r.Projects) == 0 && len(r.Certifications) == 0 && len(r.Achievements) == 0
}

// handleJobProfile extracts the structured profile of a job description
func (s *Server) handleJobProfile(w http.ResponseWriter, r *http.Request) {
	var req types.JobProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, parsing.AnalyzeJobDescription(req.JobDescription))
}
