package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/resume-matcher/internal/analysis"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

// CreateJobResponse is the stored posting together with its extracted profile
type CreateJobResponse struct {
	Job     *db.JobPosting    `json:"job"`
	Profile *types.JobProfile `json:"profile"`
}

// handleCreateJob stores a job posting. When only a URL is given the description is fetched.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}

	var req types.CreateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	description, err := s.jobDescription(r, &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	profile := parsing.AnalyzeJobDescription(description)
	posting, err := s.store.CreateJobPosting(r.Context(), &db.JobPostingCreateInput{
		Title:           req.Title,
		Description:     description,
		URL:             req.URL,
		RequiredSkills:  profile.RequiredSkills,
		ExperienceLevel: string(profile.ExperienceLevel),
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logger.Info("job posting stored", "job_id", posting.ID, "required_skills", len(profile.RequiredSkills))
	s.jsonResponse(w, http.StatusCreated, CreateJobResponse{Job: posting, Profile: profile})
}

// jobDescription returns the request's description as text, fetching the URL when it is blank
func (s *Server) jobDescription(r *http.Request, req *types.CreateJobRequest) (string, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		if s.fetchJob == nil {
			return "", &ErrValidation{Field: "description", Message: "required when URL fetching is disabled"}
		}
		fetched, err := s.fetchJob(r.Context(), req.URL)
		if err != nil {
			return "", err
		}
		return fetched, nil
	}

	if strings.HasPrefix(description, "<") {
		text, err := ingestion.HTMLToText(description)
		if err != nil {
			return "", &ErrValidation{Field: "description", Message: err.Error()}
		}
		if text != "" {
			return text, nil
		}
	}
	return description, nil
}

// handleGetJob retrieves a job posting by its ID
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	posting, err := s.store.GetJobPosting(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if posting == nil {
		s.handleError(w, r, &analysis.NotFoundError{Kind: analysis.KindJob, ID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, posting)
}

// handleListJobs lists the most recent job postings
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	limit := parseQueryInt(r, "limit", 50, 100)

	postings, err := s.store.ListJobPostings(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if postings == nil {
		postings = []db.JobPosting{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  postings,
		"count": len(postings),
		"limit": limit,
	})
}

// handleUpdateJob replaces a job posting and re-extracts its profile
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req types.CreateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	description, err := s.jobDescription(r, &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	profile := parsing.AnalyzeJobDescription(description)
	posting, err := s.store.UpdateJobPosting(r.Context(), id, &db.JobPostingCreateInput{
		Title:           req.Title,
		Description:     description,
		URL:             req.URL,
		RequiredSkills:  profile.RequiredSkills,
		ExperienceLevel: string(profile.ExperienceLevel),
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if posting == nil {
		s.handleError(w, r, &analysis.NotFoundError{Kind: analysis.KindJob, ID: id})
		return
	}

	s.logger.Info("job posting updated", "job_id", posting.ID)
	s.jsonResponse(w, http.StatusOK, CreateJobResponse{Job: posting, Profile: profile})
}

// handleDeleteJob removes a job posting. Stored analyses of it are kept.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	deleted, err := s.store.DeleteJobPosting(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if !deleted {
		s.handleError(w, r, &analysis.NotFoundError{Kind: analysis.KindJob, ID: id})
		return
	}

	s.logger.Info("job posting deleted", "job_id", id)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
