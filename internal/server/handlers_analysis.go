package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/types"
)

// handleAnalyzeResumeJob matches one stored resume against one stored job posting and stores the result
func (s *Server) handleAnalyzeResumeJob(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}

	var req types.AnalyzeResumeJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	record, err := s.service.AnalyzeResumeJob(r.Context(), req.ResumeID, req.JobID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleBulkAnalyze ranks many stored resumes against one job
func (s *Server) handleBulkAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}

	var req types.BulkAnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := s.service.AnalyzeBulk(r.Context(), &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleGetAnalysis retrieves a stored analysis by its ID
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	record, err := s.service.GetAnalysis(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleAnalysisReport renders a stored analysis as a downloadable text report
func (s *Server) handleAnalysisReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	record, err := s.service.GetAnalysis(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	name := record.ResumeID.String()
	resume, err := s.store.GetResume(r.Context(), record.ResumeID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if resume != nil && resume.Filename != "" {
		name = resume.Filename
	}

	var buf bytes.Buffer
	if err := observability.WriteAnalysisReport(&buf, name, record.Result, time.Now()); err != nil {
		s.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"analysis-%s.txt\"", id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write report", "error", err)
	}
}

// handleSkillGap reports which job skills a stored resume lacks
func (s *Server) handleSkillGap(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}

	var req types.SkillGapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	report, err := s.service.SkillGap(r.Context(), &req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}
