package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/jonathan/resume-matcher/internal/analysis"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

// createResumeBody keeps parsed_data raw so it can be schema-checked before decoding
type createResumeBody struct {
	Filename   string          `json:"filename"`
	RawText    string          `json:"raw_text"`
	ParsedData json.RawMessage `json:"parsed_data,omitempty"`
}

// handleCreateResume stores a resume sent as JSON or as a multipart file upload
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}

	req, err := s.readCreateResume(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	resume, err := s.storeResume(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, resume)
}

// storeResume parses the resume when needed, scores it for ATS and stores it
func (s *Server) storeResume(ctx context.Context, req *types.CreateResumeRequest) (*db.Resume, error) {
	parsed := req.ParsedData
	if parsed == nil {
		parsed = parsing.ParseResumeStructure(req.RawText)
	}
	score := analysis.BuildATSReport(parsed).ATSScore

	resume, err := s.store.CreateResume(ctx, &db.ResumeCreateInput{
		Filename:   req.Filename,
		RawText:    req.RawText,
		ParsedData: parsed,
		ATSScore:   &score,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("resume stored", "resume_id", resume.ID, "filename", resume.Filename, "ats_score", score)
	return resume, nil
}

// readCreateResume builds the create request from either body format
func (s *Server) readCreateResume(w http.ResponseWriter, r *http.Request) (*types.CreateResumeRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return readResumeUpload(w, r)
	}

	var body createResumeBody
	if err := decodeJSON(w, r, &body); err != nil {
		return nil, err
	}
	req := &types.CreateResumeRequest{Filename: body.Filename, RawText: body.RawText}

	raw := bytes.TrimSpace(body.ParsedData)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := schemas.ValidateParsedResume(raw); err != nil {
			return nil, err
		}
		parsed, err := types.DecodeParsedResume(raw)
		if err != nil {
			return nil, &ErrValidation{Field: "parsed_data", Message: err.Error()}
		}
		req.ParsedData = parsed
	}
	return req, nil
}

// readResumeUpload extracts text from the "file" part of a multipart upload
func readResumeUpload(w http.ResponseWriter, r *http.Request) (*types.CreateResumeRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, &ErrValidation{Field: "file", Message: "a resume file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &ErrValidation{Field: "file", Message: "failed to read upload"}
	}

	text, err := ingestion.ExtractBytes(header.Filename, data)
	if err != nil {
		return nil, &ErrValidation{Field: "file", Message: err.Error()}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ErrValidation{Field: "file", Message: "no text could be extracted"}
	}

	filename := r.FormValue("filename")
	if filename == "" {
		filename = header.Filename
	}
	return &types.CreateResumeRequest{Filename: filename, RawText: text}, nil
}

// handleGetResume retrieves a resume by its ID
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if resume == nil {
		s.handleError(w, r, &analysis.NotFoundError{Kind: analysis.KindResume, ID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, resume)
}

// handleATSScore recomputes and stores the ATS report of a resume
func (s *Server) handleATSScore(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	report, err := s.service.ATSReport(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleListResumeAnalyses lists stored analyses for a resume, newest first
func (s *Server) handleListResumeAnalyses(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	records, err := s.service.ListResumeAnalyses(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if records == nil {
		records = []types.AnalysisRecord{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analyses": records,
		"count":    len(records),
	})
}

// handleDeleteResume removes a resume and its stored analyses
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	deleted, err := s.store.DeleteResume(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if !deleted {
		s.handleError(w, r, &analysis.NotFoundError{Kind: analysis.KindResume, ID: id})
		return
	}

	s.logger.Info("resume deleted", "resume_id", id)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
