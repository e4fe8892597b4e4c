package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/types"
)

// maxUploadBytes caps the whole body of a bulk upload
const maxUploadBytes = 50 << 20

// handleBulkUpload stores every file of the multipart "files" field as a resume.
// A file that cannot be read or stored is reported in Errors and never stops the others.
func (s *Server) handleBulkUpload(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "files", Message: "invalid multipart upload: " + err.Error()})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.handleError(w, r, &ErrValidation{Field: "files", Message: "at least one file is required"})
		return
	}
	if len(files) > types.MaxBulkResumes {
		s.handleError(w, r, &ErrValidation{
			Field:   "files",
			Message: fmt.Sprintf("at most %d files per upload", types.MaxBulkResumes),
		})
		return
	}

	result := &types.BulkUploadResult{
		TotalFiles: len(files),
		Results:    []types.BulkUploadItem{},
		Errors:     []types.BulkUploadError{},
	}
	for _, fh := range files {
		item, err := s.storeUpload(r, fh)
		if err != nil {
			s.logger.Warn("bulk upload item failed", "filename", fh.Filename, "error", err)
			result.Errors = append(result.Errors, types.BulkUploadError{Filename: fh.Filename, Error: err.Error()})
			continue
		}
		result.Results = append(result.Results, *item)
	}
	result.Successful = len(result.Results)
	result.Failed = len(result.Errors)

	s.logger.Info("bulk upload completed", "files", result.TotalFiles, "successful", result.Successful)
	s.jsonResponse(w, http.StatusOK, result)
}

// storeUpload extracts, parses and stores one uploaded file
func (s *Server) storeUpload(r *http.Request, fh *multipart.FileHeader) (*types.BulkUploadItem, error) {
	if ingestion.FormatForExtension(fh.Filename) == ingestion.FormatUnknown {
		return nil, fmt.Errorf("invalid file type %q", strings.ToLower(filepath.Ext(fh.Filename)))
	}
	if fh.Size > ingestion.MaxDocumentBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", ingestion.MaxDocumentBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	text, err := ingestion.ExtractBytes(fh.Filename, data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("could not extract text from file")
	}

	resume, err := s.storeResume(r.Context(), &types.CreateResumeRequest{Filename: fh.Filename, RawText: text})
	if err != nil {
		return nil, fmt.Errorf("failed to store resume: %w", err)
	}

	item := &types.BulkUploadItem{
		ID:              resume.ID,
		Filename:        resume.Filename,
		Status:          "success",
		ExtractedSkills: resume.ParsedData.TechnicalSkills,
	}
	if resume.ATSScore != nil {
		item.ATSScore = *resume.ATSScore
	}
	return item, nil
}
