package server

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/fetch"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/types"
)

func TestHandleMatch(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name        string
		body        any
		wantStatus  int
		wantMatched []string
		wantMissing []string
	}{
		{
			name: "structured resume",
			body: types.MatchRequest{
				Resume:         types.ParsedResume{TechnicalSkills: []string{"Python", "SQL"}},
				JobDescription: testJobText,
			},
			wantStatus:  http.StatusOK,
			wantMatched: []string{"python", "sql"},
			wantMissing: []string{"aws"},
		},
		{
			name:        "resume text only",
			body:        types.MatchRequest{ResumeText: testResumeText, JobDescription: testJobText},
			wantStatus:  http.StatusOK,
			wantMatched: []string{"python", "sql"},
			wantMissing: []string{"aws"},
		},
		{
			name:       "invalid json",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/match", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, decodeBody[map[string]string](t, w)["error"])
				return
			}

			result := decodeBody[types.MatchResult](t, w)
			assert.ElementsMatch(t, tt.wantMatched, result.MatchedSkills)
			assert.Equal(t, tt.wantMissing, result.MissingSkills)
			assert.InDelta(t, 66.7, result.SkillMatch.MatchPercentage, 0.05)
			assert.GreaterOrEqual(t, result.OverallScore, 0.0)
			assert.LessOrEqual(t, result.OverallScore, 100.0)
			assert.NotEmpty(t, result.Category)
		})
	}
}

func TestHandleMatch_EmptyJobDescription(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/match", types.MatchRequest{ResumeText: testResumeText})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decodeBody[types.MatchResult](t, w)
	assert.Equal(t, 0, result.SkillMatch.JDSkillsCount)
	assert.Empty(t, result.MissingSkills)
	assert.GreaterOrEqual(t, result.OverallScore, 0.0)
	assert.LessOrEqual(t, result.OverallScore, 100.0)
	assert.Equal(t, ranking.Categorize(result.OverallScore), result.Category)
}

func TestHandleMatch_WorksWithoutStore(t *testing.T) {
	s, _ := newTestServer(t, withoutStore())
	w := do(t, s, http.MethodPost, "/match", types.MatchRequest{ResumeText: testResumeText, JobDescription: testJobText})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleJobProfile(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/job-profile", types.JobProfileRequest{JobDescription: testJobText})
	require.Equal(t, http.StatusOK, w.Code)
	profile := decodeBody[types.JobProfile](t, w)
	assert.Subset(t, profile.RequiredSkills, []string{"python", "sql", "aws"})

	w = do(t, s, http.MethodPost, "/job-profile", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateResume_JSON(t *testing.T) {
	s, store := newTestServer(t)

	w := do(t, s, http.MethodPost, "/resumes", map[string]any{
		"filename": "jane.txt",
		"raw_text": testResumeText,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resume := decodeBody[db.Resume](t, w)
	assert.Equal(t, "jane.txt", resume.Filename)
	assert.Equal(t, []string{"python", "sql"}, resume.ParsedData.TechnicalSkills)
	assert.Equal(t, "jane@example.com", resume.ParsedData.PersonalInfo.Email)
	require.NotNil(t, resume.ATSScore)
	assert.Greater(t, *resume.ATSScore, 0.0)
	assert.Len(t, store.resumes, 1)
}

func TestHandleCreateResume_ParsedData(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantSkills []string
	}{
		{
			name:       "valid parsed data is kept",
			body:       `{"filename":"a.pdf","raw_text":"text","parsed_data":{"technical_skills":["Go","Kubernetes"]}}`,
			wantStatus: http.StatusCreated,
			wantSkills: []string{"go", "kubernetes"},
		},
		{
			name:       "null parsed data is derived",
			body:       `{"filename":"a.pdf","raw_text":"Skills: Rust","parsed_data":null}`,
			wantStatus: http.StatusCreated,
			wantSkills: []string{"rust"},
		},
		{
			name:       "skills must be an array",
			body:       `{"filename":"a.pdf","raw_text":"text","parsed_data":{"technical_skills":"Go"}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown personal info field",
			body:       `{"filename":"a.pdf","raw_text":"text","parsed_data":{"personal_info":{"ssn":"123"}}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "filename required",
			body:       `{"raw_text":"text"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/resumes", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, tt.wantSkills, decodeBody[db.Resume](t, w).ParsedData.TechnicalSkills)
			}
		})
	}
}

func TestHandleCreateResume_Upload(t *testing.T) {
	s, store := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "jane.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte(testResumeText))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/resumes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resume := decodeBody[db.Resume](t, w)
	assert.Equal(t, "jane.txt", resume.Filename)
	assert.Contains(t, resume.RawText, "Backend engineer")
	assert.Equal(t, []string{"python", "sql"}, resume.ParsedData.TechnicalSkills)
	assert.Len(t, store.resumes, 1)
}

func TestHandleCreateResume_UploadMissingFile(t *testing.T) {
	s, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("filename", "x.pdf"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/resumes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateResume_StoreError(t *testing.T) {
	s, store := newTestServer(t)
	store.createErr = errors.New("pool closed")

	w := do(t, s, http.MethodPost, "/resumes", map[string]any{"filename": "a.txt", "raw_text": "text"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeBody[map[string]string](t, w)["error"])
}

func TestHandleGetResume(t *testing.T) {
	s, store := newTestServer(t)
	id := store.addResume(testResumeText)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "found", path: "/resumes/" + id.String(), want: http.StatusOK},
		{name: "not found", path: "/resumes/" + uuid.New().String(), want: http.StatusNotFound},
		{name: "invalid id", path: "/resumes/not-a-uuid", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestStoreBackedEndpoints_WithoutStore(t *testing.T) {
	s, _ := newTestServer(t, withoutStore())
	id := uuid.New().String()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/resumes"},
		{http.MethodGet, "/resumes/" + id},
		{http.MethodPost, "/resumes/" + id + "/ats-score"},
		{http.MethodGet, "/resumes/" + id + "/analyses"},
		{http.MethodPost, "/jobs"},
		{http.MethodGet, "/jobs"},
		{http.MethodGet, "/jobs/" + id},
		{http.MethodPost, "/analyze-resume-job"},
		{http.MethodPost, "/bulk-analyze"},
		{http.MethodGet, "/analysis-results/" + id},
		{http.MethodGet, "/analysis-results/" + id + "/report"},
		{http.MethodPost, "/resumes/bulk-upload"},
		{http.MethodDelete, "/resumes/" + id},
		{http.MethodPut, "/jobs/" + id},
		{http.MethodDelete, "/jobs/" + id},
		{http.MethodPost, "/skill-gap"},
	} {
		w := do(t, s, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, tc.method+" "+tc.path)
	}
}

func TestHandleCreateJob(t *testing.T) {
	fetched := "Senior Data Engineer\nRequired skills: Go, Docker, PostgreSQL."

	tests := []struct {
		name       string
		body       types.CreateJobRequest
		fetcher    JobFetcher
		wantStatus int
		wantSkills []string
	}{
		{
			name:       "inline description",
			body:       types.CreateJobRequest{Title: "Data Engineer", Description: testJobText},
			wantStatus: http.StatusCreated,
			wantSkills: []string{"aws", "python", "sql"},
		},
		{
			name:       "html description",
			body:       types.CreateJobRequest{Title: "Data Engineer", Description: "<div><p>Required skills: Python, SQL, AWS.</p></div>"},
			wantStatus: http.StatusCreated,
			wantSkills: []string{"aws", "python", "sql"},
		},
		{
			name: "fetched from url",
			body: types.CreateJobRequest{Title: "Data Engineer", URL: "https://boards.greenhouse.io/acme/jobs/1"},
			fetcher: func(context.Context, string) (string, error) {
				return fetched, nil
			},
			wantStatus: http.StatusCreated,
			wantSkills: []string{"docker", "go", "postgresql"},
		},
		{
			name: "fetch failure",
			body: types.CreateJobRequest{Title: "Data Engineer", URL: "https://boards.greenhouse.io/acme/jobs/1"},
			fetcher: func(_ context.Context, url string) (string, error) {
				return "", &fetch.Error{URL: url, Message: "HTTP status 404"}
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "url without fetcher",
			body:       types.CreateJobRequest{Title: "Data Engineer", URL: "https://example.com/job"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "neither description nor url",
			body:       types.CreateJobRequest{Title: "Data Engineer"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newTestServer(t, withFetcher(tt.fetcher))

			w := do(t, s, http.MethodPost, "/jobs", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusCreated {
				assert.Empty(t, store.jobs)
				return
			}

			resp := decodeBody[CreateJobResponse](t, w)
			require.NotNil(t, resp.Job)
			require.NotNil(t, resp.Profile)
			assert.Subset(t, resp.Job.RequiredSkills, tt.wantSkills)
			assert.Equal(t, resp.Profile.RequiredSkills, resp.Job.RequiredSkills)
			assert.NotContains(t, resp.Job.Description, "<p>")
		})
	}
}

func TestHandleGetAndListJobs(t *testing.T) {
	s, store := newTestServer(t)
	id := store.addJob(testJobText)
	store.addJob("Another job")

	w := do(t, s, http.MethodGet, "/jobs/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decodeBody[db.JobPosting](t, w).ID)

	w = do(t, s, http.MethodGet, "/jobs/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeBody[map[string]string](t, w)["error"], "not found")

	w = do(t, s, http.MethodGet, "/jobs?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[map[string]any](t, w)
	assert.EqualValues(t, 1, list["count"])
	assert.EqualValues(t, 1, list["limit"])
}

func TestHandleAnalyzeResumeJob(t *testing.T) {
	s, store := newTestServer(t)
	resumeID := store.addResume(testResumeText)
	jobID := store.addJob(testJobText)

	w := do(t, s, http.MethodPost, "/analyze-resume-job", types.AnalyzeResumeJobRequest{ResumeID: resumeID, JobID: jobID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rec := decodeBody[types.AnalysisRecord](t, w)
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, resumeID, rec.ResumeID)
	require.NotNil(t, rec.Result)
	assert.Equal(t, []string{"aws"}, rec.Result.MissingSkills)

	// stored record is retrievable and listed under the resume
	w = do(t, s, http.MethodGet, "/analysis-results/"+rec.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, rec.ID, decodeBody[types.AnalysisRecord](t, w).ID)

	w = do(t, s, http.MethodGet, "/resumes/"+resumeID.String()+"/analyses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody[map[string]any](t, w)["count"])
}

func TestHandleAnalyzeResumeJob_Errors(t *testing.T) {
	s, store := newTestServer(t)
	resumeID := store.addResume(testResumeText)
	jobID := store.addJob(testJobText)

	tests := []struct {
		name string
		body any
		want int
	}{
		{name: "missing resume", body: types.AnalyzeResumeJobRequest{ResumeID: uuid.New(), JobID: jobID}, want: http.StatusNotFound},
		{name: "missing job", body: types.AnalyzeResumeJobRequest{ResumeID: resumeID, JobID: uuid.New()}, want: http.StatusNotFound},
		{name: "nil ids", body: map[string]string{}, want: http.StatusBadRequest},
		{name: "malformed id", body: `{"resume_id":"nope","job_id":"nope"}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/analyze-resume-job", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestHandleBulkAnalyze(t *testing.T) {
	s, store := newTestServer(t)
	strong := store.addResume(testResumeText)
	missing := uuid.New()
	jobID := store.addJob(testJobText)

	w := do(t, s, http.MethodPost, "/bulk-analyze", types.BulkAnalysisRequest{
		ResumeIDs: []uuid.UUID{strong, missing},
		JobID:     &jobID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decodeBody[types.BulkAnalysisResult](t, w)
	assert.Equal(t, 2, result.TotalResumes)
	assert.Equal(t, 1, result.Analyzed)
	require.Len(t, result.Results, 1)
	assert.Equal(t, strong, result.Results[0].ResumeID)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, missing, result.Errors[0].ResumeID)
	assert.Len(t, result.CategoryBreakdown, 4)
}

func TestHandleBulkAnalyze_Invalid(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{name: "no resumes", body: types.BulkAnalysisRequest{JobDescription: testJobText}, want: http.StatusBadRequest},
		{name: "no job", body: types.BulkAnalysisRequest{ResumeIDs: []uuid.UUID{uuid.New()}}, want: http.StatusBadRequest},
		{name: "unknown job", body: map[string]any{"resume_ids": []string{uuid.NewString()}, "job_id": uuid.NewString()}, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, s, http.MethodPost, "/bulk-analyze", tt.body).Code)
		})
	}
}

func TestHandleATSScore(t *testing.T) {
	s, store := newTestServer(t)
	id := store.addResume(testResumeText)

	w := do(t, s, http.MethodPost, "/resumes/"+id.String()+"/ats-score", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	report := decodeBody[types.ATSReport](t, w)
	require.NotNil(t, report.ResumeID)
	assert.Equal(t, id, *report.ResumeID)
	assert.Len(t, report.SectionScores, 5)
	assert.Equal(t, report.ATSScore, store.atsScores[id])

	w = do(t, s, http.MethodPost, "/resumes/"+uuid.New().String()+"/ats-score", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetAnalysis_NotFound(t *testing.T) {
	s, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/analysis-results/"+uuid.New().String(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/analysis-results/xyz", nil).Code)
}

func TestHandleListResumeAnalyses_Empty(t *testing.T) {
	s, store := newTestServer(t)
	id := store.addResume(testResumeText)

	w := do(t, s, http.MethodGet, "/resumes/"+id.String()+"/analyses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string]any](t, w)
	assert.EqualValues(t, 0, resp["count"])
	assert.Equal(t, []any{}, resp["analyses"])

	w = do(t, s, http.MethodGet, "/resumes/"+uuid.New().String()+"/analyses", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
