package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/types"
)

// memRepo is an in-memory Repository
type memRepo struct {
	mu        sync.Mutex
	resumes   map[uuid.UUID]*db.Resume
	jobs      map[uuid.UUID]*db.JobPosting
	analyses  map[uuid.UUID]*types.AnalysisRecord
	atsScores map[uuid.UUID]float64
	saveErr   error
}

func newMemRepo() *memRepo {
	return &memRepo{
		resumes:   map[uuid.UUID]*db.Resume{},
		jobs:      map[uuid.UUID]*db.JobPosting{},
		analyses:  map[uuid.UUID]*types.AnalysisRecord{},
		atsScores: map[uuid.UUID]float64{},
	}
}

func (m *memRepo) GetResume(_ context.Context, id uuid.UUID) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) GetJobPosting(_ context.Context, id uuid.UUID) (*db.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[id], nil
}

func (m *memRepo) UpdateResumeATSScore(_ context.Context, id uuid.UUID, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.atsScores[id] = score
	return nil
}

func (m *memRepo) SaveAnalysis(_ context.Context, rec *types.AnalysisRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	m.analyses[rec.ID] = rec
	return nil
}

func (m *memRepo) GetAnalysis(_ context.Context, id uuid.UUID) (*types.AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analyses[id], nil
}

func (m *memRepo) ListAnalysesByResume(_ context.Context, resumeID uuid.UUID) ([]types.AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.AnalysisRecord{}
	for _, rec := range m.analyses {
		if rec.ResumeID == resumeID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *memRepo) addResume(skills ...string) uuid.UUID {
	parsed := &types.ParsedResume{
		PersonalInfo:    types.PersonalInfo{Email: "dev@example.com"},
		Education:       []string{"B.S. Computer Science"},
		Experience:      []string{"Backend engineer for 3 years"},
		TechnicalSkills: skills,
	}
	parsed.Normalize()
	id := uuid.New()
	m.resumes[id] = &db.Resume{ID: id, Filename: id.String() + ".pdf", RawText: "backend engineer", ParsedData: parsed}
	return id
}

func (m *memRepo) addJob(description string) uuid.UUID {
	id := uuid.New()
	m.jobs[id] = &db.JobPosting{ID: id, Title: "Engineer", Description: description}
	return id
}

type countingBulkRecorder struct {
	mu       sync.Mutex
	failures int
}

func (c *countingBulkRecorder) BulkItemFailed() {
	c.mu.Lock()
	c.failures++
	c.mu.Unlock()
}

const jobText = "Required skills: Python, SQL, AWS."

func newTestService(repo Repository, opts ...Option) *Service {
	return NewService(repo, ranking.NewMatcher(nil), opts...)
}

func TestAnalyzeResumeJob(t *testing.T) {
	repo := newMemRepo()
	resumeID := repo.addResume("python", "sql")
	jobID := repo.addJob(jobText)

	rec, err := newTestService(repo).AnalyzeResumeJob(context.Background(), resumeID, jobID)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, resumeID, rec.ResumeID)
	require.NotNil(t, rec.JobID)
	assert.Equal(t, jobID, *rec.JobID)
	assert.Equal(t, 2, rec.Result.SkillMatch.MatchedRequiredCount)
	assert.Contains(t, repo.analyses, rec.ID)
}

func TestAnalyzeResumeJob_NotFound(t *testing.T) {
	repo := newMemRepo()
	resumeID := repo.addResume("python")
	jobID := repo.addJob(jobText)
	svc := newTestService(repo)

	tests := []struct {
		name     string
		resumeID uuid.UUID
		jobID    uuid.UUID
		kind     string
	}{
		{name: "missing resume", resumeID: uuid.New(), jobID: jobID, kind: KindResume},
		{name: "missing job", resumeID: resumeID, jobID: uuid.New(), kind: KindJob},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AnalyzeResumeJob(context.Background(), tt.resumeID, tt.jobID)
			var nf *NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, tt.kind, nf.Kind)
		})
	}
}

func TestAnalyzeResumeJob_SaveError(t *testing.T) {
	repo := newMemRepo()
	resumeID := repo.addResume("python")
	jobID := repo.addJob(jobText)
	repo.saveErr = errors.New("disk full")

	_, err := newTestService(repo).AnalyzeResumeJob(context.Background(), resumeID, jobID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestAnalyzeBulk_PartialFailure(t *testing.T) {
	repo := newMemRepo()
	strong := repo.addResume("python", "sql", "aws")
	weak := repo.addResume("java")
	missing := uuid.New()
	rec := &countingBulkRecorder{}

	svc := newTestService(repo, WithConcurrency(2), WithBulkRecorder(rec))
	res, err := svc.AnalyzeBulk(context.Background(), &types.BulkAnalysisRequest{
		ResumeIDs:      []uuid.UUID{weak, missing, strong},
		JobDescription: jobText,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalResumes)
	assert.Equal(t, 2, res.Analyzed)
	require.Len(t, res.Results, 2)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, missing, res.Errors[0].ResumeID)
	assert.Contains(t, res.Errors[0].Error, "not found")
	assert.Equal(t, 1, rec.failures)

	assert.Equal(t, strong, res.Results[0].ResumeID)
	assert.GreaterOrEqual(t, res.Results[0].Result.OverallScore, res.Results[1].Result.OverallScore)
	assert.NotNil(t, res.Results[0].AnalysisID)

	total := 0
	for _, n := range res.CategoryBreakdown {
		total += n
	}
	assert.Equal(t, 2, total)
	assert.Len(t, res.CategoryBreakdown, 4)

	avg := (res.Results[0].Result.OverallScore + res.Results[1].Result.OverallScore) / 2
	assert.InDelta(t, avg, res.AverageScore, 0.05)
}

func TestAnalyzeBulk_ByJobID(t *testing.T) {
	repo := newMemRepo()
	resumeID := repo.addResume("python")
	jobID := repo.addJob(jobText)

	res, err := newTestService(repo).AnalyzeBulk(context.Background(), &types.BulkAnalysisRequest{
		ResumeIDs: []uuid.UUID{resumeID},
		JobID:     &jobID,
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)

	saved := repo.analyses[*res.Results[0].AnalysisID]
	require.NotNil(t, saved.JobID)
	assert.Equal(t, jobID, *saved.JobID)
}

func TestAnalyzeBulk_AllFail(t *testing.T) {
	repo := newMemRepo()

	res, err := newTestService(repo).AnalyzeBulk(context.Background(), &types.BulkAnalysisRequest{
		ResumeIDs:      []uuid.UUID{uuid.New(), uuid.New()},
		JobDescription: jobText,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Analyzed)
	assert.Equal(t, 0.0, res.AverageScore)
	assert.Empty(t, res.Results)
	assert.Len(t, res.Errors, 2)
}

func TestSummarize(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	c := uuid.MustParse("00000000-0000-0000-0000-00000000000c")

	results := []types.BulkResultItem{
		{ResumeID: a, Result: &types.MatchResult{OverallScore: 45, Category: types.CategoryWeakMatch}},
		{ResumeID: b, Result: &types.MatchResult{OverallScore: 85, Category: types.CategoryStrongMatch}},
	}
	errs := []types.BulkItemError{
		{ResumeID: c, Error: "resume not found"},
		{ResumeID: b, Error: "failed to save"},
		{ResumeID: a, Error: "resume not found"},
	}

	got := Summarize(5, results, errs)

	assert.Equal(t, 5, got.TotalResumes)
	assert.Equal(t, 2, got.Analyzed)
	assert.Equal(t, 65.0, got.AverageScore)
	assert.Equal(t, []uuid.UUID{b, a}, []uuid.UUID{got.Results[0].ResumeID, got.Results[1].ResumeID})
	assert.Equal(t, []uuid.UUID{a, b, c}, []uuid.UUID{got.Errors[0].ResumeID, got.Errors[1].ResumeID, got.Errors[2].ResumeID})
	assert.Equal(t, 1, got.CategoryBreakdown[types.CategoryStrongMatch])
	assert.Equal(t, 1, got.CategoryBreakdown[types.CategoryWeakMatch])
	assert.Equal(t, 0, got.CategoryBreakdown[types.CategoryGoodMatch])
}

func TestAnalyzeBulk_InvalidRequest(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	_, err := svc.AnalyzeBulk(context.Background(), &types.BulkAnalysisRequest{JobDescription: jobText})
	require.Error(t, err)

	_, err = svc.AnalyzeBulk(context.Background(), &types.BulkAnalysisRequest{
		ResumeIDs:      []uuid.UUID{uuid.New()},
		JobDescription: "   ",
	})
	var inputErr *InputError
	assert.True(t, errors.As(err, &inputErr))
}

func TestAnalyzeBulk_MissingJob(t *testing.T) {
	repo := newMemRepo()
	resumeID := repo.addResume("python")
	jobID := uuid.New()

	_, err := newTestService(repo).AnalyzeBulk(context.Background(), &types.BulkAnalysisRequest{
		ResumeIDs: []uuid.UUID{resumeID},
		JobID:     &jobID,
	})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, KindJob, nf.Kind)
}

func TestAnalyzeBulk_Cancelled(t *testing.T) {
	repo := newMemRepo()
	resumeID := repo.addResume("python")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(repo).AnalyzeBulk(ctx, &types.BulkAnalysisRequest{
		ResumeIDs:      []uuid.UUID{resumeID},
		JobDescription: jobText,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestATSReport(t *testing.T) {
	repo := newMemRepo()
	resumeID := repo.addResume("python", "sql")

	report, err := newTestService(repo).ATSReport(context.Background(), resumeID)
	require.NoError(t, err)

	require.NotNil(t, report.ResumeID)
	assert.Equal(t, resumeID, *report.ResumeID)
	assert.Len(t, report.SectionScores, 5)
	assert.NotNil(t, report.Recommendations)
	assert.Equal(t, report.ATSScore, repo.atsScores[resumeID])
}

func TestATSReport_NotFound(t *testing.T) {
	_, err := newTestService(newMemRepo()).ATSReport(context.Background(), uuid.New())
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestGetAnalysisAndList(t *testing.T) {
	repo := newMemRepo()
	resumeID := repo.addResume("python")
	jobID := repo.addJob(jobText)
	svc := newTestService(repo)

	rec, err := svc.AnalyzeResumeJob(context.Background(), resumeID, jobID)
	require.NoError(t, err)

	got, err := svc.GetAnalysis(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	list, err := svc.ListResumeAnalyses(context.Background(), resumeID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.GetAnalysis(context.Background(), uuid.New())
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, KindAnalysis, nf.Kind)

	_, err = svc.ListResumeAnalyses(context.Background(), uuid.New())
	assert.True(t, errors.As(err, &nf))
}

func TestNotFoundError_Message(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	err := &NotFoundError{Kind: KindResume, ID: id}
	assert.Equal(t, "resume 00000000-0000-0000-0000-000000000001 not found", err.Error())
}
