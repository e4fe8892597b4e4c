// Package analysis runs resume matching against stored resumes and job postings.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-matcher/internal/ats"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/types"
)

// DefaultConcurrency is the number of resumes scored in parallel during bulk analysis
const DefaultConcurrency = 8

// Repository is the storage the service reads from and writes to. *db.DB implements it.
// Getters return (nil, nil) when the record does not exist.
type Repository interface {
	GetResume(ctx context.Context, id uuid.UUID) (*db.Resume, error)
	GetJobPosting(ctx context.Context, id uuid.UUID) (*db.JobPosting, error)
	UpdateResumeATSScore(ctx context.Context, id uuid.UUID, score float64) error
	SaveAnalysis(ctx context.Context, rec *types.AnalysisRecord) error
	GetAnalysis(ctx context.Context, id uuid.UUID) (*types.AnalysisRecord, error)
	ListAnalysesByResume(ctx context.Context, resumeID uuid.UUID) ([]types.AnalysisRecord, error)
}

// BulkRecorder is notified of per-item bulk failures
type BulkRecorder interface {
	BulkItemFailed()
}

// Service coordinates storage and the matcher
type Service struct {
	repo        Repository
	matcher     *ranking.Matcher
	logger      *slog.Logger
	concurrency int
	recorder    BulkRecorder
}

// Option configures a Service
type Option func(*Service)

// WithConcurrency sets the bulk analysis parallelism; values below 1 are ignored
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBulkRecorder sets the recorder for bulk item failures
func WithBulkRecorder(r BulkRecorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService creates a Service
func NewService(repo Repository, matcher *ranking.Matcher, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		matcher:     matcher,
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeResumeJob matches a stored resume against a stored job posting and saves the result.
func (s *Service) AnalyzeResumeJob(ctx context.Context, resumeID, jobID uuid.UUID) (*types.AnalysisRecord, error) {
	resume, err := s.loadResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	result, err := s.matcher.Match(ctx, resume.ParsedData, resume.RawText, job.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to match resume %s: %w", resumeID, err)
	}

	rec := &types.AnalysisRecord{ResumeID: resumeID, JobID: &job.ID, Result: result}
	if err := s.repo.SaveAnalysis(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	s.logger.Info("analysis completed",
		"resume_id", resumeID,
		"job_id", jobID,
		"overall_score", result.OverallScore,
		"category", result.Category,
	)
	return rec, nil
}

// AnalyzeBulk scores many resumes against one job description. A failing resume is
// recorded in Errors and never stops the others.
func (s *Service) AnalyzeBulk(ctx context.Context, req *types.BulkAnalysisRequest) (*types.BulkAnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	jobDescription := req.JobDescription
	var jobID *uuid.UUID
	if req.JobID != nil {
		job, err := s.loadJob(ctx, *req.JobID)
		if err != nil {
			return nil, err
		}
		jobDescription = job.Description
		jobID = &job.ID
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &InputError{Message: "job description is required"}
	}

	var (
		mu      sync.Mutex
		results = make([]types.BulkResultItem, 0, len(req.ResumeIDs))
		errs    = make([]types.BulkItemError, 0)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, id := range req.ResumeIDs {
		g.Go(func() error {
			item, err := s.analyzeOne(gctx, id, jobID, jobDescription)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("bulk item failed", "resume_id", id, "error", err)
				if s.recorder != nil {
					s.recorder.BulkItemFailed()
				}
				errs = append(errs, types.BulkItemError{ResumeID: id, Error: err.Error()})
				return nil
			}
			results = append(results, *item)
			return nil
		})
	}
	// items never return errors, so Wait only waits
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Summarize(len(req.ResumeIDs), results, errs), nil
}

func (s *Service) analyzeOne(ctx context.Context, resumeID uuid.UUID, jobID *uuid.UUID, jobDescription string) (*types.BulkResultItem, error) {
	resume, err := s.loadResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	result, err := s.matcher.Match(ctx, resume.ParsedData, resume.RawText, jobDescription)
	if err != nil {
		return nil, err
	}

	rec := &types.AnalysisRecord{ResumeID: resumeID, JobID: jobID, Result: result}
	if err := s.repo.SaveAnalysis(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	return &types.BulkResultItem{
		ResumeID:   resumeID,
		Filename:   resume.Filename,
		AnalysisID: &rec.ID,
		Result:     result,
	}, nil
}

// Summarize orders a batch and computes its statistics over successful results.
// Results are sorted by score, highest first, and errors by resume ID.
func Summarize(total int, results []types.BulkResultItem, errs []types.BulkItemError) *types.BulkAnalysisResult {
	ranking.SortByScore(results)
	sortErrors(errs)

	breakdown := make(map[types.Category]int, len(types.AllCategories()))
	for _, c := range types.AllCategories() {
		breakdown[c] = 0
	}

	var sum float64
	for _, r := range results {
		sum += r.Result.OverallScore
		breakdown[r.Result.Category]++
	}

	var avg float64
	if len(results) > 0 {
		avg = math.Round(sum/float64(len(results))*10) / 10
	}

	return &types.BulkAnalysisResult{
		TotalResumes:      total,
		Analyzed:          len(results),
		AverageScore:      avg,
		CategoryBreakdown: breakdown,
		Results:           results,
		Errors:            errs,
	}
}

// ATSReport scores a stored resume for ATS compatibility and stores the score.
func (s *Service) ATSReport(ctx context.Context, resumeID uuid.UUID) (*types.ATSReport, error) {
	resume, err := s.loadResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	report := BuildATSReport(resume.ParsedData)
	report.ResumeID = &resumeID

	if err := s.repo.UpdateResumeATSScore(ctx, resumeID, report.ATSScore); err != nil {
		return nil, fmt.Errorf("failed to store ats score: %w", err)
	}
	return report, nil
}

// BuildATSReport scores a parsed resume without touching storage.
func BuildATSReport(resume *types.ParsedResume) *types.ATSReport {
	score := ats.Score(resume)
	return &types.ATSReport{
		ATSScore:        math.Round(score*10) / 10,
		SectionScores:   ats.SectionScores(resume),
		Recommendations: ats.Recommendations(resume, score),
	}
}

// GetAnalysis returns a stored analysis
func (s *Service) GetAnalysis(ctx context.Context, id uuid.UUID) (*types.AnalysisRecord, error) {
	rec, err := s.repo.GetAnalysis(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}
	if rec == nil {
		return nil, &NotFoundError{Kind: KindAnalysis, ID: id}
	}
	return rec, nil
}

// ListResumeAnalyses returns all analyses of a resume, newest first
func (s *Service) ListResumeAnalyses(ctx context.Context, resumeID uuid.UUID) ([]types.AnalysisRecord, error) {
	if _, err := s.loadResume(ctx, resumeID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListAnalysesByResume(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return records, nil
}

func (s *Service) loadResume(ctx context.Context, id uuid.UUID) (*db.Resume, error) {
	resume, err := s.repo.GetResume(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}
	if resume == nil {
		return nil, &NotFoundError{Kind: KindResume, ID: id}
	}
	if resume.ParsedData == nil {
		resume.ParsedData = types.NewParsedResume()
	}
	return resume, nil
}

func (s *Service) loadJob(ctx context.Context, id uuid.UUID) (*db.JobPosting, error) {
	job, err := s.repo.GetJobPosting(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, &NotFoundError{Kind: KindJob, ID: id}
	}
	return job, nil
}

func sortErrors(errs []types.BulkItemError) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].ResumeID.String() < errs[j].ResumeID.String()
	})
}
