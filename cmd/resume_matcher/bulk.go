package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-matcher/internal/analysis"
	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/types"
)

func newBulkCmd(global *globalOptions) *cobra.Command {
	var (
		resumes     []string
		jobFile     string
		jobURL      string
		output      string
		format      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Rank many resume files against one job description",
		Long: `Scores every resume against the same job description in parallel and prints the ranked
batch with average score and category breakdown. A resume that fails to load is reported in
errors and does not stop the batch. --format csv writes one ranked row per resume.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "json", "csv"); err != nil {
				return err
			}
			a, err := global.load(cmd)
			if err != nil {
				return err
			}
			resumes = append(resumes, args...)
			if len(resumes) == 0 {
				return fmt.Errorf("at least one resume is required (--resumes or positional arguments)")
			}
			if concurrency <= 0 {
				concurrency = a.cfg.Concurrency
			}

			ctx := cmd.Context()
			extractor := ingestion.NewExtractor()
			jd, err := a.jobDescription(ctx, extractor, jobFile, jobURL)
			if err != nil {
				return err
			}

			matcher, cleanup, err := a.newMatcher(ctx, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := rankFiles(ctx, matcher, extractor, resumes, jd, concurrency)
			if err != nil {
				return err
			}
			a.logger.Info("bulk analysis completed",
				"total", result.TotalResumes,
				"analyzed", result.Analyzed,
				"average_score", result.AverageScore,
			)

			if a.printer != nil {
				a.printer.PrintBulkResult(result)
			}
			if format == "csv" {
				return a.writeOutput(output, func(w io.Writer) error {
					return observability.WriteBulkCSV(w, result)
				})
			}
			return a.writeJSON(output, result)
		},
	}

	cmd.Flags().StringSliceVar(&resumes, "resumes", nil, "Resume document paths (comma separated or repeated)")
	cmd.Flags().StringVarP(&jobFile, "job", "j", "", "Path to job description file (mutually exclusive with --job-url)")
	cmd.Flags().StringVar(&jobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output path (defaults to stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or csv")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Resumes scored in parallel (defaults to config concurrency)")
	return cmd
}

// rankFiles scores each resume file against jd. Resume IDs are derived from the path
// so repeated runs are comparable.
func rankFiles(ctx context.Context, matcher *ranking.Matcher, extractor *ingestion.Extractor, paths []string, jd string, concurrency int) (*types.BulkAnalysisResult, error) {
	var (
		mu      sync.Mutex
		results = make([]types.BulkResultItem, 0, len(paths))
		errs    = make([]types.BulkItemError, 0)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for _, path := range paths {
		g.Go(func() error {
			id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(path))

			result, err := matchFile(gctx, matcher, extractor, path, jd)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, types.BulkItemError{ResumeID: id, Error: fmt.Sprintf("%s: %v", path, err)})
				return nil
			}
			results = append(results, types.BulkResultItem{ResumeID: id, Filename: path, Result: result})
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return analysis.Summarize(len(paths), results, errs), nil
}

func matchFile(ctx context.Context, matcher *ranking.Matcher, extractor *ingestion.Extractor, path, jd string) (*types.MatchResult, error) {
	resume, text, err := readResume(ctx, extractor, path, "")
	if err != nil {
		return nil, err
	}
	return matcher.Match(ctx, resume, text, jd)
}
