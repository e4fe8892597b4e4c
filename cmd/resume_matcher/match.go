package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/observability"
)

func newMatchCmd(global *globalOptions) *cobra.Command {
	var (
		resumeFile string
		resumeJSON string
		jobFile    string
		jobURL     string
		output     string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score one resume against one job description",
		Long: `Scores a resume (document or ParsedResume JSON) against a job description (file or URL)
and prints the MatchResult JSON, or a plain text report with --format text.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, "json", "text"); err != nil {
				return err
			}
			a, err := global.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			extractor := ingestion.NewExtractor()

			resume, resumeText, err := readResume(ctx, extractor, resumeFile, resumeJSON)
			if err != nil {
				return err
			}
			jd, err := a.jobDescription(ctx, extractor, jobFile, jobURL)
			if err != nil {
				return err
			}

			matcher, cleanup, err := a.newMatcher(ctx, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := matcher.Match(ctx, resume, resumeText, jd)
			if err != nil {
				return err
			}

			if a.printer != nil {
				a.printer.PrintMatchResult(result)
			}
			if format == "text" {
				name := resumeFile
				if name == "" {
					name = resumeJSON
				}
				return a.writeOutput(output, func(w io.Writer) error {
					return observability.WriteAnalysisReport(w, name, result, time.Now())
				})
			}
			return a.writeJSON(output, result)
		},
	}

	cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Resume document path or s3://bucket/key")
	cmd.Flags().StringVar(&resumeJSON, "resume-json", "", "Path to ParsedResume JSON")
	cmd.Flags().StringVarP(&jobFile, "job", "j", "", "Path to job description file (mutually exclusive with --job-url)")
	cmd.Flags().StringVar(&jobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output path (defaults to stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or text")
	return cmd
}
