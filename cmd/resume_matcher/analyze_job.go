package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/parsing"
)

func newAnalyzeJobCmd(global *globalOptions) *cobra.Command {
	var (
		jobFile string
		jobURL  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "analyze-job",
		Short: "Extract a JobProfile from a job description file or URL",
		Long: `Extracts required and preferred skills, responsibilities, experience level, years of
experience, technical focus and domain keywords from a job description.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.load(cmd)
			if err != nil {
				return err
			}

			text, err := a.jobDescription(cmd.Context(), ingestion.NewExtractor(), jobFile, jobURL)
			if err != nil {
				return err
			}

			profile := parsing.AnalyzeJobDescription(text)
			if a.printer != nil {
				a.printer.PrintJobProfile(profile)
			}
			return a.writeJSON(output, profile)
		},
	}

	cmd.Flags().StringVarP(&jobFile, "job", "j", "", "Path to job description file (mutually exclusive with --job-url)")
	cmd.Flags().StringVar(&jobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output JSON path (defaults to stdout)")
	return cmd
}
