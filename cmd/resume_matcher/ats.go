package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/analysis"
	"github.com/jonathan/resume-matcher/internal/ingestion"
)

func newATSCmd(global *globalOptions) *cobra.Command {
	var (
		resumeFile string
		resumeJSON string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "ats",
		Short: "Score a resume for ATS compatibility",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.load(cmd)
			if err != nil {
				return err
			}

			resume, _, err := readResume(cmd.Context(), ingestion.NewExtractor(), resumeFile, resumeJSON)
			if err != nil {
				return err
			}

			report := analysis.BuildATSReport(resume)
			if a.printer != nil {
				a.printer.PrintATSReport(report)
			}
			return a.writeJSON(output, report)
		},
	}

	cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Resume document path or s3://bucket/key")
	cmd.Flags().StringVar(&resumeJSON, "resume-json", "", "Path to ParsedResume JSON")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output JSON path (defaults to stdout)")
	return cmd
}
