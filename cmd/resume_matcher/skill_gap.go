package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/analysis"
	"github.com/jonathan/resume-matcher/internal/ingestion"
)

func newSkillGapCmd(global *globalOptions) *cobra.Command {
	var (
		resumeFile string
		resumeJSON string
		jobFile    string
		jobURL     string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "skill-gap",
		Short: "List the job skills a resume is missing",
		Long: `Compares the resume's technical skills with the skills named in a job description and
prints matched, missing and extra skills, a completion percentage and a learning path.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			extractor := ingestion.NewExtractor()

			resume, _, err := readResume(ctx, extractor, resumeFile, resumeJSON)
			if err != nil {
				return err
			}
			jd, err := a.jobDescription(ctx, extractor, jobFile, jobURL)
			if err != nil {
				return err
			}

			report := analysis.SkillGap(resume.TechnicalSkills, jd)
			if a.printer != nil {
				a.printer.PrintSkillGap(report)
			}
			return a.writeJSON(output, report)
		},
	}

	cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Resume document path or s3://bucket/key")
	cmd.Flags().StringVar(&resumeJSON, "resume-json", "", "Path to ParsedResume JSON")
	cmd.Flags().StringVarP(&jobFile, "job", "j", "", "Path to job description file (mutually exclusive with --job-url)")
	cmd.Flags().StringVar(&jobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output JSON path (defaults to stdout)")
	return cmd
}
