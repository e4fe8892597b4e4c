package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/parsing"
)

func newParseResumeCmd(global *globalOptions) *cobra.Command {
	var (
		input      string
		output     string
		s3Endpoint string
	)

	cmd := &cobra.Command{
		Use:   "parse-resume",
		Short: "Extract a resume document into structured ParsedResume JSON",
		Long: `Reads a PDF, DOCX, HTML or text resume from disk or S3 (s3://bucket/key) and splits it
into personal info, education, experience, skills, projects, certifications and achievements.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.load(cmd)
			if err != nil {
				return err
			}
			if input == "" {
				return fmt.Errorf("--in is required")
			}

			ctx := cmd.Context()
			extractor, err := newExtractor(ctx, s3Endpoint)
			if err != nil {
				return err
			}
			text, err := extractor.ExtractText(ctx, input)
			if err != nil {
				return err
			}

			resume := parsing.ParseResumeStructure(text)
			a.logger.Debug("resume parsed",
				"source", input,
				"skills", len(resume.TechnicalSkills),
				"experience", len(resume.Experience),
				"education", len(resume.Education),
			)
			return a.writeJSON(output, resume)
		},
	}

	cmd.Flags().StringVarP(&input, "in", "i", "", "Resume document path or s3://bucket/key")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output JSON path (defaults to stdout)")
	cmd.Flags().StringVar(&s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL, e.g. for R2 or MinIO")
	return cmd
}
