// Package main provides the resume_matcher command line tool, HTTP API server and queue worker.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "resume_matcher",
		Short: "Deterministic resume to job description matching",
		Long: `resume_matcher scores resumes against job descriptions: skill coverage, experience
alignment, project relevance, text similarity and ATS formatting, combined into one
overall score and category. It runs as a CLI, an HTTP API or a RabbitMQ worker.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML or JSON config file (defaults to $RESUME_MATCHER_CONFIG)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print detailed debug information")

	root.AddCommand(
		newParseResumeCmd(opts),
		newAnalyzeJobCmd(opts),
		newATSCmd(opts),
		newMatchCmd(opts),
		newBulkCmd(opts),
		newSkillGapCmd(opts),
		newServeCmd(opts),
		newWorkerCmd(opts),
		newEnqueueCmd(opts),
		newMigrateCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
