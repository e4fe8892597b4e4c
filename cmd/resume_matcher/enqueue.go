package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/queue"
	"github.com/jonathan/resume-matcher/internal/types"
)

func newEnqueueCmd(global *globalOptions) *cobra.Command {
	var resumeID, jobID string

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Publish an analysis job for the worker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.load(cmd)
			if err != nil {
				return err
			}

			job, err := parseAnalysisJob(resumeID, jobID)
			if err != nil {
				return err
			}
			if a.cfg.AMQPURL == "" {
				return fmt.Errorf("amqp_url is required (set RESUME_MATCHER_AMQP_URL or RABBITMQ_URL)")
			}

			conn, ch, err := queue.Dial(a.cfg.AMQPURL)
			if err != nil {
				return err
			}
			defer conn.Close()
			defer ch.Close()

			if _, err := ch.QueueDeclare(a.cfg.Queue, true, false, false, false, nil); err != nil {
				return fmt.Errorf("failed to declare queue %s: %w", a.cfg.Queue, err)
			}
			if err := queue.Enqueue(ch, a.cfg.Queue, *job); err != nil {
				return fmt.Errorf("failed to enqueue job: %w", err)
			}

			a.logger.Info("analysis job enqueued", "queue", a.cfg.Queue, "resume_id", job.ResumeID, "job_id", job.JobID)
			return nil
		},
	}

	cmd.Flags().StringVar(&resumeID, "resume-id", "", "Stored resume ID")
	cmd.Flags().StringVar(&jobID, "job-id", "", "Stored job posting ID")
	return cmd
}

func parseAnalysisJob(resumeID, jobID string) (*types.AnalysisJob, error) {
	r, err := uuid.Parse(resumeID)
	if err != nil {
		return nil, fmt.Errorf("invalid --resume-id: %w", err)
	}
	j, err := uuid.Parse(jobID)
	if err != nil {
		return nil, fmt.Errorf("invalid --job-id: %w", err)
	}
	return &types.AnalysisJob{ResumeID: r, JobID: j}, nil
}
