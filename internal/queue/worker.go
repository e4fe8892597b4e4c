// Package queue consumes analysis jobs from RabbitMQ and publishes their outcome.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/jonathan/resume-matcher/internal/analysis"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Message outcomes
const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeDropped  = "dropped"
	OutcomeRequeued = "requeued"
)

// Channel is the subset of *amqp.Channel the worker uses
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Analyzer runs one stored resume against one stored job. *analysis.Service implements it.
type Analyzer interface {
	AnalyzeResumeJob(ctx context.Context, resumeID, jobID uuid.UUID) (*types.AnalysisRecord, error)
}

// Recorder counts consumed messages by outcome
type Recorder interface {
	QueueMessage(outcome string)
}

// Config names the queue and exchange and sizes the consumer pool
type Config struct {
	Queue    string
	Exchange string
	Workers  int
}

// Update is published to the exchange after each job
type Update struct {
	ResumeID     uuid.UUID      `json:"resume_id"`
	JobID        uuid.UUID      `json:"job_id"`
	AnalysisID   *uuid.UUID     `json:"analysis_id,omitempty"`
	OverallScore *float64       `json:"overall_score,omitempty"`
	Category     types.Category `json:"category,omitempty"`
	Error        string         `json:"error,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Worker consumes AnalysisJob messages
type Worker struct {
	ch       Channel
	analyzer Analyzer
	cfg      Config
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

// Option configures a Worker
type Option func(*Worker)

// WithLogger sets the worker logger
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithRecorder sets the outcome recorder
func WithRecorder(r Recorder) Option {
	return func(w *Worker) {
		w.recorder = r
	}
}

// NewWorker creates a Worker. Workers below 1 means a single consumer.
func NewWorker(ch Channel, analyzer Analyzer, cfg Config, opts ...Option) *Worker {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	w := &Worker{
		ch:       ch,
		analyzer: analyzer,
		cfg:      cfg,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Setup declares the durable queue and the topic exchange updates go to
func (w *Worker) Setup() error {
	if _, err := w.ch.QueueDeclare(
		w.cfg.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", w.cfg.Queue, err)
	}
	if err := w.ch.ExchangeDeclare(w.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", w.cfg.Exchange, err)
	}
	if err := w.ch.Qos(w.cfg.Workers, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}
	return nil
}

// Run consumes until ctx is done or the delivery channel closes
func (w *Worker) Run(ctx context.Context) error {
	deliveries, err := w.ch.Consume(
		w.cfg.Queue,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", w.cfg.Queue, err)
	}

	w.logger.Info("worker started", "queue", w.cfg.Queue, "workers", w.cfg.Workers)

	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					w.Handle(ctx, d)
				}
			}
		}()
	}
	wg.Wait()

	w.logger.Info("worker stopped", "queue", w.cfg.Queue)
	return nil
}

// Handle processes one delivery and returns its outcome. Invalid messages and jobs
// referencing missing records are acked and dropped. A job interrupted by shutdown is
// requeued without an update; other failures are nacked without requeue.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) string {
	outcome := w.process(ctx, d)
	if w.recorder != nil {
		w.recorder.QueueMessage(outcome)
	}
	return outcome
}

func (w *Worker) process(ctx context.Context, d amqp.Delivery) string {
	job, err := decodeJob(d.Body)
	if err != nil {
		w.logger.Warn("dropping invalid message", "error", err)
		w.ack(d)
		return OutcomeDropped
	}

	rec, err := w.analyzer.AnalyzeResumeJob(ctx, job.ResumeID, job.JobID)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			w.logger.Info("requeueing interrupted job", "resume_id", job.ResumeID, "job_id", job.JobID, "error", err)
			if nackErr := d.Nack(false, true); nackErr != nil {
				w.logger.Error("failed to requeue message", "error", nackErr)
			}
			return OutcomeRequeued
		}

		w.publish(job, &Update{Error: err.Error()})

		var notFound *analysis.NotFoundError
		if errors.As(err, &notFound) {
			w.logger.Warn("dropping job", "resume_id", job.ResumeID, "job_id", job.JobID, "error", err)
			w.ack(d)
			return OutcomeDropped
		}

		w.logger.Error("analysis failed", "resume_id", job.ResumeID, "job_id", job.JobID, "error", err)
		if nackErr := d.Nack(false, false); nackErr != nil {
			w.logger.Error("failed to nack message", "error", nackErr)
		}
		return OutcomeFailed
	}

	score := rec.Result.OverallScore
	w.publish(job, &Update{AnalysisID: &rec.ID, OverallScore: &score, Category: rec.Result.Category})
	w.ack(d)
	return OutcomeOK
}

func (w *Worker) ack(d amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		w.logger.Error("failed to ack message", "error", err)
	}
}

// publish sends the update with routing key analysis.<resume_id>. Failures are logged only.
func (w *Worker) publish(job *types.AnalysisJob, update *Update) {
	update.ResumeID = job.ResumeID
	update.JobID = job.JobID
	update.Timestamp = w.now().UTC()

	body, err := json.Marshal(update)
	if err != nil {
		w.logger.Error("failed to marshal update", "error", err)
		return
	}

	err = w.ch.Publish(w.cfg.Exchange, RoutingKey(job.ResumeID), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		w.logger.Error("failed to publish update", "resume_id", job.ResumeID, "error", err)
	}
}

// RoutingKey returns the update routing key for a resume
func RoutingKey(resumeID uuid.UUID) string {
	return "analysis." + resumeID.String()
}

func decodeJob(body []byte) (*types.AnalysisJob, error) {
	if err := schemas.ValidateAnalysisJob(body); err != nil {
		return nil, err
	}
	var job types.AnalysisJob
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("failed to decode analysis job: %w", err)
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}
