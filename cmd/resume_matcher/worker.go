package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/analysis"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/metrics"
	"github.com/jonathan/resume-matcher/internal/queue"
)

func newWorkerCmd(global *globalOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume analysis jobs from RabbitMQ",
		Long: `Consumes {resume_id, job_id} messages from the configured queue, analyzes each stored
resume against the stored job posting, and publishes the outcome to the topic exchange with
routing key analysis.<resume_id>.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.load(cmd)
			if err != nil {
				return err
			}
			if a.cfg.AMQPURL == "" {
				return fmt.Errorf("amqp_url is required (set RESUME_MATCHER_AMQP_URL or RABBITMQ_URL)")
			}
			if a.cfg.DatabaseURL == "" {
				return fmt.Errorf("database_url is required (set RESUME_MATCHER_DATABASE_URL or DATABASE_URL)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			database, err := db.Connect(ctx, a.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()

			m := metrics.NewManager()
			matcher, cleanup, err := a.newMatcher(ctx, m)
			if err != nil {
				return err
			}
			defer cleanup()

			conn, ch, err := queue.Dial(a.cfg.AMQPURL)
			if err != nil {
				return err
			}
			defer conn.Close()
			defer ch.Close()

			service := analysis.NewService(database, matcher, analysis.WithLogger(a.logger))
			w := queue.NewWorker(ch, service, queue.Config{
				Queue:    a.cfg.Queue,
				Exchange: a.cfg.Exchange,
				Workers:  a.cfg.Concurrency,
			}, queue.WithLogger(a.logger), queue.WithRecorder(m))

			if err := w.Setup(); err != nil {
				return err
			}

			if metricsAddr != "" {
				shutdown := serveMetrics(metricsAddr, m, a)
				defer shutdown()
			}

			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to expose /metrics on, e.g. :9090 (disabled when empty)")
	return cmd
}

// serveMetrics exposes the registry until the returned func is called
func serveMetrics(addr string, m *metrics.Manager, a *app) func() {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
	a.logger.Info("metrics listening", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
