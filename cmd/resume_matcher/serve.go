package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/analysis"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/fetch"
	"github.com/jonathan/resume-matcher/internal/metrics"
	"github.com/jonathan/resume-matcher/internal/server"
)

func newServeCmd(global *globalOptions) *cobra.Command {
	var (
		port    int
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start an HTTP server exposing matching, resume, job and analysis endpoints. Without a
database only the stateless endpoints (/match, /job-profile, /health, /metrics) are available.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			ctx := cmd.Context()

			jwtCfg, err := a.cfg.JWT()
			if err != nil {
				return fmt.Errorf("invalid JWT configuration: %w", err)
			}

			m := metrics.NewManager()
			matcher, cleanup, err := a.newMatcher(ctx, m)
			if err != nil {
				return err
			}
			defer cleanup()

			deps := server.Deps{
				Matcher: matcher,
				Metrics: m,
				Logger:  a.logger,
				FetchJob: func(ctx context.Context, url string) (string, error) {
					return fetch.JobDescription(ctx, url, a.fetchOptions())
				},
			}

			if a.cfg.DatabaseURL != "" {
				database, err := db.Connect(ctx, a.cfg.DatabaseURL)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer database.Close()

				if migrate {
					if err := database.EnsureSchema(ctx); err != nil {
						return err
					}
				}
				deps.Store = database
				deps.Service = analysis.NewService(database, matcher,
					analysis.WithLogger(a.logger),
					analysis.WithConcurrency(a.cfg.Concurrency),
					analysis.WithBulkRecorder(m),
				)
			} else {
				a.logger.Warn("no database configured, storage endpoints are disabled")
			}

			srv, err := server.New(server.Config{
				Port:               a.cfg.Port,
				RateLimitPerMinute: a.cfg.RateLimitPerMinute,
				JWT:                jwtCfg,
				ShutdownTimeout:    30 * time.Second,
			}, deps)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			defer srv.Close()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides config)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the database schema before serving")
	return cmd
}
