package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/db"
)

func newMigrateCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.load(cmd)
			if err != nil {
				return err
			}
			if a.cfg.DatabaseURL == "" {
				return fmt.Errorf("database_url is required (set RESUME_MATCHER_DATABASE_URL or DATABASE_URL)")
			}

			ctx := cmd.Context()
			database, err := db.Connect(ctx, a.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()

			if err := database.EnsureSchema(ctx); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, "Schema applied")
			return nil
		},
	}
}
