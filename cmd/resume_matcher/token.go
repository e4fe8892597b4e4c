package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/server"
)

func newTokenCmd(global *globalOptions) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token for a client",
		Long:  "Signs a JWT for the given client subject with the configured secret. The server accepts it when JWT auth is enabled.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.load(cmd)
			if err != nil {
				return err
			}

			jwtCfg, err := a.cfg.JWT()
			if err != nil {
				return err
			}
			if jwtCfg == nil {
				return fmt.Errorf("JWT secret is not configured (set JWT_SECRET or RESUME_MATCHER_JWT_SECRET)")
			}

			token, err := server.NewJWTService(jwtCfg).GenerateToken(subject)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Client identifier stored in the token subject")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
