package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	jwttoken "siteops/internal/jwt_token"
	id "siteops/pkg/domain"
)

type tokenOptions struct {
	user  string
	roles []string
	ttl   time.Duration
}

// NewTokenCommand creates the token command. Tokens are signed with the
// server's JWT settings, for local testing against a running server.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &tokenOptions{}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(rootOpts, opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.user, "user", "", "user ID (required)")
	cmd.Flags().StringSliceVar(&opts.roles, "roles", nil, "comma-separated roles")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runToken(rootOpts *RootOptions, opts *tokenOptions, cmd *cobra.Command) error {
	userID, err := id.ParseUserID(opts.user)
	if err != nil {
		return err
	}
	cfg := rootOpts.LoadConfig()
	token, err := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience).
		GenerateAccessToken(userID, opts.roles, opts.ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	out := map[string]any{
		"access_token": token,
		"user_id":      userID,
		"roles":        opts.roles,
		"expires_in":   int(opts.ttl.Seconds()),
	}
	return rootOpts.write(cmd, out, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, token)
		return err
	})
}
