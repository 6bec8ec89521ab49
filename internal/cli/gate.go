package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"siteops/internal/app"
	id "siteops/pkg/domain"
)

var errNoGate = errors.New("REDIS_URL is required for the credential gate")

// NewGateCommand creates the gate command group.
func NewGateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Manage the credential-change precondition",
	}
	cmd.AddCommand(newGateSetCommand(rootOpts))
	cmd.AddCommand(newGateClearCommand(rootOpts))
	return cmd
}

func newGateSetCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		reason string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "set <user-id>",
		Short: "Require a credential change before any obligation is shown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGate(rootOpts, cmd, args[0], func(a *app.App, userID id.UserID) error {
				return a.Gate.Require(cmd.Context(), userID, reason, ttl)
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "credential change required", "reason shown to the user")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "expire the requirement after this long (0 keeps it)")
	return cmd
}

func newGateClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <user-id>",
		Short: "Lift the credential-change requirement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGate(rootOpts, cmd, args[0], func(a *app.App, userID id.UserID) error {
				return a.Gate.Clear(cmd.Context(), userID)
			})
		},
	}
}

func withGate(opts *RootOptions, cmd *cobra.Command, rawUser string, fn func(*app.App, id.UserID) error) error {
	userID, err := id.ParseUserID(rawUser)
	if err != nil {
		return err
	}
	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.Gate == nil {
		return errNoGate
	}
	if err := fn(a, userID); err != nil {
		return err
	}
	return opts.write(cmd, map[string]any{"user_id": userID, "action": cmd.Name()}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "gate %s for %s\n", cmd.Name(), userID)
		return err
	})
}
