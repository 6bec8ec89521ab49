package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"siteops/internal/platform/postgres"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd)
		},
	}
}

func runMigrate(opts *RootOptions, cmd *cobra.Command) error {
	cfg := opts.LoadConfig()
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required for migrate")
	}

	db, err := postgres.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := postgres.Migrate(cmd.Context(), db)
	if err != nil {
		return err
	}
	if applied == nil {
		applied = []string{}
	}

	return opts.write(cmd, map[string]any{"applied": applied}, func(w io.Writer) error {
		if len(applied) == 0 {
			_, err := fmt.Fprintln(w, "schema is up to date")
			return err
		}
		for _, v := range applied {
			if _, err := fmt.Fprintf(w, "applied %s\n", v); err != nil {
				return err
			}
		}
		return nil
	})
}
