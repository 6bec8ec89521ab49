package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	id "siteops/pkg/domain"
)

// NewQueueCommand creates the queue command.
func NewQueueCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "queue <user-id>",
		Short: "Show a user's obligation queue in presentation order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueue(rootOpts, args[0], cmd)
		},
	}
}

func runQueue(opts *RootOptions, rawUser string, cmd *cobra.Command) error {
	userID, err := id.ParseUserID(rawUser)
	if err != nil {
		return err
	}

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := a.Service.GetObligationQueue(cmd.Context(), userID)
	if err != nil {
		return err
	}

	return opts.write(cmd, q, func(w io.Writer) error {
		if q.Gated {
			_, err := fmt.Fprintf(w, "gated: %s\n", q.GateReason)
			return err
		}
		items := q.Items()
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "no outstanding obligations")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DOCUMENT\tKIND\tSTATUS\tBLOCKING\tTITLE")
		for i, item := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", item.DocumentID, item.Kind, item.Status, i < len(q.Blocking), item.Title)
		}
		return tw.Flush()
	})
}
