package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"siteops/internal/acknowledgment/notify"
	"siteops/internal/acknowledgment/recipients"
	id "siteops/pkg/domain"
)

type reconcileOptions struct {
	users []string
	roles []string
	all   bool
}

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &reconcileOptions{}
	cmd := &cobra.Command{
		Use:   "reconcile <document-id>",
		Short: "Replace a document's recipients with a new selection",
		Long: `Reconcile diffs the resolved selection against current assignments.
New recipients get a pending acknowledgment and a notification. Recipients
no longer selected lose unsigned assignments; signed ones are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(rootOpts, opts, args[0], cmd)
		},
	}
	cmd.Flags().StringSliceVar(&opts.users, "users", nil, "explicit user IDs")
	cmd.Flags().StringSliceVar(&opts.roles, "roles", nil, "every active user holding one of these roles")
	cmd.Flags().BoolVar(&opts.all, "all", false, "every active user")
	return cmd
}

func runReconcile(rootOpts *RootOptions, opts *reconcileOptions, rawDoc string, cmd *cobra.Command) error {
	docID, err := id.ParseDocumentID(rawDoc)
	if err != nil {
		return err
	}

	a, err := rootOpts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Service.ReconcileAssignment(cmd.Context(), docID, recipients.Selection{
		UserIDs:   opts.users,
		Roles:     opts.roles,
		AllActive: opts.all,
	})
	if err != nil {
		return err
	}

	return rootOpts.write(cmd, result, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "added %d, removed %d, retained %d\n",
			len(result.Added), len(result.Removed), len(result.Retained)); err != nil {
			return err
		}
		return writeDelivery(w, result.Delivery)
	})
}

// NewRemindCommand creates the remind command.
func NewRemindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remind <document-id> [user-id...]",
		Short: "Re-notify recipients who have not signed",
		Long:  "With no user IDs, every recipient with an outstanding acknowledgment is reminded.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemind(rootOpts, args[0], args[1:], cmd)
		},
	}
}

func runRemind(opts *RootOptions, rawDoc string, rawUsers []string, cmd *cobra.Command) error {
	docID, err := id.ParseDocumentID(rawDoc)
	if err != nil {
		return err
	}
	var users []id.UserID
	for _, raw := range rawUsers {
		u, err := id.ParseUserID(raw)
		if err != nil {
			return err
		}
		users = append(users, u)
	}

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Service.NotifyRecipients(cmd.Context(), docID, users)
	if err != nil {
		return err
	}
	return opts.write(cmd, report, func(w io.Writer) error {
		return writeDelivery(w, report)
	})
}

func writeDelivery(w io.Writer, report *notify.DeliveryReport) error {
	if report == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "notifications: %d sent, %d failed, %d skipped\n",
		report.Sent, report.Failed, report.Skipped); err != nil {
		return err
	}
	for _, r := range report.Results {
		if r.Reason == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s %s: %s\n", r.RecipientID, r.Status, r.Reason); err != nil {
			return err
		}
	}
	return nil
}
