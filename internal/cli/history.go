package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ftoledo/fiberbudget/internal/report"
	"github.com/ftoledo/fiberbudget/internal/session"
)

// NewHistoryCommand creates the history command and its rm subcommand.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the calculation history",
		Long: `List all stored calculations, newest first.

Every account level may read the history. Record IDs are shown only to
administrators, who may delete records with 'history rm'.

Example:
  fiberbudget history -u user_basic -p basic123`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, *creds, cmd)
		},
	}

	addCredentialFlags(cmd, creds)
	cmd.AddCommand(newHistoryRmCommand(rootOpts))

	return cmd
}

func runHistory(opts *RootOptions, creds credentials, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	sess, err := login(cmd, st, creds, formatter)
	if err != nil {
		return err
	}
	defer sess.Logout()

	calcs, err := sess.History(cmd.Context())
	if err != nil {
		return domainError(formatter, err)
	}

	if formatter.Format == "json" {
		views := make([]calculationView, 0, len(calcs))
		for _, c := range calcs {
			views = append(views, viewOf(c))
		}
		return formatter.Success(views)
	}

	showIDs := session.CanDeleteCalculations(sess.Current().Level)
	return report.WriteHistory(formatter.Writer, calcs, showIDs)
}

func newHistoryRmCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:           "rm <id>",
		Short:         "Delete a history record (administrator only)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryRm(rootOpts, *creds, args[0], cmd)
		},
	}

	addCredentialFlags(cmd, creds)

	return cmd
}

func runHistoryRm(opts *RootOptions, creds credentials, idArg string, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeValidation, fmt.Sprintf("invalid record id %q", idArg), nil)
	}

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	sess, err := login(cmd, st, creds, formatter)
	if err != nil {
		return err
	}
	defer sess.Logout()

	if err := sess.DeleteCalculation(cmd.Context(), id); err != nil {
		return domainError(formatter, err)
	}

	return formatter.Success(fmt.Sprintf("Deleted calculation #%d", id))
}
