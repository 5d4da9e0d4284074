package cli

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ftoledo/fiberbudget/internal/report"
	"github.com/ftoledo/fiberbudget/internal/session"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	Output string
}

// NewReportCommand creates the report command: render the history as a
// printable HTML document.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{}
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a printable HTML report of the history",
		Long: `Render the full calculation history as a self-contained HTML document,
newest record first.

Only administrator and advanced accounts may generate reports. An empty
history is refused rather than rendered as an empty table.

Example:
  fiberbudget report -u admin -p admin123 -o report.html`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(rootOpts, opts, *creds, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the report to this file (default: stdout)")
	addCredentialFlags(cmd, creds)

	return cmd
}

func runReport(rootOpts *RootOptions, opts *ReportOptions, creds credentials, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, rootOpts)

	st, err := openStore(rootOpts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	sess, err := login(cmd, st, creds, formatter)
	if err != nil {
		return err
	}
	defer sess.Logout()

	if !session.CanSeeAdvancedReports(sess.Current().Level) {
		return domainError(formatter, session.ErrForbidden)
	}

	calcs, err := sess.History(cmd.Context())
	if err != nil {
		return domainError(formatter, err)
	}
	if len(calcs) == 0 {
		return outputError(formatter, ExitFailure, ErrCodeNotFound, "no calculations to include in the report", nil)
	}

	if opts.Output == "" {
		// Without a file the document itself is the result: raw HTML on
		// stdout for text, wrapped in the JSON envelope otherwise.
		if formatter.Format == "json" {
			var doc bytes.Buffer
			if err := report.WriteHTML(&doc, calcs, time.Now()); err != nil {
				return WrapExitError(ExitCommandError, "failed to render report", err)
			}
			return formatter.Success(reportView{Records: len(calcs), HTML: doc.String()})
		}
		if err := report.WriteHTML(formatter.Writer, calcs, time.Now()); err != nil {
			return WrapExitError(ExitCommandError, "failed to render report", err)
		}
		return nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to create %s", opts.Output), err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Fprintf(formatter.ErrWriter, "warning: closing %s: %v\n", opts.Output, closeErr)
		}
	}()

	if err := report.WriteHTML(file, calcs, time.Now()); err != nil {
		return WrapExitError(ExitCommandError, "failed to render report", err)
	}
	return formatter.Success(fmt.Sprintf("Report written to %s (%d records)", opts.Output, len(calcs)))
}

// reportView is the JSON shape of a report rendered to stdout.
type reportView struct {
	Records int    `json:"records"`
	HTML    string `json:"html"`
}
