package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ftoledo/fiberbudget/internal/loss"
)

// NewCalcCommand creates the calc command: validate, calculate, and
// persist a record to the history.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	in := &calcInputs{}
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the final signal and save it to the history",
		Long: `Validate the link parameters, calculate the final signal, and store
the record in the calculation history under the logged-in user.

Any account level may record calculations.

Example:
  fiberbudget calc -u user_basic -p basic123 --project Link-A --distance 12.34 --splitter1 standard-1x8 --count1 2 --splices 4`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(rootOpts, in, *creds, cmd)
		},
	}

	addInputFlags(cmd, in)
	addCredentialFlags(cmd, creds)

	return cmd
}

func runCalc(opts *RootOptions, in *calcInputs, creds credentials, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	cat, err := loadCatalog(opts)
	if err != nil {
		return err
	}

	fields, err := in.resolve(cat)
	if err != nil {
		return outputError(formatter, ExitFailure, ErrCodeCatalog, err.Error(), nil)
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

	rec, err := sess.RecordCalculation(cmd.Context(), fields)
	if err != nil {
		return domainError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(viewOf(rec))
	}

	fmt.Fprintf(formatter.Writer, "Saved calculation #%d for %s\n", rec.ID, rec.ProjectName)
	fmt.Fprintf(formatter.Writer, "Final signal: %.2f dB\n", loss.Round2(rec.FinalSignal))
	return nil
}
