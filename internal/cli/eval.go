package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ftoledo/fiberbudget/internal/loss"
	"github.com/ftoledo/fiberbudget/internal/validate"
)

// NewEvalCommand creates the eval command: validate and calculate
// without touching the database.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	in := &calcInputs{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Calculate the final signal without saving it",
		Long: `Validate the link parameters and print the resulting final signal.

Nothing is persisted and no login is required. Use calc to save the
result to the history.

Example:
  fiberbudget eval --project Link-A --distance 12.34 --splitter1 standard-1x8 --count1 2 --splices 4`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, in, cmd)
		},
	}

	addInputFlags(cmd, in)

	return cmd
}

func runEval(opts *RootOptions, in *calcInputs, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	cat, err := loadCatalog(opts)
	if err != nil {
		return err
	}

	fields, err := in.resolve(cat)
	if err != nil {
		return outputError(formatter, ExitFailure, ErrCodeCatalog, err.Error(), nil)
	}

	if ferr := validate.Check(fields); ferr != nil {
		return domainError(formatter, ferr)
	}

	final := loss.Calculate(loss.Inputs{
		Distance:      fields.Distance,
		SplitterLoss1: fields.SplitterLoss1,
		Splitters1:    fields.Splitters1,
		SplitterLoss2: fields.SplitterLoss2,
		Splitters2:    fields.Splitters2,
		FusionSplices: fields.FusionSplices,
	})

	if formatter.Format == "json" {
		v := viewOf(calculationOf(fields, final))
		return formatter.Success(v)
	}

	fmt.Fprintf(formatter.Writer, "Final signal: %.2f dB\n", loss.Round2(final))
	return nil
}
