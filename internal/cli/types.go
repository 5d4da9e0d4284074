package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// splitterView is the JSON shape of one catalogue entry.
type splitterView struct {
	Name  string  `json:"name"`
	Ratio string  `json:"ratio"`
	Loss  float64 `json:"loss_db"`
}

// NewTypesCommand creates the types command: print the splitter
// catalogue. No login is required.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the available splitter types",
		Long: `List the splitter types available to eval and calc, smallest first.

The built-in catalogue is used unless --catalog points at a directory
of .cue catalogue files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes(rootOpts, cmd)
		},
	}

	return cmd
}

func runTypes(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	cat, err := loadCatalog(opts)
	if err != nil {
		return err
	}

	types := cat.List()

	if formatter.Format == "json" {
		views := make([]splitterView, 0, len(types))
		for _, t := range types {
			views = append(views, splitterView{Name: t.Name, Ratio: t.Ratio, Loss: t.Loss})
		}
		return formatter.Success(views)
	}

	fmt.Fprintf(formatter.Writer, "%-20s  %-6s  %s\n", "NAME", "RATIO", "LOSS (dB)")
	for _, t := range types {
		fmt.Fprintf(formatter.Writer, "%-20s  %-6s  %g\n", t.Name, t.Ratio, t.Loss)
	}
	return nil
}
