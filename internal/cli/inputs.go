package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ftoledo/fiberbudget/internal/catalog"
	"github.com/ftoledo/fiberbudget/internal/validate"
)

// calcInputs are the link parameters shared by eval and calc. Splitter
// types are given by catalogue name and resolved to their per-unit loss
// before validation.
type calcInputs struct {
	Project   string
	Distance  float64
	Splitter1 string
	Count1    int
	Splitter2 string
	Count2    int
	Splices   int
}

// addInputFlags registers the link parameter flags on cmd.
func addInputFlags(cmd *cobra.Command, in *calcInputs) {
	cmd.Flags().StringVar(&in.Project, "project", "", "project name (required)")
	cmd.Flags().Float64Var(&in.Distance, "distance", 0, "link distance in km (required)")
	cmd.Flags().StringVar(&in.Splitter1, "splitter1", "", "catalogue name of the first splitter type (required)")
	cmd.Flags().IntVar(&in.Count1, "count1", 0, "number of first-stage splitters")
	cmd.Flags().StringVar(&in.Splitter2, "splitter2", "", "catalogue name of the second splitter type")
	cmd.Flags().IntVar(&in.Count2, "count2", 0, "number of second-stage splitters")
	cmd.Flags().IntVar(&in.Splices, "splices", 0, "number of fusion splices")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("distance")
	_ = cmd.MarkFlagRequired("splitter1")
}

// resolve looks up the named splitter types in the catalogue and
// produces the fields the validator takes. An omitted second splitter
// contributes zero loss.
func (in calcInputs) resolve(cat *catalog.Catalog) (validate.Fields, error) {
	loss1, err := splitterLoss(cat, in.Splitter1)
	if err != nil {
		return validate.Fields{}, err
	}

	loss2 := 0.0
	if in.Splitter2 != "" {
		loss2, err = splitterLoss(cat, in.Splitter2)
		if err != nil {
			return validate.Fields{}, err
		}
	}

	return validate.Fields{
		ProjectName:   in.Project,
		Distance:      in.Distance,
		SplitterLoss1: loss1,
		Splitters1:    in.Count1,
		SplitterLoss2: loss2,
		Splitters2:    in.Count2,
		FusionSplices: in.Splices,
	}, nil
}

func splitterLoss(cat *catalog.Catalog, name string) (float64, error) {
	t, ok := cat.Get(name)
	if !ok {
		return 0, fmt.Errorf("unknown splitter type %q (see 'fiberbudget types')", name)
	}
	return t.Loss, nil
}
