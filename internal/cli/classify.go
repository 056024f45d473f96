package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/usecase"
	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	var prefixes string

	c := &cobra.Command{
		Use:   "classify <string>",
		Short: "Show how a string reads under the amount grammar (no workspace needed)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := domain.PrefixTableFor(domain.PrefixSet(prefixes))
			if err != nil {
				return err
			}
			printClassification(cmd.OutOrStdout(), usecase.ClassifyInput(table, strings.Join(args, " ")))
			return nil
		},
	}

	c.Flags().StringVar(&prefixes, "prefixes", string(domain.PrefixesFull), "Prefix table: full|reduced")
	return c
}

func printClassification(w io.Writer, c usecase.Classification) {
	fmt.Fprintf(w, "Input:     %q\n", c.Input)
	if !c.IsAmount {
		fmt.Fprintln(w, "Amount:    no (expected \"<number> <unit>\")")
		return
	}

	kind := "non-metric"
	if c.Metric {
		kind = "metric"
	}
	fmt.Fprintf(w, "Amount:    yes (%s)\n", kind)
	fmt.Fprintf(w, "Value:     %s\n", c.Amount.Value.String())
	fmt.Fprintf(w, "Unit:      %s (%s)\n", c.Unit.Token, c.Unit.Class)
	if c.Unit.Class == domain.ClassMetric {
		prefix := c.Unit.Metric.Prefix
		if prefix == "" {
			prefix = "(none)"
		}
		fmt.Fprintf(w, "Prefix:    %s (10^%d)\n", prefix, c.Unit.Metric.Exponent)
		fmt.Fprintf(w, "Dimension: %s\n", c.Unit.Metric.Dimension)
	}
}
