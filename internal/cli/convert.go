package cli

import (
	"fmt"
	"strings"

	"github.com/AustinGrey/bake-file/internal/usecase"
	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	var workspace string
	var files []string

	c := &cobra.Command{
		Use:   "convert <amount>",
		Short: "Convert an amount to grams or liters",
		Example: `  bake convert "2 cup"
  bake convert 3oz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			res, err := ws.build(cmd.Context(), files)
			if err != nil {
				return err
			}

			// Unquoted "2 cup" arrives as two args.
			conv, err := usecase.ConvertAmount(res.Registry, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", conv.Input, conv.Base)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringSliceVarP(&files, "file", "f", nil, "Bakefile name, path or glob (repeatable)")
	return c
}
