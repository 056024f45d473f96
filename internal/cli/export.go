package cli

import (
	"fmt"
	"strings"

	"github.com/AustinGrey/bake-file/internal/usecase"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var workspace string
	var files []string
	var name string
	var list bool

	c := &cobra.Command{
		Use:   "export",
		Short: "Save the resolved registry to the snapshot store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			store, err := ws.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if list {
				names, err := store.ListSnapshots()
				if err != nil {
					return err
				}
				if len(names) == 0 {
					fmt.Fprintln(out, "(no snapshots stored)")
					return nil
				}
				for _, n := range names {
					fmt.Fprintf(out, "- %s\n", n)
				}
				return nil
			}

			res, err := ws.build(cmd.Context(), files)
			if err != nil {
				return err
			}

			snapName := strings.TrimSpace(name)
			if snapName == "" {
				snapName = res.Bakefile.Name
			}

			id, err := usecase.NewExportRegistry(store).Execute(snapName, res.Registry)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Exported %d unit(s)\n", len(res.Registry.Records()))
			fmt.Fprintf(out, "Snapshot: %s\n", id)
			fmt.Fprintf(out, "Store:    %s\n", ws.storePath())
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringSliceVarP(&files, "file", "f", nil, "Bakefile name, path or glob (repeatable)")
	c.Flags().StringVar(&name, "name", "", "Snapshot name (defaults to the bakefile name)")
	c.Flags().BoolVar(&list, "list", false, "List stored snapshot names instead of exporting")
	return c
}
