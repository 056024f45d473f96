package cli

import (
	"fmt"

	"github.com/AustinGrey/bake-file/internal/infra/fsworkspace"
	"github.com/AustinGrey/bake-file/internal/usecase"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var path string
	var name string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create bake.yaml and a starter bakefile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(path, name, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Workspace ready at %s\n", path)
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", ".", "Directory to initialize")
	c.Flags().StringVar(&name, "name", "", "Bakefile name (defaults to the directory name)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing bake.yaml and bakefile.yaml")
	return c
}
