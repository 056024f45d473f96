package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AustinGrey/bake-file/internal/infra/fsworkspace"
	"github.com/AustinGrey/bake-file/internal/infra/logger"
	"github.com/AustinGrey/bake-file/internal/infra/workspacefinder"
	"github.com/AustinGrey/bake-file/internal/ui/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	var cleanup func() error

	cmd := &cobra.Command{
		Use:          "bake",
		Short:        "bake: custom kitchen units for recipe scaling",
		SilenceUsage: true,
		// Logs go to the enclosing workspace; outside one they are discarded.
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			wd, err := os.Getwd()
			if err != nil {
				return
			}
			root, ferr := workspacefinder.NewFinder().FindRoot(wd)
			if ferr != nil {
				return
			}
			cleanup, _ = logger.Setup(logger.Config{Root: root, Debug: debug})
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if cleanup != nil {
				_ = cleanup()
				cleanup = nil
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			wd, _ = filepath.Abs(wd)

			deps := tui.Deps{
				WorkspaceLocator:     workspacefinder.NewFinder(),
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				Registry:             registryLoader{},
				StartDir:             wd,
				Logger:               logger.Component("tui"),
				Debug:                debug,
			}

			return tui.Run(cmd.Context(), deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .bake/logs/bake.log")

	cmd.AddCommand(
		initCmd(),
		validateCmd(),
		unitsCmd(),
		convertCmd(),
		classifyCmd(),
		exportCmd(),
		versionCmd(),
	)
	return cmd
}
