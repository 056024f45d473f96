package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AustinGrey/bake-file/internal/infra/fswatch"
	"github.com/AustinGrey/bake-file/internal/usecase"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	var workspace string
	var files []string
	var watch bool

	c := &cobra.Command{
		Use:   "validate",
		Short: "Load, merge and validate the workspace bakefiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !watch {
				res, err := ws.build(cmd.Context(), files)
				if err != nil {
					return err
				}
				printValidation(out, res, nil)
				return nil
			}

			patterns, err := resolveBakefileArgs(ws, files)
			if err != nil {
				return err
			}
			w, err := fswatch.NewWatcher()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(out, "Watching bakefiles (ctrl+c to stop)")
			uc := usecase.NewWatchBakefiles(usecase.NewBuildRegistry(ws.bakefiles), w)
			return uc.Run(ctx, ws.root, ws.cfg, patterns, func(res usecase.BuildResult, err error) {
				if ctx.Err() != nil {
					return
				}
				fmt.Fprintf(out, "[%s] ", time.Now().Format("15:04:05"))
				printValidation(out, res, err)
			})
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringSliceVarP(&files, "file", "f", nil, "Bakefile name, path or glob (repeatable; defaults to bake.yaml bakefiles)")
	c.Flags().BoolVar(&watch, "watch", false, "Re-validate whenever a bakefile changes or a new file matches a bakefile glob")
	return c
}

func printValidation(w io.Writer, res usecase.BuildResult, err error) {
	if err != nil {
		fmt.Fprintf(w, "FAIL %v\n", err)
		return
	}
	fmt.Fprintf(w, "OK %d unit(s) from %d bakefile(s): %d convertible, %d unconvertible\n",
		len(res.Bakefile.Units), len(res.Files),
		len(res.Registry.Records()), len(res.Registry.Unconvertible()))
}
