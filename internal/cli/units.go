package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func unitsCmd() *cobra.Command {
	var workspace string
	var files []string
	var format string

	c := &cobra.Command{
		Use:   "units",
		Short: "List the custom units resolved from the workspace bakefiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			res, err := ws.build(cmd.Context(), files)
			if err != nil {
				return err
			}
			return printUnits(cmd.OutOrStdout(), res.Registry, format)
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringSliceVarP(&files, "file", "f", nil, "Bakefile name, path or glob (repeatable)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

type unitJSON struct {
	Unit       string `json:"unit"`
	Dimension  string `json:"dimension"`
	Multiplier string `json:"multiplier"`
	BaseUnit   string `json:"base_unit"`
	Via        string `json:"via,omitempty"`
}

type unitsJSON struct {
	Prefixes      string     `json:"prefixes"`
	Units         []unitJSON `json:"units"`
	Unconvertible []string   `json:"unconvertible"`
}

func printUnits(w io.Writer, reg *domain.Registry, format string) error {
	switch format {
	case "json":
		payload := unitsJSON{
			Prefixes:      string(reg.Prefixes().Set()),
			Units:         []unitJSON{},
			Unconvertible: reg.Unconvertible(),
		}
		if payload.Unconvertible == nil {
			payload.Unconvertible = []string{}
		}
		for _, r := range reg.Records() {
			payload.Units = append(payload.Units, unitJSON{
				Unit:       r.Unit,
				Dimension:  string(r.Dimension),
				Multiplier: r.Multiplier.String(),
				BaseUnit:   r.Dimension.BaseUnit(),
				Via:        r.Via,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyUnits(w, reg)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

func printPrettyUnits(w io.Writer, reg *domain.Registry) {
	records := reg.Records()
	if len(records) == 0 && len(reg.Unconvertible()) == 0 {
		fmt.Fprintln(w, "(no custom units declared)")
		return
	}

	if len(records) > 0 {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(faintStyle).
			Headers("UNIT", "EQUALS", "DIMENSION", "VIA").
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		for _, r := range records {
			t.Row(
				"1 "+r.Unit,
				r.Multiplier.String()+" "+r.Dimension.BaseUnit(),
				string(r.Dimension),
				r.Via,
			)
		}
		fmt.Fprintln(w, t.Render())
	}

	if u := reg.Unconvertible(); len(u) > 0 {
		fmt.Fprintln(w, faintStyle.Render("No metric equivalent:"))
		for _, name := range u {
			fmt.Fprintf(w, "- %s\n", name)
		}
	}
}
