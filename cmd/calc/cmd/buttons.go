package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"go-chi-calculator/internal/calculator"
)

func newButtonsCmd(root *rootOptions) *cobra.Command {
	var mode, base string

	c := &cobra.Command{
		Use:   "buttons",
		Short: "List the keypad of a mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, b, _, err := parseSelectors(mode, base, string(calculator.Radians))
			if err != nil {
				return err
			}
			engine, err := root.engine()
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("DISPLAY", "VALUE", "KIND", "ENABLED", "TITLE")
			for _, btn := range engine.Layout(m) {
				if btn.Value == " " {
					continue
				}
				t.Row(btn.Display, strconv.Quote(btn.Value), string(btn.Kind),
					strconv.FormatBool(calculator.Enabled(btn, m, b)), btn.Title)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s / %s\n", m, b)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	c.Flags().StringVarP(&mode, "mode", "m", "generic", "calculator mode (generic, physics, programming, economics)")
	c.Flags().StringVarP(&base, "base", "b", "dec", "number base in programming mode (bin, oct, dec, hex)")
	return c
}
