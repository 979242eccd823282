package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newEvalCmd(root *rootOptions) *cobra.Command {
	var mode, base, angle string

	c := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression",
		Long: `Evaluates an expression the way the keypad's = button does and prints the
formatted result. An advisory, if any, is printed on a second line.

Examples:
  calc eval "2^10"
  calc eval --mode physics "10 m to ft"
  calc eval --mode programming --base hex "FF AND 0F"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, b, a, err := parseSelectors(mode, base, angle)
			if err != nil {
				return err
			}
			engine, err := root.engine()
			if err != nil {
				return err
			}

			res, err := engine.Calculate(strings.Join(args, " "), m, b, a)
			if err != nil {
				return fmt.Errorf("evaluating %q: %w", res.Expression, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			if res.Advisory != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Advisory)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&mode, "mode", "m", "generic", "calculator mode (generic, physics, programming, economics)")
	c.Flags().StringVarP(&base, "base", "b", "dec", "number base in programming mode (bin, oct, dec, hex)")
	c.Flags().StringVarP(&angle, "angle", "a", "rad", "angle unit for trigonometry (rad, deg)")
	return c
}
