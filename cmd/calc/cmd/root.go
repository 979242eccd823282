// Package cmd implements the calc command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/server"
)

type rootOptions struct {
	cfgFile string
}

// NewRootCmd builds the calc command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "calc",
		Short: "Multi-mode calculator",
		Long: `calc evaluates expressions in four calculator modes:

  GENERIC      arithmetic and scientific functions
  PHYSICS      physical units and constants
  PROGRAMMING  BIN/OCT/DEC/HEX integers and bitwise operators
  ECONOMICS    currencies

It can also serve the HTTP API or run an interactive terminal keypad.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: ./calculator.toml or $CALC_CONFIG)")

	root.AddCommand(
		newEvalCmd(opts),
		newButtonsCmd(opts),
		newServeCmd(opts),
		newTUICmd(opts),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.cfgFile != "" {
		if err := os.Setenv(config.Env, o.cfgFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) engine() (*calculator.Engine, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return server.NewEngine(cfg)
}

// parseSelectors parses the --mode/--base/--angle flags. The base is forced
// to DEC outside PROGRAMMING.
func parseSelectors(mode, base, angle string) (calculator.Mode, calculator.Base, calculator.AngleUnit, error) {
	m, err := calculator.ParseMode(mode)
	if err != nil {
		return "", "", "", err
	}
	b, err := calculator.ParseBase(base)
	if err != nil {
		return "", "", "", err
	}
	if m != calculator.Programming {
		b = calculator.Dec
	}
	a, err := calculator.ParseAngle(angle)
	if err != nil {
		return "", "", "", err
	}
	return m, b, a, nil
}
