package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-chi-calculator/internal/tui"
)

func newTUICmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive keypad",
		Long: `Starts the terminal keypad.

Navigation:
  F1-F4       Switch mode
  F5          Toggle RAD/DEG
  Tab         Next base (PROGRAMMING)
  Arrows      Move between buttons
  Space       Press the selected button
  Enter       Evaluate
  Ctrl+Q      Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := root.engine()
			if err != nil {
				return err
			}

			p := tea.NewProgram(tui.New(engine), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
