package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-labyrinth/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the level picker",
	Long: `Start Labyrinth in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to start a level.
Leaving a level returns you to the menu; Tab shows run history.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter        - Play level
  Tab          - Run history
  Q            - Quit

Examples:
  labyrinth menu
  labyrinth menu --fps 20
  labyrinth menu --db ./runs.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	deps, cleanup, err := buildDeps(true)
	if err != nil {
		fail("%v", err)
	}

	width, height := terminalSize()
	runErr := tui.Run(deps, width, height, tui.AppOptions{})
	cleanup()

	if runErr != nil {
		fail("%v", runErr)
	}
}
