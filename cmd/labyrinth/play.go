package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/levels"
	"github.com/vovakirdan/tui-labyrinth/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play <level>",
	Short: "Play a level",
	Long: `Start playing the specified level.

Controls:
  Arrows/hjkl  - Move (two keys in one tick move diagonally)
  A/Space      - Attack adjacent enemies
  R            - Restart (after victory or defeat)
  Esc/M        - Leave the level
  ?            - Toggle full help
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Enemies move 1.5x slower
  normal - Configured enemy speed
  hard   - Enemies move about 40% faster
  fixed  - Use the config's timing as is

Examples:
  labyrinth play level1
  labyrinth play level2 --difficulty hard
  labyrinth play level3 --fps 20 --enemy-period 80ms
  labyrinth play maze --levels ./my-levels`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	levelID := args[0]

	deps, cleanup, err := buildDeps(true)
	if err != nil {
		fail("%v", err)
	}

	width, height := terminalSize()
	runErr := tui.Run(deps, width, height, tui.AppOptions{StartLevel: levelID})

	// Close store before potential exit
	cleanup()

	if errors.Is(runErr, levels.ErrLevelNotFound) {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", levelID)
		fmt.Fprintln(os.Stderr, "Run 'labyrinth list' to see available levels.")
		os.Exit(1)
	}
	if runErr != nil {
		fail("running level: %v", runErr)
	}
}
