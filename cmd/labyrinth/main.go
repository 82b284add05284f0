// labyrinth is a terminal labyrinth crawler: find the golden tile while
// patrolling enemies roam the dark.
//
// Usage:
//
//	labyrinth                   - Start the level picker (same as menu)
//	labyrinth list              - List available levels
//	labyrinth play <level>      - Play one level directly
//	labyrinth menu              - Level picker loop
//	labyrinth scores [level]    - Show run history
//	labyrinth serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>              - Ticks per second (default from config: 10)
//	--enemy-period <duration> - Time between enemy steps (default from config: 100ms)
//	--config <path>           - Custom config YAML
//	--difficulty <preset>     - easy, normal, hard or fixed
//	--levels <dir>            - Load levels from a directory instead of the built-in pack
//	--db <path>               - Run history database (default: ~/.labyrinth/runs.db)
//	--log-level <level>       - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS         int
	flagEnemyPeriod time.Duration
	flagConfig      string
	flagDifficulty  string
	flagLevels      string
	flagDBPath      string
	flagLogLevel    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "labyrinth",
	Short: "Labyrinth - a lantern-lit maze crawler for your terminal",
	Long: `Labyrinth drops you in a dark maze. Your light only reaches a few
tiles; collect lanterns to see further, strike down the patrolling
enemies and reach the golden tile before they wear you down.

Available commands:
  list     - Show all levels
  play     - Play a specific level directly
  menu     - Interactive level picker (default)
  scores   - View run history
  serve    - Start SSH server for remote play

Examples:
  labyrinth
  labyrinth play level2 --difficulty hard
  labyrinth scores level1
  labyrinth serve --ssh :2222`,
	Run: runMenu,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 0, "Tick rate in ticks per second (0 = from config)")
	pf.DurationVar(&flagEnemyPeriod, "enemy-period", 0, "Time between enemy steps, e.g. 150ms (0 = from config)")
	pf.StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLevels, "levels", "", "Directory with level YAML files (default: built-in levels)")
	pf.StringVar(&flagDBPath, "db", "~/.labyrinth/runs.db", "Path to run history database")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
