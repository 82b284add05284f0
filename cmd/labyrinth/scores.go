package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-labyrinth/internal/platform/tui"
	"github.com/vovakirdan/tui-labyrinth/internal/storage"
)

var (
	flagClear  bool
	flagRecent bool
	flagBrowse bool
	flagLimit  int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show run history",
	Long: `Display recorded runs.

Without a level, prints a summary per level followed by the latest runs.
With a level, prints its fastest escapes (or latest runs with --recent).

Examples:
  labyrinth scores
  labyrinth scores level1
  labyrinth scores level1 --recent
  labyrinth scores level1 --clear
  labyrinth scores --browse`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the history (of one level, or of all levels)")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the latest runs instead of the fastest wins")
	scoresCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive scoreboard")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
}

func runScores(_ *cobra.Command, args []string) {
	if flagBrowse {
		browseScores()
		return
	}

	levelID := ""
	if len(args) == 1 {
		levelID = args[0]
		if !levelExists(levelID) {
			fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", levelID)
			fmt.Fprintln(os.Stderr, "Run 'labyrinth list' to see available levels.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening run history: %v", err)
	}
	defer store.Close()

	if flagClear {
		n, err := store.ClearRuns(levelID)
		if err != nil {
			store.Close()
			fail("%v", err)
		}
		fmt.Printf("Removed %d runs.\n", n)
		return
	}

	if levelID == "" {
		if err := printSummary(store); err != nil {
			store.Close()
			fail("%v", err)
		}
		return
	}
	if err := printLevel(store, levelID); err != nil {
		store.Close()
		fail("%v", err)
	}
}

func levelExists(id string) bool {
	ids, err := levelLoader().ListIDs()
	if err != nil {
		fail("cannot load levels: %v", err)
	}
	for _, known := range ids {
		if known == id {
			return true
		}
	}
	return false
}

func printSummary(store *storage.Store) error {
	stats, err := store.AllLevelStats()
	if err != nil {
		return err
	}

	fmt.Println("Run history")
	fmt.Println()

	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'labyrinth' to play!")
		return nil
	}

	fmt.Printf("  %-12s  %-5s  %-5s  %-6s  %-10s  %s\n", "Level", "Runs", "Won", "Lost", "Best", "Last played")
	fmt.Printf("  %-12s  %-5s  %-5s  %-6s  %-10s  %s\n", "-----", "----", "---", "----", "----", "-----------")
	for _, st := range stats {
		best := "-"
		if st.BestTicks > 0 {
			best = fmt.Sprintf("%d ticks", st.BestTicks)
		}
		fmt.Printf("  %-12s  %-5d  %-5d  %-6d  %-10s  %s\n",
			st.LevelID, st.Runs, st.Wins, st.Losses, best, formatDate(st.LastPlayed))
	}

	runs, err := store.RecentRuns(flagLimit)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Latest runs:")
	printRuns(runs, true)
	return nil
}

func printLevel(store *storage.Store, levelID string) error {
	var (
		runs  []storage.RunResult
		err   error
		title = "Fastest escapes"
	)
	if flagRecent {
		title = "Latest runs"
		runs, err = store.LevelRuns(levelID, flagLimit)
	} else {
		runs, err = store.BestRuns(levelID, flagLimit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s - %s\n", title, levelID)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'labyrinth play %s' to set the first time!\n", levelID)
		return nil
	}
	printRuns(runs, false)

	st, err := store.LevelStats(levelID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Runs: %d  Won: %d  Lost: %d  Kills: %d\n", st.Runs, st.Wins, st.Losses, st.TotalKills)
	if st.BestTicks > 0 {
		fmt.Printf("Best: %d ticks\n", st.BestTicks)
	}
	return nil
}

func printRuns(runs []storage.RunResult, withLevel bool) {
	if withLevel {
		fmt.Printf("  %-4s  %-12s  %-9s  %-6s  %-5s  %-10s  %s\n", "Rank", "Level", "Result", "Ticks", "Kills", "Player", "Date")
		fmt.Printf("  %-4s  %-12s  %-9s  %-6s  %-5s  %-10s  %s\n", "----", "-----", "------", "-----", "-----", "------", "----")
	} else {
		fmt.Printf("  %-4s  %-9s  %-6s  %-5s  %-3s  %-10s  %s\n", "Rank", "Result", "Ticks", "Kills", "HP", "Player", "Date")
		fmt.Printf("  %-4s  %-9s  %-6s  %-5s  %-3s  %-10s  %s\n", "----", "------", "-----", "-----", "--", "------", "----")
	}

	for i, r := range runs {
		if withLevel {
			fmt.Printf("  %-4d  %-12s  %-9s  %-6d  %-5d  %-10s  %s\n",
				i+1, r.LevelID, r.Outcome, r.Ticks, r.Kills, r.Player, formatDate(r.CreatedAt))
		} else {
			fmt.Printf("  %-4d  %-9s  %-6d  %-5d  %-3d  %-10s  %s\n",
				i+1, r.Outcome, r.Ticks, r.Kills, r.HealthLeft, r.Player, formatDate(r.CreatedAt))
		}
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func browseScores() {
	deps, cleanup, err := buildDeps(true)
	if err != nil {
		fail("%v", err)
	}

	width, height := terminalSize()
	runErr := tui.Run(deps, width, height, tui.AppOptions{StartScene: tui.SceneScoreboard})
	cleanup()

	if runErr != nil {
		fail("%v", runErr)
	}
}
