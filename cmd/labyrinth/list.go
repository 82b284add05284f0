package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available levels",
	Long:  `Shows the levels in play order, from --levels or the built-in pack.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	all, err := levelLoader().LoadAll()
	if err != nil {
		fail("cannot load levels: %v", err)
	}

	if len(all) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxNameLen := 2, 4 // "ID", "Name" headers
	for _, lvl := range all {
		maxIDLen = max(maxIDLen, len(lvl.ID))
		maxNameLen = max(maxNameLen, len(lvl.Name))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %-7s  %-7s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Size", "Enemies", "Lights")
	fmt.Printf("  %-*s  %-*s  %-7s  %-7s  %s\n", maxIDLen, "--", maxNameLen, "----", "----", "-------", "------")

	// Print levels
	for _, lvl := range all {
		size := fmt.Sprintf("%dx%d", lvl.Width, lvl.Height)
		fmt.Printf("  %-*s  %-*s  %-7s  %-7d  %d\n", maxIDLen, lvl.ID, maxNameLen, lvl.Name, size, len(lvl.Enemies), len(lvl.Lights))
	}

	fmt.Println()
	fmt.Println("Run 'labyrinth play <id>' to play a level.")
}
