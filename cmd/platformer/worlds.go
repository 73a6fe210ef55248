package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var worldsCmd = &cobra.Command{
	Use:   "worlds",
	Short: "List all available worlds",
	Long:  `Shows the worlds of the built-in set, or of --levels DIR when given.`,
	Run:   runWorlds,
}

func runWorlds(_ *cobra.Command, _ []string) {
	e := mustEnv()
	defer e.Close()

	best := map[int]int{}
	if store := openStore(e.logger); store != nil {
		if stats, err := store.AllWorldStats(); err == nil {
			for id, st := range stats {
				if st.Completed > 0 {
					best[id] = st.HighScore
				}
			}
		}
		store.Close()
	}

	fmt.Println("Available worlds:")
	fmt.Println()
	fmt.Printf("  %-4s  %-20s  %-7s  %s\n", "ID", "Name", "Size", "Best")
	fmt.Printf("  %-4s  %-20s  %-7s  %s\n", "--", "----", "----", "----")

	for _, lvl := range e.catalog.Levels() {
		size := fmt.Sprintf("%dx%d", lvl.Width(), lvl.Height())
		score := "-"
		if s, ok := best[lvl.ID]; ok {
			score = fmt.Sprint(s)
		}
		fmt.Printf("  %-4d  %-20s  %-7s  %s\n", lvl.ID, lvl.Name, size, score)
	}

	fmt.Println()
	fmt.Println("Run 'platformer play <id>' to play a world.")
}
