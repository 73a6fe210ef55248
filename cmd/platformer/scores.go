package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilt-platformer/internal/storage"
)

var (
	flagRecent int
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [world-id]",
	Short: "Show run history and best scores",
	Long: `Without a world id, prints a summary of every world you have played.
With a world id, prints the top 10 completed runs on that world.

Examples:
  platformer scores
  platformer scores 2
  platformer scores --recent 20
  platformer scores 2 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagRecent, "recent", 0, "Show the N most recent runs instead")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the run history of the given world")
}

func runScores(_ *cobra.Command, args []string) {
	e := mustEnv()
	defer e.Close()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagRecent > 0:
		err = printRecent(store, flagRecent)
	case len(args) == 0:
		if flagClear {
			err = fmt.Errorf("--clear needs a world id")
			break
		}
		err = printSummary(e, store)
	default:
		var id int
		id, err = strconv.Atoi(args[0])
		if err != nil {
			err = fmt.Errorf("invalid world id %q", args[0])
			break
		}
		if flagClear {
			if err = store.ClearRuns(id); err == nil {
				fmt.Printf("Cleared the run history of world %d.\n", id)
			}
			break
		}
		err = printWorld(e, store, id)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printWorld(e *env, store *storage.Store, id int) error {
	lvl, err := e.catalog.Get(id)
	if err != nil {
		return err
	}
	runs, err := store.TopScores(id, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %d %s\n", lvl.ID, lvl.Name)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("Nobody has reached the flag yet.")
		fmt.Println()
		fmt.Printf("Play 'platformer play %d' to set the first score!\n", id)
		return nil
	}

	fmt.Printf("  %-4s  %-6s  %-8s  %-12s  %s\n", "Rank", "Score", "Result", "Player", "Date")
	fmt.Printf("  %-4s  %-6s  %-8s  %-12s  %s\n", "----", "-----", "------", "------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-6d  %-8s  %-12s  %s\n",
			i+1, r.Score, r.Outcome, r.Player, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.WorldStats(id)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d  Runs: %d  Finished: %d  Wins: %d\n",
		stats.HighScore, stats.Runs, stats.Completed, stats.Wins)
	return nil
}

func printSummary(e *env, store *storage.Store) error {
	stats, err := store.AllWorldStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-20s  %-5s  %-8s  %-5s  %s\n", "ID", "Name", "Runs", "Finished", "Best", "Last played")
	for _, lvl := range e.catalog.Levels() {
		st, ok := stats[lvl.ID]
		if !ok {
			continue
		}
		fmt.Printf("  %-4d  %-20s  %-5d  %-8d  %-5d  %s\n",
			lvl.ID, lvl.Name, st.Runs, st.Completed, st.HighScore, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func printRecent(store *storage.Store, n int) error {
	runs, err := store.RecentRuns(n)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-5s  %-6s  %-8s  %-5s  %s\n", "Date", "World", "Score", "Result", "Race", "Player")
	for _, r := range runs {
		race := "solo"
		if r.Multiplayer {
			race = "vs " + strconv.Itoa(r.PartnerScore)
		}
		fmt.Printf("  %-16s  %-5d  %-6d  %-8s  %-5s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.WorldID, r.Score, r.Outcome, race, r.Player)
	}
	return nil
}
