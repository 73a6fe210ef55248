package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilt-platformer/internal/game"
	"github.com/vovakirdan/tilt-platformer/internal/netlink"
	"github.com/vovakirdan/tilt-platformer/internal/platform/tui"
)

var (
	flagHost string
	flagJoin string
)

var playCmd = &cobra.Command{
	Use:   "play [world-id]",
	Short: "Play a world",
	Long: `Play one world. Without an id the first world is used.

Controls:
  Left/Right, h/l   - Tilt
  Space/Up, b, x    - Jump (button B)
  a, z              - Back (button A)
  c                 - Disconnect from partner (A+B)
  q, Ctrl+C         - Quit

Racing a peer:
  One player hosts with --host, the other joins with --join.
  Both must pass the same world id. The higher score at the flag wins;
  falling after your partner finished forfeits the race.

Examples:
  platformer play
  platformer play 3 --preset easy
  platformer play 2 --host :4242
  platformer play 2 --join 10.0.0.7:4242`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagHost, "host", "", "Host a race on this UDP address")
	playCmd.Flags().StringVar(&flagJoin, "join", "", "Join a race hosted at this address")
	playCmd.MarkFlagsMutuallyExclusive("host", "join")
}

func runPlay(_ *cobra.Command, args []string) {
	e := mustEnv()
	defer e.Close()

	worldID := e.catalog.First()
	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid world id %q\n", args[0])
			os.Exit(1)
		}
		worldID = id
	}
	lvl, err := e.catalog.Get(worldID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'platformer worlds' to see available worlds.")
		os.Exit(1)
	}

	race := tui.RaceConfig{
		WorldID:     lvl.ID,
		WorldName:   lvl.Name,
		Worlds:      e.catalog,
		Settings:    e.cfg.Settings(),
		ScrollSpeed: e.cfg.ScrollSpeed(),
		Logger:      e.logger,
	}

	if flagHost != "" || flagJoin != "" {
		peer, err := connectPeer(e)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		race.Link = peer
		race.Packets = peer.Packets()
	}

	store := openStore(e.logger)
	if store != nil {
		defer store.Close()
		race.Results = store
	}

	res, err := tui.RunRace(race)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printResult(lvl.Name, res)

	if store != nil {
		best, err := store.HighScore(lvl.ID)
		if err != nil {
			e.logger.Warn("cannot read best score", "world", lvl.ID, "err", err)
		} else if best > 0 {
			fmt.Printf("Best on this world: %d\n", best)
		}
	}
}

func connectPeer(e *env) (*netlink.Peer, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := netlink.Options{Logger: e.logger.WithPrefix("netlink")}

	var (
		peer *netlink.Peer
		err  error
	)
	if flagHost != "" {
		fmt.Printf("Waiting for a partner on %s (Ctrl+C to cancel)...\n", flagHost)
		peer, err = netlink.Host(ctx, flagHost, opts)
	} else {
		fmt.Printf("Joining %s...\n", flagJoin)
		peer, err = netlink.Join(ctx, flagJoin, opts)
	}
	if err != nil {
		return nil, err
	}
	fmt.Printf("Racing %s\n", peer.RemoteAddr())
	return peer, nil
}

func printResult(name string, res game.Result) {
	fmt.Printf("%s: %s, score %d", name, res.Outcome, res.Score)
	if res.Multiplayer && res.PartnerScore >= 0 && res.Outcome != game.OutcomeQuit {
		fmt.Printf(" vs %d", res.PartnerScore)
	}
	fmt.Println()
}
