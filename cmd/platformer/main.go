// platformer is a tilt-controlled tile platformer for the terminal.
//
// Usage:
//
//	platformer                    - Interactive world picker
//	platformer play [world-id]    - Play a world (--host/--join to race a peer)
//	platformer worlds             - List available worlds
//	platformer scores [world-id]  - Show run history and best scores
//	platformer serve              - Start SSH server for remote races
//
// Global flags:
//
//	--fps <rate>        - Override the tick rate
//	--preset <name>     - Speed preset: easy, normal, hard
//	--config <path>     - Device config YAML
//	--levels <dir>      - Load worlds from a directory instead of the built-ins
//	--db <path>         - Run history database (default: ~/.platformer/runs.db)
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilt-platformer/internal/config"
	"github.com/vovakirdan/tilt-platformer/internal/levels"
	"github.com/vovakirdan/tilt-platformer/internal/storage"
)

var (
	flagFPS       int
	flagPreset    string
	flagConfig    string
	flagLevelsDir string
	flagDBPath    string
	flagLogFile   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "platformer",
	Short: "Tilt - a tiny LED platformer in your terminal",
	Long: `Tilt is a tile platformer played on a small LED matrix.
Tilt left and right to walk, press B to jump, and reach the flag.
Collect blinking coins on the way; in a race the higher score wins.

Available commands:
  play     - Play a world directly, or race a peer over QUIC
  worlds   - Show all available worlds
  scores   - View run history and best scores
  serve    - Start SSH server for remote races

Examples:
  platformer
  platformer play 2
  platformer play 2 --host :4242
  platformer play 2 --join 192.168.1.5:4242
  platformer serve --ssh :2222`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate in ticks per second (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Speed preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to device config YAML (default $"+config.EnvPath+")")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory of world YAML files (default: built-in worlds)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.platformer/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(worldsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// env is what every command needs: the device config, the worlds and a logger.
type env struct {
	cfg     config.Config
	catalog *levels.Catalog
	logger  *log.Logger
	logFile *os.File
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return nil, err
	}
	config.ApplyPreset(&cfg, preset)
	if flagFPS > 0 {
		cfg.Timing.TickRate = flagFPS
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog, err := levels.Load(flagLevelsDir, cfg.Display.Size)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, catalog: catalog}
	var w io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		e.logFile = f
		w = f
	}
	e.logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "platformer",
		Level:           log.DebugLevel,
	})
	return e, nil
}

func (e *env) Close() {
	if e.logFile != nil {
		e.logFile.Close()
	}
}

// mustEnv loads the environment or exits.
func mustEnv() *env {
	e, err := loadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return e
}

// openStore opens the run history, warning instead of failing.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		logger.Warn("run history unavailable", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}
