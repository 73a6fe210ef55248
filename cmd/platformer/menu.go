package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilt-platformer/internal/platform/tui"
)

func runMenu(_ *cobra.Command, _ []string) {
	e := mustEnv()
	defer e.Close()

	store := openStore(e.logger)
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	err := tui.RunSession(tui.SessionConfig{
		Catalog:     e.catalog,
		Store:       store,
		Settings:    e.cfg.Settings(),
		ScrollSpeed: e.cfg.ScrollSpeed(),
		Logger:      e.logger,
	}, width, height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
