// =============================================================================
// BULLET HELL - TERMINAL
// =============================================================================
// Plays the simulation in a terminal. Arrows/WASD move, r restarts, q quits.
// Logs go to stderr so redirect them (2>bullet-hell.log) to keep the screen clean.
// =============================================================================
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bullet-hell/internal/config"
	"bullet-hell/internal/logger"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	logger.Init()
	logger.Log.SetOutput(os.Stderr)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	newTUI(screen, config.Load().Rules).run(ctx)
}
