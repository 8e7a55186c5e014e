// =============================================================================
// BULLET HELL - SPECTATOR
// =============================================================================
// Follows the server's WebSocket feed and logs hits, deaths and round results.
//
// USAGE:
//   go run ./cmd/server
//   FEED_URL=ws://localhost:3000/ws go run ./cmd/spectate
// =============================================================================
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bullet-hell/internal/game"
	"bullet-hell/internal/logger"
	"bullet-hell/internal/spectate"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load(".env")
	logger.Init()

	feedURL := os.Getenv("FEED_URL")
	if feedURL == "" {
		feedURL = "ws://localhost:3000/ws"
	}

	client := spectate.NewClient(spectate.Config{
		URL:   feedURL,
		Token: os.Getenv("CONTROL_TOKEN"),
	})

	var lastPhase game.Phase
	client.OnState(func(snap *game.GameSnapshot) {
		if snap.Phase != lastPhase {
			logger.Log.WithFields(logrus.Fields{
				"tick":    snap.TickNumber,
				"phase":   snap.Phase.String(),
				"outcome": snap.Outcome.String(),
			}).Info("Phase changed")
			lastPhase = snap.Phase
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				states, notes := client.Stats()
				logger.Log.WithFields(logrus.Fields{
					"snapshots":     states,
					"notifications": notes,
				}).Info("Feed stats")
			}
		}
	}()

	logger.Log.WithField("url", feedURL).Info("Following feed. Press Ctrl+C to stop.")
	if err := client.Run(ctx); err != nil {
		logger.Log.WithError(err).Fatal("Spectator failed")
	}
}
