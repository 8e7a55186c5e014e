// =============================================================================
// BULLET HELL - SIMULATION SERVER
// =============================================================================
// Runs the simulation at a fixed tick rate and exposes it over HTTP:
// - /api/state, /api/stats, /api/frame.png for inspection
// - /api/input, /api/reset for control (bearer token when CONTROL_TOKEN is set)
// - /ws for the live snapshot and notification feed
// - pprof and /metrics on the localhost debug server
//
// USAGE:
//   go run ./cmd/server
//   go run ./cmd/spectate   (in another terminal)
// =============================================================================
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bullet-hell/internal/api"
	"bullet-hell/internal/config"
	"bullet-hell/internal/game"
	"bullet-hell/internal/logger"
	"bullet-hell/internal/render"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	envErr := godotenv.Load("../.env")
	if envErr != nil {
		envErr = godotenv.Load(".env")
	}
	logger.Init()
	if envErr != nil {
		logger.Log.Info("No .env file found, using environment variables only")
	}

	appConfig := config.Load()
	rules := appConfig.Rules
	serverCfg := appConfig.Server

	logger.Log.WithFields(logrus.Fields{
		"tick_rate":    rules.Simulation.TickRate,
		"arena":        fmt.Sprintf("%gx%g", rules.Simulation.ArenaWidth, rules.Simulation.ArenaHeight),
		"player_pool":  rules.Player.PoolSize,
		"enemy_pool":   rules.Enemy.PoolSize,
		"enemy_health": rules.Enemy.Health,
	}).Info("BULLET HELL - simulation server")

	engine := game.NewEngine(game.EngineConfig{Rules: rules})
	engine.SetObserver(api.NewMetricsObserver())

	if err := engine.StartEventLog(appConfig.EventLog.Path); err != nil {
		logger.Log.WithError(err).Warn("Event log disabled")
	} else {
		logger.Log.WithField("path", appConfig.EventLog.Path).Info("Event log started")
	}
	defer engine.StopEventLog()

	renderer := render.New(serverCfg.FrameWidth, serverCfg.FrameHeight, rules.Simulation)
	server := api.NewServer(engine, renderer, serverCfg)
	engine.OnNotify(server.Hub().PublishNotifications)

	if serverCfg.ControlToken == "" {
		logger.Log.Warn("CONTROL_TOKEN not set - input and reset are open to any client")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", serverCfg.Port)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(ctx)
	})
	g.Go(func() error {
		return server.Run(ctx, addr)
	})
	g.Go(func() error {
		return api.RunDebugServer(ctx, appConfig.Debug)
	})

	logger.Log.WithField("url", "http://localhost"+addr).Info("Server ready! Press Ctrl+C to stop.")

	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Error("Server stopped with error")
		engine.StopEventLog()
		os.Exit(1)
	}
	logger.Log.Info("Goodbye!")
}
