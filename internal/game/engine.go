package game

import (
	"context"
	"sync"
	"time"

	"bullet-hell/internal/config"
	"bullet-hell/internal/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EngineConfig holds everything needed to build an engine
type EngineConfig struct {
	Rules config.RulesConfig
}

// Observer receives per-tick statistics (metrics collectors)
type Observer interface {
	ObserveTick(duration time.Duration, stats TickStats)
}

// Engine drives a World at a fixed tick rate, or step by step for hosts that
// own their frame loop. Every tick runs under one lock, so the World only
// ever sees one tick at a time.
type Engine struct {
	mu    sync.RWMutex
	world *World
	rules config.RulesConfig
	input KeySet

	tickRate int
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
	done     chan struct{} // closed when the loop goroutine exits

	runID        string
	snapshotPool *SnapshotPool
	eventLog     *EventLog

	observer Observer
	onNotify func([]Notification)
}

// NewEngine creates an engine with a fresh world built from cfg.Rules
func NewEngine(cfg EngineConfig) *Engine {
	rules := cfg.Rules
	if rules.Simulation.TickRate <= 0 {
		rules.Simulation.TickRate = config.DefaultSimulation().TickRate
	}
	runID := uuid.NewString()

	e := &Engine{
		world:        NewWorld(rules),
		rules:        rules,
		tickRate:     rules.Simulation.TickRate,
		stopChan:     make(chan struct{}),
		runID:        runID,
		snapshotPool: NewSnapshotPool(2, rules.Player.PoolSize+rules.Enemy.PoolSize),
		eventLog:     NewEventLog(runID),
	}
	e.publish(nil)
	return e
}

// Start begins the fixed-rate game loop
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	ticker := time.NewTicker(e.TickInterval())
	stop := make(chan struct{})
	done := make(chan struct{})
	e.ticker = ticker
	e.stopChan = stop
	e.done = done
	e.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				// select picks at random when both are ready
				select {
				case <-stop:
					return
				default:
				}
				e.tick()
			case <-stop:
				return
			}
		}
	}()

	logger.Log.WithFields(logrus.Fields{
		"tick_rate": e.tickRate,
		"run_id":    e.runID,
	}).Info("Simulation engine started")
}

// Stop stops the game loop and waits for an in-flight tick to finish, so no
// tick runs after it returns. Safe to call more than once, but not from an
// OnNotify handler or observer, which run on the loop goroutine.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}

	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	done := e.done
	e.mu.Unlock()

	// A tick blocked on e.mu completes before the loop sees stop
	<-done
	logger.Log.WithField("tick", e.GetSnapshot().TickNumber).Info("Simulation engine stopped")
}

// Run starts the loop and blocks until ctx is cancelled and the loop has
// stopped
func (e *Engine) Run(ctx context.Context) error {
	e.Start()
	<-ctx.Done()
	e.Stop()
	return nil
}

// TickInterval is the fixed elapsed time of one loop tick
func (e *Engine) TickInterval() time.Duration {
	return time.Second / time.Duration(e.tickRate)
}

// tick is called tickRate times per second with the latched input
func (e *Engine) tick() {
	e.mu.RLock()
	keys := e.input
	e.mu.RUnlock()
	e.Step(e.TickInterval(), keys)
}

// Step advances the simulation once with an explicit elapsed time and input.
// Hosts with their own frame loop call this instead of Start.
func (e *Engine) Step(elapsed time.Duration, keys KeySet) TickStats {
	start := time.Now()

	e.mu.Lock()
	stats := e.world.Tick(elapsed, keys)
	notes := e.world.Drain()
	if !stats.Skipped {
		e.record(stats, notes)
		e.publish(notes)
	}
	observer := e.observer
	onNotify := e.onNotify
	e.mu.Unlock()

	if observer != nil && !stats.Skipped {
		observer.ObserveTick(time.Since(start), stats)
	}
	if onNotify != nil && len(notes) > 0 {
		onNotify(notes)
	}
	return stats
}

// record writes notifications to the event log and the process log
func (e *Engine) record(stats TickStats, notes []Notification) {
	for tag, n := range stats.Dropped {
		if n > 0 {
			e.eventLog.EmitSimple(EventTypeShotDropped, stats.Tick, Tag(tag).String(),
				ShotDroppedPayload{Tag: Tag(tag), Count: n})
		}
	}

	for _, n := range notes {
		e.eventLog.Emit(EventFromNotification(n))

		fields := logrus.Fields{"tick": n.Tick, "tag": n.Tag}
		switch n.Kind {
		case NotifyHit:
			fields["health"] = n.Health
			logger.Log.WithFields(fields).Debug("Hit")
		case NotifyDeath:
			logger.Log.WithFields(fields).Info("Entity died")
		case NotifyGameOver:
			logger.Log.WithField("outcome", n.Outcome).Info("Game over")
		}
	}
}

// publish produces the snapshot for readers
func (e *Engine) publish(notes []Notification) {
	snap := e.snapshotPool.AcquireWrite()
	e.world.fillSnapshot(snap, notes)
	e.snapshotPool.PublishWrite()
}

// SetInput latches the keys used by the fixed-rate loop
func (e *Engine) SetInput(keys KeySet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input = keys
}

// Input returns the latched keys
func (e *Engine) Input() KeySet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.input
}

// Reset starts a new round from the configured rules
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.world.Reset()
	e.input = 0
	e.publish(nil)

	e.eventLog.EmitSimple(EventTypeRoundStart, 0, "", RoundStartPayload{
		PlayerHealth: e.rules.Player.Health,
		EnemyHealth:  e.rules.Enemy.Health,
		PlayerPool:   e.rules.Player.PoolSize,
		EnemyPool:    e.rules.Enemy.PoolSize,
	})
	logger.Log.WithField("run_id", e.runID).Info("Round reset")
}

// GetSnapshot returns a copy of the latest published snapshot
func (e *Engine) GetSnapshot() *GameSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotPool.AcquireRead().Clone()
}

// Phase returns the current round phase
func (e *Engine) Phase() Phase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.world.Phase()
}

// SetObserver installs the per-tick statistics observer
func (e *Engine) SetObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = o
}

// OnNotify installs a handler called after each tick that produced
// notifications. It runs on the ticking goroutine, outside the engine lock.
func (e *Engine) OnNotify(fn func([]Notification)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onNotify = fn
}

// RunID identifies this engine instance in logs and events
func (e *Engine) RunID() string {
	return e.runID
}

// Rules returns the rules the engine was built with
func (e *Engine) Rules() config.RulesConfig {
	return e.rules
}

// StartEventLog initializes the event logging system
func (e *Engine) StartEventLog(filePath string) error {
	if err := e.eventLog.Start(filePath); err != nil {
		return err
	}
	e.eventLog.EmitSimple(EventTypeRoundStart, 0, "", RoundStartPayload{
		PlayerHealth: e.rules.Player.Health,
		EnemyHealth:  e.rules.Enemy.Health,
		PlayerPool:   e.rules.Player.PoolSize,
		EnemyPool:    e.rules.Enemy.PoolSize,
	})
	return nil
}

// StopEventLog gracefully stops the event logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns event log statistics for monitoring
func (e *Engine) GetEventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}
