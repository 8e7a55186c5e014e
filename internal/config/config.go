// Package config provides centralized configuration management.
// Every tunable of the simulation and its hosts is declared here with a default
// and an optional environment override.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimulationConfig holds the per-tick scheduling and arena settings.
type SimulationConfig struct {
	TickRate          int     // Ticks per second driven by the engine loop
	ArenaWidth        float64 // Arena width centered on the origin (0 disables culling)
	ArenaHeight       float64 // Arena height centered on the origin (0 disables culling)
	NormalizeDiagonal bool    // Scale two-key player input to unit length
}

// DefaultSimulation returns the default simulation configuration.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		TickRate:          60,
		ArenaWidth:        1280,
		ArenaHeight:       720,
		NormalizeDiagonal: false, // Additive diagonal speed, as the prototype plays
	}
}

// SimulationFromEnv returns simulation configuration with environment overrides.
func SimulationFromEnv() SimulationConfig {
	cfg := DefaultSimulation()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if w := getEnvFloat("ARENA_WIDTH", -1); w >= 0 {
		cfg.ArenaWidth = w
	}
	if h := getEnvFloat("ARENA_HEIGHT", -1); h >= 0 {
		cfg.ArenaHeight = h
	}
	if os.Getenv("NORMALIZE_DIAGONAL") == "true" {
		cfg.NormalizeDiagonal = true
	}

	return cfg
}

// =============================================================================
// SHOOTER CONFIGURATION
// =============================================================================

// ShooterConfig describes one side: the entity itself, its gun and its bullet pool.
type ShooterConfig struct {
	StartX, StartY float64       // Spawn position
	Speed          float64       // Movement units per tick
	Health         uint32        // Starting health
	HitboxRadius   float64       // Bullets closer than this hit
	Damage         uint32        // Damage each of this side's bullets deals
	Cooldown       time.Duration // Minimum interval between shots
	PoolSize       int           // Bullet slots reserved for this side
	BulletSpeed    float64       // Bullet units per tick
	BulletDirX     float64       // Bullet travel direction (normalized by the pool)
	BulletDirY     float64
}

// DefaultPlayer returns the default player configuration.
func DefaultPlayer() ShooterConfig {
	return ShooterConfig{
		StartX:       0,
		StartY:       -200,
		Speed:        5,
		Health:       1,
		HitboxRadius: 30,
		Damage:       1,
		Cooldown:     100 * time.Millisecond,
		PoolSize:     5,
		BulletSpeed:  10,
		BulletDirX:   0,
		BulletDirY:   1, // Up, toward the enemy
	}
}

// DefaultEnemy returns the default enemy configuration.
func DefaultEnemy() ShooterConfig {
	return ShooterConfig{
		StartX:       0,
		StartY:       200,
		Speed:        3,
		Health:       200,
		HitboxRadius: 100,
		Damage:       1,
		Cooldown:     500 * time.Millisecond,
		PoolSize:     5,
		BulletSpeed:  6,
		BulletDirX:   0,
		BulletDirY:   -1,
	}
}

// PlayerFromEnv returns player configuration with PLAYER_* overrides.
func PlayerFromEnv() ShooterConfig {
	return shooterFromEnv("PLAYER", DefaultPlayer())
}

// EnemyFromEnv returns enemy configuration with ENEMY_* overrides.
func EnemyFromEnv() ShooterConfig {
	return shooterFromEnv("ENEMY", DefaultEnemy())
}

func shooterFromEnv(prefix string, cfg ShooterConfig) ShooterConfig {
	if s := getEnvFloat(prefix+"_SPEED", -1); s >= 0 {
		cfg.Speed = s
	}
	if h := getEnvInt(prefix+"_HEALTH", 0); h > 0 {
		cfg.Health = uint32(h)
	}
	if r := getEnvFloat(prefix+"_HITBOX_RADIUS", -1); r >= 0 {
		cfg.HitboxRadius = r
	}
	if d := getEnvInt(prefix+"_DAMAGE", -1); d >= 0 {
		cfg.Damage = uint32(d)
	}
	if cd := getEnvDuration(prefix+"_COOLDOWN", 0); cd > 0 {
		cfg.Cooldown = cd
	}
	if n := getEnvInt(prefix+"_POOL_SIZE", 0); n > 0 {
		cfg.PoolSize = n
	}
	if bs := getEnvFloat(prefix+"_BULLET_SPEED", -1); bs >= 0 {
		cfg.BulletSpeed = bs
	}
	return cfg
}

// =============================================================================
// MOVEMENT PATTERN CONFIGURATION
// =============================================================================

// PatternConfig holds the enemy's scripted velocity sequence.
type PatternConfig struct {
	Velocities []float64     // Horizontal velocity per step, cycled
	Period     time.Duration // How long each step lasts
}

// DefaultPattern returns the enemy patrol pattern.
func DefaultPattern() PatternConfig {
	return PatternConfig{
		Velocities: []float64{-1, 0, 1, 0, 1, 0, -1, 0},
		Period:     1500 * time.Millisecond,
	}
}

// PatternFromEnv returns pattern configuration with environment overrides.
func PatternFromEnv() PatternConfig {
	cfg := DefaultPattern()

	if p := getEnvDuration("PATTERN_PERIOD", 0); p > 0 {
		cfg.Period = p
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int
	BroadcastRate time.Duration // How often the websocket feed pushes snapshots
	ControlToken  string        // Bearer token for input/reset; empty disables the check
	CORSOrigins   []string      // Nil uses the localhost defaults
	FrameWidth    int           // /api/frame.png size in pixels
	FrameHeight   int
	TrustProxy    bool          // Take client IPs from X-Forwarded-For/X-Real-IP; only behind a proxy that sets them
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:          3000,
		BroadcastRate: 100 * time.Millisecond,
		FrameWidth:    640,
		FrameHeight:   360,
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if br := getEnvDuration("BROADCAST_RATE", 0); br > 0 {
		cfg.BroadcastRate = br
	}
	if fw := getEnvInt("FRAME_WIDTH", 0); fw > 0 {
		cfg.FrameWidth = fw
	}
	if fh := getEnvInt("FRAME_HEIGHT", 0); fh > 0 {
		cfg.FrameHeight = fh
	}
	cfg.ControlToken = os.Getenv("CONTROL_TOKEN")
	cfg.TrustProxy = os.Getenv("TRUST_PROXY") == "true"
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg
}

// =============================================================================
// DEBUG & EVENT LOG CONFIGURATION
// =============================================================================

// DebugConfig controls the localhost pprof/metrics server.
type DebugConfig struct {
	Enabled       bool
	ListenAddr    string // Must stay on localhost unless ALLOW_DEBUG_EXTERNAL=true
	BasicAuthUser string // Optional basic auth
	BasicAuthPass string
}

// DefaultDebug returns the default debug server configuration.
func DefaultDebug() DebugConfig {
	return DebugConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// DebugFromEnv returns debug configuration with environment overrides.
func DebugFromEnv() DebugConfig {
	cfg := DefaultDebug()

	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		cfg.Enabled = false
	}
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	cfg.BasicAuthUser = os.Getenv("DEBUG_USER")
	cfg.BasicAuthPass = os.Getenv("DEBUG_PASS")

	return cfg
}

// EventLogConfig controls the JSONL audit log of hits and deaths.
type EventLogConfig struct {
	Path string // Empty keeps events in memory only
}

// EventLogFromEnv returns event log configuration with environment overrides.
func EventLogFromEnv() EventLogConfig {
	return EventLogConfig{
		Path: getEnvWithDefault("EVENT_LOG_PATH", "events.jsonl"),
	}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// RulesConfig is the part of the configuration the simulation itself consumes.
type RulesConfig struct {
	Simulation SimulationConfig
	Player     ShooterConfig
	Enemy      ShooterConfig
	Pattern    PatternConfig
}

// DefaultRules returns the simulation rules without environment overrides.
func DefaultRules() RulesConfig {
	return RulesConfig{
		Simulation: DefaultSimulation(),
		Player:     DefaultPlayer(),
		Enemy:      DefaultEnemy(),
		Pattern:    DefaultPattern(),
	}
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Rules    RulesConfig
	Server   ServerConfig
	Debug    DebugConfig
	EventLog EventLogConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Rules: RulesConfig{
			Simulation: SimulationFromEnv(),
			Player:     PlayerFromEnv(),
			Enemy:      EnemyFromEnv(),
			Pattern:    PatternFromEnv(),
		},
		Server:   ServerFromEnv(),
		Debug:    DebugFromEnv(),
		EventLog: EventLogFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvWithDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// getEnvDuration accepts Go duration strings ("150ms", "1.5s").
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
