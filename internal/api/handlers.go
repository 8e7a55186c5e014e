package api

import (
	"encoding/json"
	"net/http"
	"time"

	"bullet-hell/internal/game"
	"bullet-hell/internal/logger"
)

// maxInputBody bounds POST /api/input; a key list is a few dozen bytes
const maxInputBody = 1 << 10

// InputRequest is the body of POST /api/input and of WebSocket input messages
type InputRequest struct {
	Keys []string `json:"keys"`
}

// StatsResponse is the body of GET /api/stats
type StatsResponse struct {
	RunID         string                 `json:"runId"`
	Tick          uint64                 `json:"tick"`
	LastDelta     time.Duration          `json:"lastDelta"`
	Phase         game.Phase             `json:"phase"`
	Outcome       game.Outcome           `json:"outcome"`
	PlayerHealth  uint32                 `json:"playerHealth"`
	EnemyHealth   uint32                 `json:"enemyHealth"`
	ActiveBullets map[string]int         `json:"activeBullets"`
	DroppedShots  map[string]uint64      `json:"droppedShots"`
	EventLog      map[string]interface{} `json:"eventLog"`
	Requests      LimitStats             `json:"requests"`
	Connections   *LimitStats            `json:"connections,omitempty"`
}

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.GetSnapshot())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.GetSnapshot()

	resp := StatsResponse{
		RunID:         h.engine.RunID(),
		Tick:          snap.TickNumber,
		LastDelta:     snap.LastDelta,
		Phase:         snap.Phase,
		Outcome:       snap.Outcome,
		ActiveBullets: make(map[string]int, 2),
		DroppedShots:  make(map[string]uint64, 2),
		EventLog:      h.engine.GetEventLogStats(),
		Requests:      h.limiter.Stats(),
	}
	if h.connStats != nil {
		conns := h.connStats()
		resp.Connections = &conns
	}
	if p, ok := snap.Entity(game.KindPlayer); ok {
		resp.PlayerHealth = p.Health
	}
	if e, ok := snap.Entity(game.KindEnemy); ok {
		resp.EnemyHealth = e.Health
	}
	for _, tag := range []game.Tag{game.TagPlayer, game.TagEnemy} {
		resp.ActiveBullets[tag.String()] = snap.ActiveBullets[tag]
		resp.DroppedShots[tag.String()] = snap.DroppedShots[tag]
	}

	writeJSON(w, resp)
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap := h.engine.GetSnapshot()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.WritePNG(w, snap); err != nil {
		logger.Log.WithError(err).Warn("Frame render failed")
		return
	}
	RecordRender(time.Since(start))
}

func (h *routerHandlers) handlePostInput(w http.ResponseWriter, r *http.Request) {
	var req InputRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInputBody)).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	keys := game.KeySetFromNames(req.Keys)
	h.engine.SetInput(keys)
	writeJSON(w, map[string]interface{}{"keys": keys.Names()})
}

func (h *routerHandlers) handlePostReset(w http.ResponseWriter, r *http.Request) {
	logger.Log.WithField("ip", ClientIP(r)).Info("Round reset requested via API")
	h.engine.Reset()
	writeJSON(w, map[string]bool{"success": true})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("Response encode failed")
	}
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
