package api

import (
	"context"
	"net/http"
	"time"

	"bullet-hell/internal/config"
	"bullet-hell/internal/logger"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with the WebSocket hub for real-time updates.
type Server struct {
	engine      EngineInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	cfg         config.ServerConfig
}

// NewServer creates a new API server.
//
// IMPORTANT: Background workers do NOT start until Run() is called.
// This enables testing by allowing the server to be constructed without
// starting goroutines or opening network listeners.
func NewServer(engine EngineInterface, renderer FrameRenderer, cfg config.ServerConfig) *Server {
	s := &Server{
		engine:      engine,
		cfg:         cfg,
		rateLimiter: NewIPRateLimiter(DefaultRateLimitConfig),
	}
	s.wsHub = NewWebSocketHub(engine, NewOriginChecker(cfg.CORSOrigins), NewTokenAuth(cfg.ControlToken))

	s.router = NewRouter(RouterConfig{
		Engine:       engine,
		Renderer:     renderer,
		RateLimiter:  s.rateLimiter,
		CORSOrigins:  cfg.CORSOrigins,
		ControlToken: cfg.ControlToken,
		TrustProxy:   cfg.TrustProxy,
		ConnStats:    s.wsHub.ConnStats,
	})

	// WebSocket route needs the hub instance, so it sits outside NewRouter
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	return s
}

// Hub returns the WebSocket hub, e.g. to install it as the engine's
// notification handler
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves HTTP and runs the hub workers until ctx is cancelled.
// This is the ONLY method that starts goroutines or opens network listeners.
func (s *Server) Run(ctx context.Context, addr string) error {
	defer s.rateLimiter.Stop()

	interval := s.cfg.BroadcastRate
	if interval <= 0 {
		interval = config.DefaultServer().BroadcastRate
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Log.WithField("addr", addr).Info("API server starting")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.wsHub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		s.wsHub.RunBroadcastLoop(ctx, interval)
		return nil
	})
	g.Go(func() error {
		return serveUntilDone(ctx, srv)
	})
	return g.Wait()
}
