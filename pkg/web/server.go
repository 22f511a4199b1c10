// Package web serves a local dashboard for a running simulation: live
// telemetry over websocket and a small JSON API for status and tuning.
package web

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-snowdrive/internal/log"
	"github.com/teslashibe/go-snowdrive/pkg/hub"
	"github.com/teslashibe/go-snowdrive/pkg/sim"
	"github.com/teslashibe/go-snowdrive/pkg/telemetry"
)

// ErrNotBound is reported by the API before Bind is called.
var ErrNotBound = errors.New("web: no session bound")

// Config controls the dashboard. It is off unless Enabled is set.
type Config struct {
	Enabled      bool   `mapstructure:"enabled" json:"enabled"`
	Addr         string `mapstructure:"addr" json:"addr"`
	PublishEvery uint64 `mapstructure:"publish_every" json:"publish_every"` // Broadcast every Nth frame
}

// DefaultConfig listens on localhost only and publishes at 20 Hz from a 60 Hz loop.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8090",
		PublishEvery: 3,
	}
}

// Session is the part of a simulation session the dashboard needs.
type Session interface {
	ID() string
	Last() telemetry.Frame
	Stats() telemetry.Stats
	Tuning() sim.TuningParams
	Tune(sim.TuningParams) error
}

// Server is the dashboard. It is also a telemetry.Sink: pass it to the
// session so frames reach websocket subscribers.
type Server struct {
	app    *fiber.App
	config Config

	telemetryHub *hub.Hub

	mu      sync.RWMutex
	session Session
}

// NewServer creates the dashboard and its routes.
func NewServer(config Config) *Server {
	if config.PublishEvery == 0 {
		config.PublishEvery = 1
	}
	s := &Server{
		config:       config,
		telemetryHub: hub.New("telemetry"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Snowdrive Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local tools
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/tuning", s.handleGetTuning)
	api.Post("/tuning", s.handleSetTuning)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/telemetry", websocket.New(s.handleTelemetryWS))

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Bind attaches the session the API reports on and tunes.
func (s *Server) Bind(session Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
}

func (s *Server) bound() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.session != nil
}

// Record implements telemetry.Sink.
func (s *Server) Record(_ context.Context, f telemetry.Frame) {
	if f.Tick%s.config.PublishEvery != 0 {
		return
	}
	if err := s.telemetryHub.BroadcastJSON(f); err != nil {
		log.Warn("telemetry encode failed", "error", err)
	}
}

// Clients returns the number of telemetry subscribers.
func (s *Server) Clients() int { return s.telemetryHub.ClientCount() }

// Start listens on Config.Addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve runs the hub and serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.telemetryHub.Run(ctx)
	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			log.Warn("dashboard shutdown", "error", err)
		}
	}()

	log.Info("dashboard listening", "addr", "http://"+ln.Addr().String())
	return s.app.Listener(ln)
}
