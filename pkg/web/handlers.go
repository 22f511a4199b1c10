package web

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-snowdrive/internal/log"
	"github.com/teslashibe/go-snowdrive/pkg/hub"
	"github.com/teslashibe/go-snowdrive/pkg/input"
	"github.com/teslashibe/go-snowdrive/pkg/sim"
	"github.com/teslashibe/go-snowdrive/pkg/telemetry"
	"github.com/teslashibe/go-snowdrive/pkg/vehicle"
)

// Status is the body of GET /api/status.
type Status struct {
	SessionID string          `json:"session_id"`
	Frame     telemetry.Frame `json:"frame"`
	Stats     telemetry.Stats `json:"stats"`
	Clients   int             `json:"clients"`
	Dropped   uint64          `json:"dropped"`
}

func errorJSON(c *fiber.Ctx, code int, err error) error {
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// handleStatus returns the latest frame and running totals
func (s *Server) handleStatus(c *fiber.Ctx) error {
	session, ok := s.bound()
	if !ok {
		return errorJSON(c, fiber.StatusServiceUnavailable, ErrNotBound)
	}
	return c.JSON(Status{
		SessionID: session.ID(),
		Frame:     session.Last(),
		Stats:     session.Stats(),
		Clients:   s.Clients(),
		Dropped:   s.telemetryHub.Dropped(),
	})
}

func (s *Server) handleGetTuning(c *fiber.Ctx) error {
	session, ok := s.bound()
	if !ok {
		return errorJSON(c, fiber.StatusServiceUnavailable, ErrNotBound)
	}
	return c.JSON(session.Tuning())
}

// handleSetTuning queues new tuning; zero fields are left unchanged
func (s *Server) handleSetTuning(c *fiber.Ctx) error {
	session, ok := s.bound()
	if !ok {
		return errorJSON(c, fiber.StatusServiceUnavailable, ErrNotBound)
	}

	var params sim.TuningParams
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}

	if err := session.Tune(params); err != nil {
		switch {
		case errors.Is(err, sim.ErrTuningBusy):
			return errorJSON(c, fiber.StatusTooManyRequests, err)
		case errors.Is(err, vehicle.ErrInvalidConfig), errors.Is(err, input.ErrInvalidConfig):
			return errorJSON(c, fiber.StatusBadRequest, err)
		}
		return errorJSON(c, fiber.StatusInternalServerError, err)
	}

	log.Info("tuning requested", "session", session.ID(), "params", params)
	return c.Status(fiber.StatusAccepted).JSON(session.Tuning())
}

// handleTelemetryWS streams frames until the client disconnects
func (s *Server) handleTelemetryWS(c *websocket.Conn) {
	hub.NewClient(s.telemetryHub, c).Run()
}
