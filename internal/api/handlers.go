// Package api serves a read-only HTTP inspector over a running simulation.
package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/render"

	"github.com/VoidMesh/horizon/internal/stream"
	"github.com/VoidMesh/horizon/internal/terrain"
)

// Feed exposes the most recently published frame data.
type Feed interface {
	Latest(typ stream.MessageType) (json.RawMessage, bool)
	Frame() uint64
}

type Handler struct {
	feed    Feed
	world   *terrain.World
	logger  *log.Logger
	started time.Time
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StateResponse is the latest pose plus HUD text.
type StateResponse struct {
	Frame uint64          `json:"frame"`
	Pose  json.RawMessage `json:"pose"`
	HUD   json.RawMessage `json:"hud,omitempty"`
}

type HeightResponse struct {
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	Height float64 `json:"height"`
}

type WorldResponse struct {
	Seed      int64            `json:"seed"`
	Noise     string           `json:"noise"`
	Amplitude float64          `json:"amplitude"`
	Bound     float64          `json:"bound"`
	Octaves   []terrain.Octave `json:"octaves"`
}

var errNoFrame = errors.New("no frame rendered yet")

func NewHandler(feed Feed, world *terrain.World, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		feed:    feed,
		world:   world,
		logger:  logger,
		started: time.Now(),
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"frame":     h.feed.Frame(),
		"service":   "horizon",
		"version":   "1.0.0",
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response)
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	pose, ok := h.feed.Latest(stream.TypePose)
	if !ok {
		h.renderError(w, r, http.StatusServiceUnavailable, "no frame rendered yet", errNoFrame)
		return
	}

	response := StateResponse{Frame: h.feed.Frame(), Pose: pose}
	if hud, ok := h.feed.Latest(stream.TypeHUD); ok {
		response.HUD = hud
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response)
}

func (h *Handler) GetTerrain(w http.ResponseWriter, r *http.Request) {
	ter, ok := h.feed.Latest(stream.TypeTerrain)
	if !ok {
		h.renderError(w, r, http.StatusServiceUnavailable, "no frame rendered yet", errNoFrame)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ter)
}

// GetHeight evaluates the height function at any world point, independent of
// where the patch currently is.
func (h *Handler) GetHeight(w http.ResponseWriter, r *http.Request) {
	x, err := parseCoord(r, "x")
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid x coordinate", err)
		return
	}
	z, err := parseCoord(r, "z")
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid z coordinate", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, HeightResponse{X: x, Z: z, Height: h.world.Sampler.Height(x, z)})
}

func (h *Handler) GetWorld(w http.ResponseWriter, r *http.Request) {
	s := h.world.Sampler
	render.Status(r, http.StatusOK)
	render.JSON(w, r, WorldResponse{
		Seed:      h.world.Seed,
		Noise:     string(h.world.Noise),
		Amplitude: s.Amplitude(),
		Bound:     s.Bound(),
		Octaves:   s.Octaves(),
	})
}

func parseCoord(r *http.Request, name string) (float64, error) {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("coordinate must be finite")
	}
	return v, nil
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	errorResponse := ErrorResponse{
		Error:   message,
		Code:    status,
		Message: message,
	}

	if err != nil {
		h.logger.Debug("API error", "error", err, "message", message, "status", status)
		// Don't expose internal errors to the client
		if status >= 500 && status != http.StatusServiceUnavailable {
			errorResponse.Error = "Internal server error"
		}
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse)
}
