// Package v1alpha1 exposes the world-authoring and frame-evaluation services
// over a JSON HTTP API, plus a websocket endpoint for per-frame state
// streaming.
package v1alpha1

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/entities"
	"github.com/questforge/questmap/internal/errors"
	framesvc "github.com/questforge/questmap/internal/services/frame"
	worldsvc "github.com/questforge/questmap/internal/services/world"
)

// Config holds the dependencies for the API handler
type Config struct {
	WorldService worldsvc.Service
	FrameService framesvc.Service
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.WorldService == nil {
		vb.RequiredField("WorldService")
	}
	if c.FrameService == nil {
		vb.RequiredField("FrameService")
	}

	return vb.Build()
}

// Handler serves the v1alpha1 API
type Handler struct {
	worldService worldsvc.Service
	frameService framesvc.Service
}

// NewHandler creates a new API handler with the provided dependencies
func NewHandler(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		worldService: cfg.WorldService,
		frameService: cfg.FrameService,
	}, nil
}

// RegisterRoutes attaches all v1alpha1 routes to the router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/v1alpha1").Subrouter()

	api.HandleFunc("/zones", h.createZone).Methods(http.MethodPost)
	api.HandleFunc("/zones", h.listZones).Methods(http.MethodGet)
	api.HandleFunc("/zones/{zone_id}", h.getZone).Methods(http.MethodGet)
	api.HandleFunc("/zones/{zone_id}", h.deleteZone).Methods(http.MethodDelete)
	api.HandleFunc("/zones/{zone_id}/dungeons", h.placeDungeon).Methods(http.MethodPost)
	api.HandleFunc("/zones/{zone_id}/dungeons", h.listDungeons).Methods(http.MethodGet)
	api.HandleFunc("/zones/{zone_id}/resolve", h.resolveZone).Methods(http.MethodPost)

	api.HandleFunc("/dungeons/{dungeon_id}", h.getDungeon).Methods(http.MethodGet)
	api.HandleFunc("/dungeons/{dungeon_id}/position", h.moveDungeon).Methods(http.MethodPut)
	api.HandleFunc("/dungeons/{dungeon_id}", h.deleteDungeon).Methods(http.MethodDelete)

	api.HandleFunc("/world/bounds", h.getWorldBounds).Methods(http.MethodGet)

	api.HandleFunc("/frame/reload", h.reloadFrame).Methods(http.MethodPost)
	api.HandleFunc("/frame/evaluate", h.evaluateFrame).Methods(http.MethodPost)
	api.HandleFunc("/frame/sprites/reset", h.resetSpriteCache).Methods(http.MethodPost)
	api.HandleFunc("/frame/sprites/metrics", h.cacheMetrics).Methods(http.MethodGet)

	api.HandleFunc("/frame/ws", h.frameSocket)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.InvalidArgumentf("invalid request body: %v", err)
	}
	return nil
}

type createZoneRequest struct {
	Name   string        `json:"name"`
	Bounds geometry.Rect `json:"bounds"`
}

func (h *Handler) createZone(w http.ResponseWriter, r *http.Request) {
	var req createZoneRequest
	if err := decodeJSON(r, &req); err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	output, err := h.worldService.CreateZone(r.Context(), &worldsvc.CreateZoneInput{
		Name:   req.Name,
		Bounds: req.Bounds,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, output)
}

func (h *Handler) listZones(w http.ResponseWriter, r *http.Request) {
	output, err := h.worldService.ListZones(r.Context(), &worldsvc.ListZonesInput{})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) getZone(w http.ResponseWriter, r *http.Request) {
	output, err := h.worldService.GetZone(r.Context(), &worldsvc.GetZoneInput{
		ZoneID: mux.Vars(r)["zone_id"],
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) deleteZone(w http.ResponseWriter, r *http.Request) {
	_, err := h.worldService.DeleteZone(r.Context(), &worldsvc.DeleteZoneInput{
		ZoneID: mux.Vars(r)["zone_id"],
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}

type placeDungeonRequest struct {
	Name         string                `json:"name,omitempty"`
	Category     string                `json:"category"`
	Position     geometry.Point        `json:"position"`
	Requirements entities.Requirements `json:"requirements"`
}

func (h *Handler) placeDungeon(w http.ResponseWriter, r *http.Request) {
	var req placeDungeonRequest
	if err := decodeJSON(r, &req); err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	output, err := h.worldService.PlaceDungeon(r.Context(), &worldsvc.PlaceDungeonInput{
		ZoneID:       mux.Vars(r)["zone_id"],
		Name:         req.Name,
		Category:     req.Category,
		Position:     req.Position,
		Requirements: req.Requirements,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, output)
}

func (h *Handler) listDungeons(w http.ResponseWriter, r *http.Request) {
	output, err := h.worldService.ListDungeons(r.Context(), &worldsvc.ListDungeonsInput{
		ZoneID: mux.Vars(r)["zone_id"],
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) resolveZone(w http.ResponseWriter, r *http.Request) {
	output, err := h.worldService.ResolveZone(r.Context(), &worldsvc.ResolveZoneInput{
		ZoneID: mux.Vars(r)["zone_id"],
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) getDungeon(w http.ResponseWriter, r *http.Request) {
	output, err := h.worldService.GetDungeon(r.Context(), &worldsvc.GetDungeonInput{
		DungeonID: mux.Vars(r)["dungeon_id"],
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

type moveDungeonRequest struct {
	Position geometry.Point `json:"position"`
}

func (h *Handler) moveDungeon(w http.ResponseWriter, r *http.Request) {
	var req moveDungeonRequest
	if err := decodeJSON(r, &req); err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	output, err := h.worldService.MoveDungeon(r.Context(), &worldsvc.MoveDungeonInput{
		DungeonID: mux.Vars(r)["dungeon_id"],
		Position:  req.Position,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) deleteDungeon(w http.ResponseWriter, r *http.Request) {
	_, err := h.worldService.DeleteDungeon(r.Context(), &worldsvc.DeleteDungeonInput{
		DungeonID: mux.Vars(r)["dungeon_id"],
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *Handler) getWorldBounds(w http.ResponseWriter, r *http.Request) {
	padding := 0.0
	if raw := r.URL.Query().Get("padding"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errors.WriteHTTP(w, errors.InvalidArgumentf("invalid padding %q", raw))
			return
		}
		padding = parsed
	}

	output, err := h.worldService.GetWorldBounds(r.Context(), &worldsvc.GetWorldBoundsInput{
		Padding: padding,
	})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) reloadFrame(w http.ResponseWriter, r *http.Request) {
	output, err := h.frameService.Reload(r.Context(), &framesvc.ReloadInput{})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) evaluateFrame(w http.ResponseWriter, r *http.Request) {
	var input framesvc.EvaluateFrameInput
	if err := decodeJSON(r, &input); err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	output, err := h.frameService.EvaluateFrame(r.Context(), &input)
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) resetSpriteCache(w http.ResponseWriter, r *http.Request) {
	_, err := h.frameService.ResetSpriteCache(r.Context(), &framesvc.ResetSpriteCacheInput{})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *Handler) cacheMetrics(w http.ResponseWriter, r *http.Request) {
	output, err := h.frameService.CacheMetrics(r.Context(), &framesvc.CacheMetricsInput{})
	if err != nil {
		errors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
