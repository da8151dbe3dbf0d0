package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/rewired-gh/skyhook-sim/internal/exposure"
	"github.com/rewired-gh/skyhook-sim/internal/logger"
	"github.com/rewired-gh/skyhook-sim/internal/models"
	"github.com/rewired-gh/skyhook-sim/internal/random"
	"github.com/rewired-gh/skyhook-sim/internal/reach"
)

// DailyRequest selects the single-day distribution parameters
type DailyRequest struct {
	Count  int     `json:"count"`
	Center float64 `json:"center"`
	Stddev float64 `json:"stddev"`
	Seed   int64   `json:"seed,omitempty"`
}

// DailyResponse is the 24-bucket single-day distribution
type DailyResponse struct {
	Series []models.HourCount `json:"series"`
	Total  int                `json:"total"`
}

// UniverseResponse describes the loaded graph
type UniverseResponse struct {
	Loaded  bool `json:"loaded"`
	Nodes   int  `json:"nodes"`
	Systems int  `json:"systems"`
	Edges   int  `json:"edges"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "universe": s.graph != nil})
}

func (s *Server) universeInfo(w http.ResponseWriter, _ *http.Request) {
	resp := UniverseResponse{}
	if s.graph != nil {
		resp = UniverseResponse{
			Loaded:  true,
			Nodes:   s.graph.Len(),
			Systems: s.graph.SystemCount(),
			Edges:   s.graph.EdgeCount(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) exposure(w http.ResponseWriter, r *http.Request) {
	params := s.cfg.Simulation
	// decoding an array reuses the backing store; keep the config's intact
	params.OffsetCatalog = slices.Clone(params.OffsetCatalog)
	if err := decodeBody(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.Entities > maxEntities {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("entities must not exceed %d", maxEntities))
		return
	}
	if err := params.Validate(); err != nil {
		writeStatusError(w, err)
		return
	}
	if params.Entities > 0 && params.WindowsPerEntity() > maxWindows/params.Entities {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("entities times cycles over the horizon must not exceed %d", maxWindows))
		return
	}

	report, err := exposure.Run(random.New(params.Seed), params)
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) daily(w http.ResponseWriter, r *http.Request) {
	req := DailyRequest{
		Count:  s.cfg.Simulation.Entities,
		Center: float64(s.cfg.Simulation.CenterAnchor),
		Stddev: s.cfg.Simulation.StddevHours,
		Seed:   s.cfg.Simulation.Seed,
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Count < 0 || req.Count > maxEntities {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("count must be between 0 and %d", maxEntities))
		return
	}

	hist, err := exposure.Daily(random.New(req.Seed), req.Count, req.Center, req.Stddev)
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DailyResponse{Series: hist.Points(), Total: hist.Total()})
}

func (s *Server) reachability(w http.ResponseWriter, r *http.Request) {
	params := s.cfg.ReachParams(0)
	if err := decodeBody(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.Trials > maxTrials {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("trials must not exceed %d", maxTrials))
		return
	}

	report, err := reach.EstimateBucket(r.Context(), s.graph, params, nil)
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// decodeBody decodes a JSON body over the defaults already in v.
// An empty body keeps the defaults.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// writeStatusError maps engine errors onto HTTP status codes
func writeStatusError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidParams):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, reach.ErrEmptyGraph):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		logger.Error("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
