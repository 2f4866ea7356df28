package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/star/crashtrack/internal/page"
	"github.com/star/crashtrack/internal/render"
	"github.com/star/crashtrack/internal/tle"
	"github.com/star/crashtrack/internal/track"
)

// handlePage serves the page on initial load.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, page.TriggerLoad)
}

// handleReload is the reload control. It re-runs the whole pipeline and
// returns the same document as the initial load.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, page.TriggerReload)
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, trigger string) {
	out, err := s.pipeline.Run(r.Context(), trigger)
	if err != nil {
		s.fail(w, r, "pipeline run failed", err)
		return
	}

	var buf bytes.Buffer
	if err := out.Page.WriteHTML(&buf); err != nil {
		s.fail(w, r, "page write failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleMapSVG serves the figure alone.
func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	out, err := s.pipeline.Run(r.Context(), page.TriggerSVG)
	if err != nil {
		s.fail(w, r, "pipeline run failed", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(out.SVG)
}

type ephemerisStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type sceneResponse struct {
	Mode       string               `json:"mode"`
	Satellite  string               `json:"satellite"`
	User       track.GeoPoint       `json:"user"`
	Crash      track.CrashEvent     `json:"crash"`
	CrashLine  string               `json:"crash_line"`
	DistanceKm float64              `json:"distance_km"`
	Markers    []render.Marker      `json:"markers"`
	Legend     render.Legend        `json:"legend"`
	Overlay    *render.TextBlock    `json:"overlay,omitempty"`
	Status     string               `json:"status,omitempty"`
	Ephemeris  ephemerisStatus      `json:"ephemeris"`
	Figure     sceneFigureDimension `json:"figure"`
}

type sceneFigureDimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// handleScene serves the composed scene as JSON.
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	out, err := s.pipeline.Run(r.Context(), page.TriggerScene)
	if err != nil {
		s.fail(w, r, "pipeline run failed", err)
		return
	}

	eph := ephemerisStatus{Status: out.Ephemeris.Status()}
	if reason := out.Ephemeris.Reason(); reason != nil {
		eph.Reason = reason.Error()
	}

	writeJSON(w, http.StatusOK, sceneResponse{
		Mode:       out.Scenario.Mode.Name(),
		Satellite:  out.Scenario.Satellite.Name,
		User:       out.Scenario.User,
		Crash:      out.Scenario.Crash,
		CrashLine:  out.Page.CrashLine,
		DistanceKm: out.Scenario.DistanceKm(),
		Markers:    out.Figure.Markers,
		Legend:     out.Figure.Legend,
		Overlay:    out.Figure.Overlay,
		Status:     out.Figure.Status,
		Ephemeris:  eph,
		Figure:     sceneFigureDimension{Width: out.Figure.Width, Height: out.Figure.Height},
	})
}

type tleResponse struct {
	tle.Metadata
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// handleTLE serves the decoded element set.
func (s *Server) handleTLE(w http.ResponseWriter, r *http.Request) {
	set := track.Default().Satellite
	md, err := set.Metadata()
	if err != nil {
		s.fail(w, r, "element set decode failed", err)
		return
	}
	writeJSON(w, http.StatusOK, tleResponse{Metadata: md, Line1: set.Line1, Line2: set.Line2})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Error(msg, "component", "api", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, msg)
}

// writeJSON serializes v as JSON with the provided status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
