package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evisynth/nmakit/pkg/errors"
	"github.com/evisynth/nmakit/pkg/nma"
	"github.com/evisynth/nmakit/pkg/pipeline"
)

// geometryRequest is the POST /v1/geometry request body.
type geometryRequest struct {
	Comparisons       []nma.TreatmentComparison `json:"comparisons"`
	MinStudiesPerEdge int                       `json:"min_studies_per_edge,omitempty"`
}

// rankingRequest is the POST /v1/rankings request body.
type rankingRequest struct {
	Effects       []nma.TreatmentEffect `json:"effects"`
	Simulations   int                   `json:"simulations,omitempty"`
	Seed          uint64                `json:"seed,omitempty"`
	LowerIsBetter bool                  `json:"lower_is_better,omitempty"`
}

// assessmentResponse wraps an assessment with its archive ID.
type assessmentResponse struct {
	ID         string `json:"id,omitempty"`
	Assessment any    `json:"assessment"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	var req geometryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Comparisons:       req.Comparisons,
		MinStudiesPerEdge: orDefault(req.MinStudiesPerEdge, s.cfg.Engine.MinStudiesPerEdge),
		Logger:            s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assessmentResponse{
		ID:         result.GeometryID,
		Assessment: result.Geometry,
	})
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	var req rankingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Effects:       req.Effects,
		Simulations:   orDefault(req.Simulations, s.cfg.Engine.Simulations),
		Seed:          req.Seed,
		LowerIsBetter: req.LowerIsBetter,
		Logger:        s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assessmentResponse{
		ID:         result.RankingID,
		Assessment: result.Ranking,
	})
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// orDefault substitutes the server's configured engine default for a
// request field the client left unset.
func orDefault(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

// decodeJSON parses the request body as JSON.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse request body")
	}
	return nil
}
