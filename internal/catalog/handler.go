// Package catalog serves the space catalog, the questionnaire and ranking
// over HTTP.
package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/HerbHall/spacematch/internal/match"
	"github.com/HerbHall/spacematch/internal/questions"
	"github.com/HerbHall/spacematch/internal/server"
	"github.com/HerbHall/spacematch/internal/validation"
	pkgcatalog "github.com/HerbHall/spacematch/pkg/catalog"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// SpacesResponse is the response for GET /api/v1/spaces.
type SpacesResponse struct {
	Count  int                `json:"count"`
	Spaces []pkgcatalog.Space `json:"spaces"`
}

// MatchRequest is the body of POST /api/v1/matches. Capacidad may be a
// bucket label such as "4 a 8", an object {min, max} or a capacity string.
type MatchRequest struct {
	Capacity  *pkgcatalog.Capacity `json:"capacidad" validate:"required"`
	Privacy   string               `json:"privacidad" validate:"required,max=64,privacy"`
	Equipment []string             `json:"equipamiento" validate:"max=50,dive,required,max=64"`
}

// MatchResponse is the response for POST /api/v1/matches.
type MatchResponse struct {
	Mode   match.Mode         `json:"mode"`
	Count  int                `json:"count"`
	Spaces []pkgcatalog.Space `json:"spaces"`
	Scores []ScoreRow         `json:"scores,omitempty"`
}

// ScoreRow explains how one space scored.
type ScoreRow struct {
	Name             string  `json:"nombre"`
	Score            int     `json:"score"`
	NearScore        float64 `json:"near_score"`
	CapacityOverlap  bool    `json:"capacity_overlap"`
	PrivacyMatch     bool    `json:"privacy_match"`
	EquipmentCovered bool    `json:"equipment_covered"`
	EquipmentMatched int     `json:"equipment_matched"`
}

// Handler serves the catalog API.
type Handler struct {
	cat       *pkgcatalog.Catalog
	engine    *match.Engine
	validator *validation.Validator
	metrics   *Metrics
	logger    *zap.Logger
}

// NewHandler creates a new catalog API handler. metrics may be nil.
func NewHandler(cat *pkgcatalog.Catalog, engine *match.Engine, metrics *Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		cat:       cat,
		engine:    engine,
		validator: validation.New(),
		metrics:   metrics,
		logger:    logger,
	}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/spaces", h.handleListSpaces)
	mux.HandleFunc("GET /api/v1/questions", h.handleQuestions)
	mux.HandleFunc("POST /api/v1/matches", h.handleMatches)
}

// handleListSpaces returns the full catalog in catalog order.
//
//	@Summary		List all spaces
//	@Description	Returns every catalog space in catalog order, capacities in their authored form.
//	@Tags			spaces
//	@Produce		json
//	@Success		200 {object} SpacesResponse
//	@Failure		429 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/spaces [get]
func (h *Handler) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	spaces, ok := h.entries(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, SpacesResponse{Count: len(spaces), Spaces: spaces})
}

// handleQuestions returns the questionnaire, with equipment options taken
// from the catalog.
//
//	@Summary		Get the questionnaire
//	@Description	Returns the capacity, privacy and equipment questions. Equipment options are the distinct catalog labels, ignoring case and accents.
//	@Tags			questions
//	@Produce		json
//	@Success		200 {array} questions.Question
//	@Failure		429 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/questions [get]
func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	spaces, ok := h.entries(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, questions.Build(spaces))
}

// handleMatches ranks the catalog against the selection in the body. With
// ?explain=true the response carries a score row per catalog space.
//
//	@Summary		Rank spaces
//	@Description	Ranks the catalog against a capacity, privacy level and equipment list. Returns exact matches, or near matches when none qualify.
//	@Tags			matches
//	@Accept			json
//	@Produce		json
//	@Param			request body MatchRequest true "Selection"
//	@Param			explain query bool false "Include a score row per catalog space" default(false)
//	@Success		200 {object} MatchResponse
//	@Failure		400 {object} server.Problem
//	@Failure		429 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/matches [post]
func (h *Handler) handleMatches(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body: "+err.Error(), r.URL.Path)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			server.ValidationFailed(w, fields, r.URL.Path)
			return
		}
		h.logger.Error("validate match request", zap.Error(err))
		server.InternalError(w, "failed to validate request", r.URL.Path)
		return
	}

	explain := false
	if v := r.URL.Query().Get("explain"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			server.BadRequest(w, "explain must be a boolean", r.URL.Path)
			return
		}
		explain = parsed
	}

	spaces, ok := h.entries(w, r)
	if !ok {
		return
	}

	resp, res := Respond(h.engine, spaces, req.Selection(), explain)
	h.metrics.observe(res)

	h.writeJSON(w, r, http.StatusOK, resp)
}

// Respond ranks spaces against sel and builds the response body. With explain
// set it carries a score row per catalog space.
func Respond(engine *match.Engine, spaces []pkgcatalog.Space, sel match.Selection, explain bool) (MatchResponse, match.Result) {
	res := engine.Rank(spaces, sel)
	ranked := res.Spaces()
	resp := MatchResponse{
		Mode:   res.Mode(),
		Count:  len(ranked),
		Spaces: make([]pkgcatalog.Space, len(ranked)),
	}
	for i, sp := range ranked {
		resp.Spaces[i] = *sp
	}
	if explain {
		resp.Scores = scoreRows(spaces, sel)
	}
	return resp, res
}

// Selection converts the request into a match selection. A capacity given
// as a bucket label uses the bucket's range.
func (req MatchRequest) Selection() match.Selection {
	capacity := pkgcatalog.FullRange()
	if req.Capacity != nil {
		capacity = req.Capacity.Range()
		if label, ok := req.Capacity.Raw().(string); ok {
			if b, found := questions.FindBucket(label); found {
				capacity = b.Range
			}
		}
	}
	return match.NewSelection(capacity, req.Privacy, req.Equipment...)
}

func (h *Handler) entries(w http.ResponseWriter, r *http.Request) ([]pkgcatalog.Space, bool) {
	spaces, err := h.cat.Entries()
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return nil, false
	}
	return spaces, true
}

func scoreRows(spaces []pkgcatalog.Space, sel match.Selection) []ScoreRow {
	rows := make([]ScoreRow, len(spaces))
	for i, s := range match.ScoreAll(spaces, sel) {
		rows[i] = ScoreRow{
			Name:             s.Space.Name,
			Score:            s.Score,
			NearScore:        match.EvaluateNear(s.Space, sel).Score,
			CapacityOverlap:  s.CapacityOverlap,
			PrivacyMatch:     s.PrivacyMatch,
			EquipmentCovered: s.EquipmentCovered,
			EquipmentMatched: s.EquipmentMatched,
		}
	}
	return rows
}

// writeJSON encodes data before writing the status so an encoding failure
// becomes a 500 problem instead of an empty success.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("failed to encode response", zap.String("path", r.URL.Path), zap.Error(err))
		server.InternalError(w, "failed to encode response", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
