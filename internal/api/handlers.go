package api

// #region imports
import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dquist/master-verifier/internal/chunkstore"
	"github.com/dquist/master-verifier/internal/detect"
	"github.com/dquist/master-verifier/internal/ranking"
)

// #endregion

// #region handler

type handler struct {
	c *Container
}

func newHandler(c *Container) *handler {
	return &handler{c: c}
}

// #endregion

// #region assess

// AssessRequest is the request body for a standalone heuristic assessment.
type AssessRequest struct {
	Text string `json:"text"`
}

// Assess handles POST /v1/assess.
func (h *handler) Assess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.c.Assessor.Assess(req.Text))
}

// #endregion

// #region detect

// DetectRequest is the request body for response verification.
type DetectRequest struct {
	Query    string `json:"query"`
	Response string `json:"response"`
	Profile  string `json:"profile,omitempty"`
}

// Detect handles POST /v1/detect.
func (h *handler) Detect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Response == "" {
		writeError(w, http.StatusBadRequest, "response is required")
		return
	}

	prof := h.c.Profiles.Get(req.Profile)
	result := h.c.Detector.Detect(r.Context(), req.Response, req.Query, prof)
	writeJSON(w, http.StatusOK, result)
}

// #endregion

// #region rank

// RankRequest is the request body for candidate ranking.
type RankRequest struct {
	Profile    string              `json:"profile,omitempty"`
	Candidates []ranking.Candidate `json:"candidates"`
}

// RankResponse carries the ordered scores.
type RankResponse struct {
	Scores []ranking.Score `json:"scores"`
}

// Rank handles POST /v1/rank.
func (h *handler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prof := h.c.Profiles.Get(req.Profile)
	scores := h.c.Ranker.Rank(req.Candidates, prof)
	writeJSON(w, http.StatusOK, RankResponse{Scores: scores})
}

// #endregion

// #region ingest

// IngestRequest is the request body for document ingestion.
type IngestRequest struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Ingest handles POST /v1/ingest.
func (h *handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Source == "" {
		writeError(w, http.StatusBadRequest, "source is required")
		return
	}

	summary, err := h.c.Pipeline.IngestText(r.Context(), req.Source, req.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// #endregion

// #region chunks

// GetChunk handles GET /v1/chunks/{id}.
func (h *handler) GetChunk(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.c.Store.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "chunk not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GetAuditTrail handles GET /v1/chunks/{id}/audit.
func (h *handler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	trail, err := h.c.Store.AuditTrail(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chunk_id": id, "audit": trail})
}

// #endregion

// #region stats

// StatsResponse combines runtime verification counters with corpus totals.
type StatsResponse struct {
	Verification detect.Stats     `json:"verification"`
	Corpus       chunkstore.Stats `json:"corpus"`
}

// Stats handles GET /v1/stats.
func (h *handler) Stats(w http.ResponseWriter, r *http.Request) {
	corpus, err := h.c.Store.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		Verification: h.c.Detector.Snapshot(),
		Corpus:       corpus,
	})
}

// #endregion

// #region profiles

// ListProfiles handles GET /v1/profiles.
func (h *handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"profiles": h.c.Profiles.Names()})
}

// ReloadProfiles handles POST /v1/profiles/reload.
func (h *handler) ReloadProfiles(w http.ResponseWriter, r *http.Request) {
	if h.c.ProfilePath == "" {
		writeError(w, http.StatusBadRequest, "no profile file configured")
		return
	}
	if err := h.c.Profiles.Reload(h.c.ProfilePath); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"profiles": h.c.Profiles.Names()})
}

// #endregion

// #region json-helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// #endregion
