package api

// #region imports
import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dquist/master-verifier/internal/assess"
	"github.com/dquist/master-verifier/internal/chunkstore"
	"github.com/dquist/master-verifier/internal/detect"
	"github.com/dquist/master-verifier/internal/ingest"
	"github.com/dquist/master-verifier/internal/profile"
	"github.com/dquist/master-verifier/internal/ranking"
)

// #endregion

// #region container

// Container holds all dependencies for the router.
type Container struct {
	Assessor *assess.Assessor
	Detector *detect.Detector
	Ranker   *ranking.Engine
	Profiles *profile.Registry
	Store    *chunkstore.Store
	Pipeline *ingest.Pipeline

	// ProfilePath is the YAML file re-read on POST /v1/profiles/reload.
	// Empty disables reloading.
	ProfilePath string
}

// #endregion

// #region router

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	h := newHandler(c)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/assess", h.Assess).Methods("POST")
	v1.HandleFunc("/detect", h.Detect).Methods("POST")
	v1.HandleFunc("/rank", h.Rank).Methods("POST")
	v1.HandleFunc("/ingest", h.Ingest).Methods("POST")
	v1.HandleFunc("/chunks/{id}", h.GetChunk).Methods("GET")
	v1.HandleFunc("/chunks/{id}/audit", h.GetAuditTrail).Methods("GET")
	v1.HandleFunc("/stats", h.Stats).Methods("GET")
	v1.HandleFunc("/profiles", h.ListProfiles).Methods("GET")
	v1.HandleFunc("/profiles/reload", h.ReloadProfiles).Methods("POST")

	return r
}

// #endregion
