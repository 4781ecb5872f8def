package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dquist/master-verifier/internal/assess"
	"github.com/dquist/master-verifier/internal/chunkstore"
	"github.com/dquist/master-verifier/internal/detect"
	"github.com/dquist/master-verifier/internal/ingest"
	"github.com/dquist/master-verifier/internal/profile"
	"github.com/dquist/master-verifier/internal/ranking"
)

func testRouter(t *testing.T) (http.Handler, *chunkstore.Store) {
	t.Helper()

	store, err := chunkstore.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	assessor := assess.New(assess.DefaultConfig())
	router := NewRouter(&Container{
		Assessor: assessor,
		Detector: detect.NewDetector(assessor, nil, detect.NewMemoryCache()),
		Ranker:   ranking.NewEngine(),
		Profiles: profile.NewRegistry(),
		Store:    store,
		Pipeline: ingest.NewPipeline(assessor, store, 2),
	})
	return router, store
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	router, _ := testRouter(t)
	rr := doJSON(t, router, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
}

func TestAssessEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rr := doJSON(t, router, "POST", "/v1/assess", AssessRequest{Text: "It depends."})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body)
	}

	var result assess.VerificationResult
	decode(t, rr, &result)
	if result.IsSubstantive {
		t.Error("expected superficial verdict for boilerplate text")
	}
	if len(result.Reasons) == 0 {
		t.Error("expected reasons in response")
	}
}

func TestAssessEndpoint_BadBody(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest("POST", "/v1/assess", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestDetectEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rr := doJSON(t, router, "POST", "/v1/detect", DetectRequest{
		Query:    "how do I mount the pump",
		Response: "It depends on many factors. Generally speaking, this varies.",
		Profile:  "researcher",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body)
	}

	var result assess.VerificationResult
	decode(t, rr, &result)
	if result.IsSubstantive {
		t.Error("expected superficial verdict")
	}
	if result.Method != assess.MethodPatternMatching {
		t.Errorf("method: got %q", result.Method)
	}
}

func TestDetectEndpoint_MissingResponse(t *testing.T) {
	router, _ := testRouter(t)
	rr := doJSON(t, router, "POST", "/v1/detect", DetectRequest{Query: "q"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestRankEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rr := doJSON(t, router, "POST", "/v1/rank", RankRequest{
		Candidates: []ranking.Candidate{
			{ChunkID: "flagged", SimilarityScore: 0.9, IsSuperficial: true},
			{ChunkID: "clean", SimilarityScore: 0.9},
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body)
	}

	var resp RankResponse
	decode(t, rr, &resp)
	if len(resp.Scores) != 2 {
		t.Fatalf("scores: got %d, want 2", len(resp.Scores))
	}
	if resp.Scores[0].ChunkID != "clean" {
		t.Errorf("expected clean candidate first, got %q", resp.Scores[0].ChunkID)
	}
	if !resp.Scores[1].PenaltyApplied {
		t.Error("penalty_applied missing on flagged candidate")
	}
}

func TestIngestAndGetChunk(t *testing.T) {
	router, store := testRouter(t)

	rr := doJSON(t, router, "POST", "/v1/ingest", IngestRequest{
		Source: "doc.txt",
		Text: "Mount the pump bracket to the chassis using four M6 bolts torqued " +
			"to 12 newton meters before connecting the inlet hose to the reservoir.",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body)
	}

	var summary ingest.Summary
	decode(t, rr, &summary)
	if summary.Chunks != 1 {
		t.Fatalf("chunks: got %d, want 1", summary.Chunks)
	}

	stored, err := store.ListBySource("doc.txt")
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored lookup: %v, %d chunks", err, len(stored))
	}

	rr = doJSON(t, router, "GET", "/v1/chunks/"+stored[0].ChunkID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get chunk status: got %d", rr.Code)
	}
	var rec chunkstore.ChunkRecord
	decode(t, rr, &rec)
	if rec.ChunkID != stored[0].ChunkID || rec.Source != "doc.txt" {
		t.Errorf("unexpected chunk: %+v", rec)
	}
}

func TestIngestEndpoint_MissingSource(t *testing.T) {
	router, _ := testRouter(t)
	rr := doJSON(t, router, "POST", "/v1/ingest", IngestRequest{Text: "some text"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestGetChunk_NotFound(t *testing.T) {
	router, _ := testRouter(t)
	rr := doJSON(t, router, "GET", "/v1/chunks/nonexistent-id", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
}

func TestAuditTrailEndpoint(t *testing.T) {
	router, store := testRouter(t)

	rec, err := store.Insert(chunkstore.ChunkRecord{
		Source: "doc.txt", Text: "text", QualityConfidence: 0.9,
		Method: assess.MethodPatternMatching,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rr := doJSON(t, router, "GET", "/v1/chunks/"+rec.ChunkID+"/audit", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var resp struct {
		ChunkID string                  `json:"chunk_id"`
		Audit   []chunkstore.AuditEntry `json:"audit"`
	}
	decode(t, rr, &resp)
	if len(resp.Audit) != 1 {
		t.Errorf("audit entries: got %d, want 1", len(resp.Audit))
	}
}

func TestStatsEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	// One verification so the counters are non-zero.
	doJSON(t, router, "POST", "/v1/detect", DetectRequest{Response: "It depends."})

	rr := doJSON(t, router, "GET", "/v1/stats", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var resp StatsResponse
	decode(t, rr, &resp)
	if resp.Verification.Verifications != 1 {
		t.Errorf("verifications: got %d, want 1", resp.Verification.Verifications)
	}
	if resp.Verification.Superficial != 1 {
		t.Errorf("superficial: got %d, want 1", resp.Verification.Superficial)
	}
}

func TestListProfilesEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rr := doJSON(t, router, "GET", "/v1/profiles", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var resp map[string][]string
	decode(t, rr, &resp)

	found := false
	for _, name := range resp["profiles"] {
		if name == profile.DefaultName {
			found = true
		}
	}
	if !found {
		t.Errorf("default profile missing from %v", resp["profiles"])
	}
}

func TestReloadProfiles_NoPathConfigured(t *testing.T) {
	router, _ := testRouter(t)
	rr := doJSON(t, router, "POST", "/v1/profiles/reload", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}
