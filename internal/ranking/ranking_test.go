package ranking

import (
	"strings"
	"testing"

	"github.com/dquist/master-verifier/internal/profile"
)

func testProfile() profile.Profile {
	return profile.BuiltinProfiles()[profile.DefaultName]
}

func TestRank_EmptyInput(t *testing.T) {
	e := NewEngine()
	scores := e.Rank(nil, testProfile())
	if len(scores) != 0 {
		t.Errorf("empty candidate list must return empty ranking, got %d", len(scores))
	}
}

func TestRank_SuperficialRanksBelowTwin(t *testing.T) {
	e := NewEngine()
	prof := testProfile()

	flagged := Candidate{
		ChunkID:           "flagged",
		SimilarityScore:   0.8,
		DimensionScores:   map[string]float32{"depth": 0.7},
		IsSuperficial:     true,
		QualityConfidence: 0.8,
	}
	clean := flagged
	clean.ChunkID = "clean"
	clean.IsSuperficial = false

	scores := e.Rank([]Candidate{flagged, clean}, prof)
	if scores[0].ChunkID != "clean" {
		t.Errorf("superficial candidate must rank strictly below its twin: %+v", scores)
	}
	if scores[0].OverallScore <= scores[1].OverallScore {
		t.Error("expected strict score separation")
	}
	if !scores[1].PenaltyApplied {
		t.Error("penalty_applied not set on flagged candidate")
	}
	if scores[0].PenaltyApplied {
		t.Error("penalty_applied set on clean candidate")
	}
}

func TestRank_FilteringDisabledSkipsPenalty(t *testing.T) {
	e := NewEngine()
	prof := testProfile()
	prof.EnableSuperficialityFiltering = false

	flagged := Candidate{ChunkID: "flagged", SimilarityScore: 0.8, IsSuperficial: true}
	clean := Candidate{ChunkID: "clean", SimilarityScore: 0.8}

	scores := e.Rank([]Candidate{flagged, clean}, prof)
	if scores[0].ChunkID != "flagged" {
		t.Error("with filtering disabled, equal candidates keep input order")
	}
	if scores[0].PenaltyApplied || scores[1].PenaltyApplied {
		t.Error("no penalty should apply when filtering is disabled")
	}
}

func TestRank_PenaltyConfigurability(t *testing.T) {
	e := NewEngine()

	// The flagged candidate is slightly more similar; a small penalty keeps
	// it on top, a larger one demotes it.
	candidates := []Candidate{
		{ChunkID: "flagged", SimilarityScore: 0.95, IsSuperficial: true},
		{ChunkID: "clean", SimilarityScore: 0.90},
	}

	small := testProfile()
	small.SuperficialityPenalty = -0.01
	scores := e.Rank(candidates, small)
	if scores[0].ChunkID != "flagged" {
		t.Fatalf("small penalty should not demote: %+v", scores)
	}

	large := testProfile()
	large.SuperficialityPenalty = -0.3
	scores = e.Rank(candidates, large)
	if scores[0].ChunkID != "clean" {
		t.Fatalf("large penalty should demote the flagged candidate: %+v", scores)
	}
}

func TestRank_ThreeCandidateScenario(t *testing.T) {
	e := NewEngine()
	prof := testProfile()

	dims := map[string]float32{"depth": 0.8}
	candidates := []Candidate{
		{ChunkID: "c1", SimilarityScore: 0.9, DimensionScores: dims, QualityConfidence: 0.9},
		{ChunkID: "c2", SimilarityScore: 0.85, DimensionScores: dims, QualityConfidence: 0.9, IsSuperficial: true},
		{ChunkID: "c3", SimilarityScore: 0.85, DimensionScores: dims, QualityConfidence: 0.9},
	}

	scores := e.Rank(candidates, prof)
	got := []string{scores[0].ChunkID, scores[1].ChunkID, scores[2].ChunkID}
	want := []string{"c1", "c3", "c2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order: got %v, want %v", got, want)
		}
	}
}

func TestRank_StableOnExactTies(t *testing.T) {
	e := NewEngine()
	prof := testProfile()

	candidates := []Candidate{
		{ChunkID: "first", SimilarityScore: 0.5},
		{ChunkID: "second", SimilarityScore: 0.5},
		{ChunkID: "third", SimilarityScore: 0.5},
	}
	scores := e.Rank(candidates, prof)
	got := []string{scores[0].ChunkID, scores[1].ChunkID, scores[2].ChunkID}
	if got[0] != "first" || got[1] != "second" || got[2] != "third" {
		t.Errorf("exact ties must keep input order, got %v", got)
	}
}

func TestRank_Explanation(t *testing.T) {
	e := NewEngine()
	prof := testProfile()

	scores := e.Rank([]Candidate{{
		ChunkID:         "c1",
		SimilarityScore: 0.9,
		DimensionScores: map[string]float32{"depth": 0.6},
		IsSuperficial:   true,
	}}, prof)

	explanation := scores[0].Explanation
	for _, want := range []string{"semantic_similarity", "dimension_alignment", "superficiality_penalty"} {
		if !strings.Contains(explanation, want) {
			t.Errorf("explanation missing %q: %s", want, explanation)
		}
	}
}

func TestRank_AttenuatedProfile(t *testing.T) {
	e := NewEngine()
	prof := testProfile()
	prof.FactorWeights = map[profile.Factor]float32{
		profile.FactorSemanticSimilarity: 0.5,
	}

	scores := e.Rank([]Candidate{{ChunkID: "c1", SimilarityScore: 1.0}}, prof)
	if scores[0].OverallScore != 0.5 {
		t.Errorf("attenuated score: got %.3f, want 0.500", scores[0].OverallScore)
	}
}

func TestRank_OutOfRangeSimilarityClamped(t *testing.T) {
	e := NewEngine()
	prof := testProfile()
	prof.FactorWeights = map[profile.Factor]float32{profile.FactorSemanticSimilarity: 1.0}

	scores := e.Rank([]Candidate{{ChunkID: "c1", SimilarityScore: 3.0}}, prof)
	if scores[0].OverallScore > 1.0 {
		t.Errorf("out-of-range similarity must be clamped: %.3f", scores[0].OverallScore)
	}
}
