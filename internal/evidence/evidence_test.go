package evidence

import (
	"math"
	"testing"

	"github.com/dquist/master-verifier/internal/assess"
	"github.com/dquist/master-verifier/internal/profile"
)

func testProfile() profile.Profile {
	return profile.BuiltinProfiles()[profile.DefaultName]
}

func TestSubstantiveness_PositiveVerdict(t *testing.T) {
	tests := []struct {
		confidence float32
		want       float32
	}{
		{0.0, 0.80},
		{0.5, 0.90},
		{1.0, 1.00},
	}
	for _, tt := range tests {
		item := Substantiveness(assess.VerificationResult{IsSubstantive: true, Confidence: tt.confidence})
		if !closeTo(item.Score, tt.want) {
			t.Errorf("confidence %.2f: got %.3f, want %.3f", tt.confidence, item.Score, tt.want)
		}
	}
}

func TestSubstantiveness_NegativeVerdict(t *testing.T) {
	// Higher detector confidence in a negative verdict pushes the penalty
	// toward the 0.1 floor, never to zero.
	tests := []struct {
		confidence float32
		want       float32
	}{
		{0.0, 0.48},
		{0.5, 0.30},
		{1.0, 0.12},
	}
	for _, tt := range tests {
		item := Substantiveness(assess.VerificationResult{IsSubstantive: false, Confidence: tt.confidence})
		if !closeTo(item.Score, tt.want) {
			t.Errorf("confidence %.2f: got %.3f, want %.3f", tt.confidence, item.Score, tt.want)
		}
		if item.Score < 0.1 {
			t.Errorf("substantiveness floor violated: %.3f", item.Score)
		}
	}
}

func TestAggregate_WeightedSum(t *testing.T) {
	prof := testProfile()
	items := []Item{
		{Type: profile.EvidenceSubstantiveness, Score: 1.0},
		{Type: profile.EvidenceQuality, Score: 0.5},
	}

	report := Aggregate(items, prof)
	// 1.0×0.30 + 0.5×0.20 = 0.40
	if !closeTo(report.Score, 0.40) {
		t.Errorf("score: got %.3f, want 0.400", report.Score)
	}
	if !closeTo(report.Contributions[profile.EvidenceSubstantiveness], 0.30) {
		t.Errorf("substantiveness contribution: got %.3f", report.Contributions[profile.EvidenceSubstantiveness])
	}
}

func TestAggregate_UnmappedTypeContributesZero(t *testing.T) {
	prof := testProfile()
	delete(prof.EvidenceWeights, profile.EvidenceRetrievalStrength)

	report := Aggregate([]Item{
		{Type: profile.EvidenceRetrievalStrength, Score: 1.0},
		{Type: profile.EvidenceSubstantiveness, Score: 1.0},
	}, prof)

	if report.Contributions[profile.EvidenceRetrievalStrength] != 0 {
		t.Error("unmapped evidence type must contribute zero")
	}
	if !closeTo(report.Score, 0.30) {
		t.Errorf("score: got %.3f, want 0.300", report.Score)
	}
}

func TestAggregate_Bounds(t *testing.T) {
	prof := testProfile()

	tests := []struct {
		name  string
		items []Item
	}{
		{"empty", nil},
		{"all-max", []Item{
			{Type: profile.EvidenceSubstantiveness, Score: 1.0},
			{Type: profile.EvidenceSourceCredibility, Score: 1.0},
			{Type: profile.EvidenceQuality, Score: 1.0},
			{Type: profile.EvidenceDimensionConsistency, Score: 1.0},
			{Type: profile.EvidenceRetrievalStrength, Score: 1.0},
		}},
		{"out-of-range-input", []Item{
			{Type: profile.EvidenceSubstantiveness, Score: 7.5},
			{Type: profile.EvidenceQuality, Score: -2.0},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Aggregate(tt.items, prof)
			if report.Score < 0 || report.Score > 1 {
				t.Errorf("aggregate outside [0,1]: %.3f", report.Score)
			}
		})
	}
}

func TestAggregate_DuplicateTypeAccumulates(t *testing.T) {
	prof := testProfile()
	report := Aggregate([]Item{
		{Type: profile.EvidenceQuality, Score: 0.5},
		{Type: profile.EvidenceQuality, Score: 0.5},
	}, prof)
	// Two 0.5×0.20 contributions
	if !closeTo(report.Contributions[profile.EvidenceQuality], 0.20) {
		t.Errorf("accumulated contribution: got %.3f, want 0.200", report.Contributions[profile.EvidenceQuality])
	}
}

func closeTo(got, want float32) bool {
	return math.Abs(float64(got-want)) < 1e-3
}
