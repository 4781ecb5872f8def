package ranking

// #region imports
import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/dquist/master-verifier/internal/profile"
)

// #endregion

// #region candidate

// Candidate is one retrieved memory under consideration for a query. The
// similarity score and dimension scores are supplied by the retrieval and
// embedding subsystems; quality metadata was written at ingestion and is
// read-only here.
type Candidate struct {
	ChunkID           string             `json:"chunk_id"`
	Text              string             `json:"text,omitempty"`
	SimilarityScore   float32            `json:"similarity_score"`
	DimensionScores   map[string]float32 `json:"dimension_scores,omitempty"`
	SourceCredibility float32            `json:"source_credibility"` // optional, zero when the source is unrated
	IsSuperficial     bool               `json:"is_superficial"`
	QualityConfidence float32            `json:"quality_confidence"`
}

// #endregion

// #region score

// Score is the ranking verdict for one candidate. Ephemeral; one per
// candidate per query.
type Score struct {
	ChunkID             string                     `json:"chunk_id"`
	OverallScore        float32                    `json:"overall_score"`
	FactorContributions map[profile.Factor]float32 `json:"factor_contributions"`
	PenaltyApplied      bool                       `json:"penalty_applied"`
	Explanation         string                     `json:"explanation"`
}

// #endregion

// #region engine

// Engine orders retrieval candidates by a profile-weighted multi-factor
// score. Ranking only reads chunk quality metadata; it never rewrites the
// superficiality flag set at ingestion.
type Engine struct{}

// NewEngine creates a ranking engine.
func NewEngine() *Engine {
	return &Engine{}
}

// #endregion

// #region rank

// Rank scores and orders candidates, highest first. Exact ties keep their
// input order. An empty candidate list returns an empty ranking.
func (e *Engine) Rank(candidates []Candidate, prof profile.Profile) []Score {
	scores := make([]Score, len(candidates))
	for i, c := range candidates {
		scores[i] = e.score(c, prof)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].OverallScore > scores[j].OverallScore
	})
	return scores
}

// #endregion

// #region score-one

func (e *Engine) score(c Candidate, prof profile.Profile) Score {
	factorScores := map[profile.Factor]float32{
		profile.FactorSemanticSimilarity: checkRange("semantic_similarity", c.SimilarityScore),
		profile.FactorDimensionAlignment: dimensionAlignment(c.DimensionScores),
		profile.FactorQualityConfidence:  checkRange("quality_confidence", c.QualityConfidence),
		profile.FactorSourceCredibility:  checkRange("source_credibility", c.SourceCredibility),
	}

	contributions := make(map[profile.Factor]float32, len(prof.FactorWeights))
	var overall float32
	var parts []string

	// Iterate the closed factor list so explanation order is stable.
	for _, f := range profile.KnownFactors {
		weight, ok := prof.FactorWeights[f]
		if !ok {
			continue
		}
		contribution := weight * factorScores[f]
		contributions[f] = contribution
		overall += contribution
		parts = append(parts, fmt.Sprintf("%s: %.2f×%.2f=%.3f", f, factorScores[f], weight, contribution))
	}

	penalty := false
	if c.IsSuperficial && prof.EnableSuperficialityFiltering {
		overall += prof.SuperficialityPenalty
		penalty = true
		parts = append(parts, fmt.Sprintf("superficiality_penalty: %.2f", prof.SuperficialityPenalty))
	}

	return Score{
		ChunkID:             c.ChunkID,
		OverallScore:        overall,
		FactorContributions: contributions,
		PenaltyApplied:      penalty,
		Explanation:         strings.Join(parts, " | "),
	}
}

// #endregion

// #region helpers

// dimensionAlignment combines the externally supplied dimension scores.
// Missing dimensions simply contribute nothing.
func dimensionAlignment(scores map[string]float32) float32 {
	if len(scores) == 0 {
		return 0
	}
	var sum float32
	for name, s := range scores {
		sum += checkRange("dimension:"+name, s)
	}
	return sum / float32(len(scores))
}

// checkRange clamps a factor input to [0,1]. Inputs outside the range are
// a defect in the producing subsystem, logged and recovered.
func checkRange(name string, f float32) float32 {
	if f < 0 {
		log.Printf("[RANK] %s score %.3f below 0, clamping", name, f)
		return 0
	}
	if f > 1 {
		log.Printf("[RANK] %s score %.3f above 1, clamping", name, f)
		return 1
	}
	return f
}

// #endregion
