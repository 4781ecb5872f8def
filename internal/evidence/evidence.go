package evidence

// #region imports
import (
	"fmt"
	"log"

	"github.com/dquist/master-verifier/internal/assess"
	"github.com/dquist/master-verifier/internal/profile"
)

// #endregion

// #region item

// Item is one weighted quality signal contributing to a response confidence
// score.
type Item struct {
	Type        profile.EvidenceType
	Score       float32 // in [0,1]
	Description string
}

// #endregion

// #region report

// Report is the aggregated confidence with its per-type contributions.
type Report struct {
	Score         float32
	Contributions map[profile.EvidenceType]float32
}

// #endregion

// #region substantiveness

// Substantiveness derives the mandatory substantiveness evidence item from
// a verification verdict. Detector confidence in a positive verdict pushes
// the score toward 1.0; confidence in a negative verdict pushes it toward
// the 0.1 floor. A response is never assigned absolute-zero confidence.
func Substantiveness(res assess.VerificationResult) Item {
	var score float32
	var desc string
	if res.IsSubstantive {
		score = 0.8 + 0.2*res.Confidence
		desc = fmt.Sprintf("substantive response verified (%s, confidence %.2f)", res.Method, res.Confidence)
	} else {
		score = 0.6 * (1 - (0.2 + 0.6*res.Confidence))
		if score < 0.1 {
			score = 0.1
		}
		desc = fmt.Sprintf("superficial response detected (%s, confidence %.2f)", res.Method, res.Confidence)
	}
	return Item{
		Type:        profile.EvidenceSubstantiveness,
		Score:       clamp01(score),
		Description: desc,
	}
}

// #endregion

// #region aggregate

// Aggregate combines evidence items into a single confidence score using
// the profile's evidence weights. Items whose type has no mapping
// contribute zero and are logged as a configuration warning, never an
// error. The result is clamped to [0,1].
func Aggregate(items []Item, prof profile.Profile) Report {
	contributions := make(map[profile.EvidenceType]float32, len(items))

	var total float32
	for _, it := range items {
		weight, ok := prof.EvidenceWeights[it.Type]
		if !ok {
			log.Printf("[EVIDENCE] profile %s has no weight for evidence type %q, contributing zero", prof.Name, it.Type)
			contributions[it.Type] = 0
			continue
		}
		score := it.Score
		if score < 0 || score > 1 {
			// Out-of-range evidence is a defect in the producer; recover by
			// clamping and leave a trail.
			log.Printf("[EVIDENCE] score %.3f for %q outside [0,1], clamping", score, it.Type)
			score = clamp01(score)
		}
		contribution := score * weight
		contributions[it.Type] += contribution
		total += contribution
	}

	return Report{
		Score:         clamp01(total),
		Contributions: contributions,
	}
}

// #endregion

// #region clamp

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// #endregion
