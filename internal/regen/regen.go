package regen

// #region imports
import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dquist/master-verifier/internal/assess"
	"github.com/dquist/master-verifier/internal/evidence"
	"github.com/dquist/master-verifier/internal/profile"
	"github.com/dquist/master-verifier/internal/ranking"
)

// #endregion

// #region state

// State is a phase of one response-generation cycle.
type State string

const (
	StateDrafted      State = "drafted"
	StateChecked      State = "checked"
	StateAccepted     State = "accepted"
	StateRegenerating State = "regenerating"
	StateFinalized    State = "finalized"
)

// #endregion

// #region interfaces

// Generator produces a draft response from a query and context texts. It is
// an external collaborator; prompt construction and model invocation happen
// behind this boundary.
type Generator interface {
	Generate(ctx context.Context, query string, contextTexts []string) (string, error)
}

// Checker evaluates a draft against its query. Satisfied by detect.Detector.
type Checker interface {
	Detect(ctx context.Context, response, query string, prof profile.Profile) assess.VerificationResult
}

// #endregion

// #region types

// Attempt records one generation attempt within a cycle.
type Attempt struct {
	Response     string
	Verification assess.VerificationResult
	Confidence   float32
}

// Result is the finalized outcome of a generation cycle. Once finalized the
// response text is fixed; only the quality note may be appended.
type Result struct {
	Response     string
	QualityNote  string // empty when the response passed verification
	Confidence   float32
	Verification assess.VerificationResult
	FinalState   State
	Trace        []State // state transitions in order
	Regenerated  int     // regeneration attempts actually performed
	Attempts     []Attempt
}

// Final returns the response with the quality note appended, ready for the
// presentation layer.
func (r Result) Final() string {
	if r.QualityNote == "" {
		return r.Response
	}
	return r.Response + "\n\n" + r.QualityNote
}

// #endregion

// #region controller

// Controller drives the generate → check → regenerate loop. Retries are
// strictly sequential and bounded by the profile's attempt limit and the
// context deadline; the cycle always finalizes with a response.
type Controller struct {
	generator Generator
	checker   Checker
}

// NewController wires a controller from its collaborators.
func NewController(generator Generator, checker Checker) *Controller {
	return &Controller{generator: generator, checker: checker}
}

// #endregion

// #region run

// Run executes one full cycle for a query. candidates must already be in
// ranked order; on regeneration the context narrows to the non-superficial
// candidates.
func (c *Controller) Run(ctx context.Context, query string, candidates []ranking.Candidate, prof profile.Profile) (Result, error) {
	contextTexts := candidateTexts(candidates, false)

	var attempts []Attempt
	var trace []State
	regenerated := 0

	for {
		if err := ctx.Err(); err != nil {
			// Wall-clock budget exhausted mid-cycle: finalize with the best
			// existing draft rather than blocking or failing.
			if len(attempts) == 0 {
				return Result{}, fmt.Errorf("generation budget exhausted before first draft: %w", err)
			}
			log.Printf("[REGEN] budget exhausted after %d attempts, finalizing early", len(attempts))
			return c.finalize(attempts, trace, regenerated, "generation budget exhausted during quality checks"), nil
		}

		draft, err := c.generator.Generate(ctx, query, contextTexts)
		if err != nil {
			if len(attempts) == 0 {
				return Result{}, fmt.Errorf("generate: %w", err)
			}
			log.Printf("[REGEN] regeneration failed, keeping previous draft: %v", err)
			return c.finalize(attempts, trace, regenerated, "regeneration failed; earlier draft retained"), nil
		}
		trace = append(trace, StateDrafted)

		verification := c.checker.Detect(ctx, draft, query, prof)
		confidence := draftConfidence(verification, candidates, prof)
		attempts = append(attempts, Attempt{Response: draft, Verification: verification, Confidence: confidence})
		trace = append(trace, StateChecked)

		log.Printf("[REGEN] attempt %d: substantive=%v confidence=%.2f regenerate=%v",
			len(attempts), verification.IsSubstantive, confidence, verification.RegenerationRecommended)

		if !verification.RegenerationRecommended {
			trace = append(trace, StateAccepted, StateFinalized)
			result := Result{
				Response:     draft,
				Confidence:   confidence,
				Verification: verification,
				FinalState:   StateFinalized,
				Trace:        trace,
				Regenerated:  regenerated,
				Attempts:     attempts,
			}
			c.validate(result)
			return result, nil
		}

		if regenerated >= prof.MaxRegenerationAttempts {
			return c.finalize(attempts, trace, regenerated, ""), nil
		}

		// Narrow the context to the highest-quality candidates and retry.
		regenerated++
		trace = append(trace, StateRegenerating)
		if narrowed := candidateTexts(candidates, true); len(narrowed) > 0 {
			contextTexts = narrowed
		}
	}
}

// #endregion

// #region finalize

// finalize picks the best draft seen and appends a visible quality note.
// RegenerationExhausted is a normal terminal state, not an error: the
// system always returns a response.
func (c *Controller) finalize(attempts []Attempt, trace []State, regenerated int, extra string) Result {
	best := attempts[0]
	for _, a := range attempts[1:] {
		if a.Confidence > best.Confidence {
			best = a
		}
	}

	result := Result{
		Response:     best.Response,
		QualityNote:  qualityNote(best.Verification, extra),
		Confidence:   best.Confidence,
		Verification: best.Verification,
		FinalState:   StateFinalized,
		Trace:        append(trace, StateFinalized),
		Regenerated:  regenerated,
		Attempts:     attempts,
	}
	c.validate(result)
	return result
}

// qualityNote builds the annotation appended to a response that did not
// pass verification.
func qualityNote(v assess.VerificationResult, extra string) string {
	var b strings.Builder
	b.WriteString("Note: this response did not pass quality verification")
	if len(v.Reasons) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(v.Reasons, ", "))
	}
	b.WriteString(".")
	if extra != "" {
		b.WriteString(" ")
		b.WriteString(extra)
		b.WriteString(".")
	}
	return b.String()
}

// #endregion

// #region validate

// validate checks the finalized result for internal consistency and logs
// anything a downstream consumer would consider contradictory. Issues are
// warnings only; the result is already final.
func (c *Controller) validate(r Result) {
	if r.Confidence < 0 || r.Confidence > 1 {
		log.Printf("[REGEN] finalized confidence %.3f outside [0,1]", r.Confidence)
	}
	if !r.Verification.IsSubstantive && r.QualityNote == "" {
		log.Printf("[REGEN] superficial verdict finalized without a quality note")
	}
	if !r.Verification.IsSubstantive && r.Confidence > 0.7 {
		log.Printf("[REGEN] high confidence %.2f despite superficial verdict", r.Confidence)
	}
}

// #endregion

// #region helpers

// draftConfidence aggregates the evidence available at this point in the
// cycle: the mandatory substantiveness item plus retrieval strength,
// evidence quality, and source credibility derived from the context
// candidates.
func draftConfidence(v assess.VerificationResult, candidates []ranking.Candidate, prof profile.Profile) float32 {
	items := []evidence.Item{evidence.Substantiveness(v)}

	if len(candidates) > 0 {
		var similarity, quality, credibility float32
		for _, c := range candidates {
			similarity += c.SimilarityScore
			quality += c.QualityConfidence
			credibility += c.SourceCredibility
		}
		n := float32(len(candidates))
		items = append(items,
			evidence.Item{
				Type:        profile.EvidenceRetrievalStrength,
				Score:       similarity / n,
				Description: fmt.Sprintf("mean similarity across %d context candidates", len(candidates)),
			},
			evidence.Item{
				Type:        profile.EvidenceQuality,
				Score:       quality / n,
				Description: "mean ingestion-time quality confidence of context",
			},
			evidence.Item{
				Type:        profile.EvidenceSourceCredibility,
				Score:       credibility / n,
				Description: "mean source credibility of context",
			},
		)
	}

	return evidence.Aggregate(items, prof).Score
}

// candidateTexts extracts context texts, optionally keeping only
// non-superficial candidates. Input order (ranked) is preserved.
func candidateTexts(candidates []ranking.Candidate, substantiveOnly bool) []string {
	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if substantiveOnly && c.IsSuperficial {
			continue
		}
		texts = append(texts, c.Text)
	}
	return texts
}

// #endregion
