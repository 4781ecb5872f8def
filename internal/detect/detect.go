package detect

// #region imports
import (
	"context"
	"log"
	"sync/atomic"

	"github.com/dquist/master-verifier/internal/assess"
	"github.com/dquist/master-verifier/internal/profile"
)

// #endregion

// #region external-verifier

// ExternalVerifier is a pluggable remote verdict source (e.g. a hosted
// Master-RM service). The query gives it context the heuristic path does
// not use.
type ExternalVerifier interface {
	Verify(ctx context.Context, query, response string) (assess.VerificationResult, error)
}

// #endregion

// #region stats

// Stats counts verification activity since process start.
type Stats struct {
	Verifications int64 `json:"verifications"`
	Substantive   int64 `json:"substantive"`
	Superficial   int64 `json:"superficial"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
}

// #endregion

// #region detector

// Detector evaluates generated responses in real time before they reach a
// user. It tries the external verifier first and degrades to the heuristic
// assessor on absence or failure; a verification error never propagates to
// the caller.
type Detector struct {
	assessor *assess.Assessor
	external ExternalVerifier // nil = heuristic only
	cache    Cache            // nil = no caching

	verifications atomic.Int64
	substantive   atomic.Int64
	superficial   atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
}

// NewDetector creates a detector. external and cache may be nil.
func NewDetector(assessor *assess.Assessor, external ExternalVerifier, cache Cache) *Detector {
	return &Detector{assessor: assessor, external: external, cache: cache}
}

// #endregion

// #region detect

// Detect evaluates a generated response against its originating query.
// The regeneration recommendation is profile-dependent and is recomputed
// even on cache hits.
func (d *Detector) Detect(ctx context.Context, response, query string, prof profile.Profile) assess.VerificationResult {
	key := cacheKey(query, response)

	if d.cache != nil {
		if cached, ok := d.cache.Get(ctx, key); ok {
			d.cacheHits.Add(1)
			return d.finish(cached, prof)
		}
		d.cacheMisses.Add(1)
	}

	result := d.verify(ctx, response, query, prof)

	if d.cache != nil {
		if err := d.cache.Set(ctx, key, result); err != nil {
			log.Printf("[DETECT] cache set failed: %v", err)
		}
	}

	d.verifications.Add(1)
	if result.IsSubstantive {
		d.substantive.Add(1)
	} else {
		d.superficial.Add(1)
	}

	return d.finish(result, prof)
}

// #endregion

// #region verify

// verify runs the external verifier with heuristic fallback. Fail-open: a
// broken verifier degrades the method, never the request.
func (d *Detector) verify(ctx context.Context, response, query string, prof profile.Profile) assess.VerificationResult {
	if d.external == nil {
		return d.assessor.Assess(response)
	}

	result, err := d.external.Verify(ctx, query, response)
	if err != nil {
		log.Printf("[DETECT] external verifier failed, using heuristic fallback: %v", err)
		return d.assessor.Assess(response)
	}

	// A low-confidence external verdict defers to pattern matching; the
	// combined verdict is reported as hybrid.
	if result.Confidence < prof.SuperficialThreshold {
		heuristic := d.assessor.Assess(response)
		heuristic.Method = assess.MethodHybrid
		return heuristic
	}

	result.Method = assess.MethodExternal
	return result
}

// #endregion

// #region finish

// finish applies the profile-dependent regeneration recommendation.
func (d *Detector) finish(result assess.VerificationResult, prof profile.Profile) assess.VerificationResult {
	result.RegenerationRecommended = !result.IsSubstantive && result.Confidence > prof.RegenerationThreshold
	return result
}

// #endregion

// #region stats-snapshot

// Snapshot returns the current verification counters.
func (d *Detector) Snapshot() Stats {
	return Stats{
		Verifications: d.verifications.Load(),
		Substantive:   d.substantive.Load(),
		Superficial:   d.superficial.Load(),
		CacheHits:     d.cacheHits.Load(),
		CacheMisses:   d.cacheMisses.Load(),
	}
}

// #endregion
