package profile

// #region imports
import (
	"os"
	"strconv"
)

// #endregion

// #region default-name

// DefaultName is the profile used when a requested profile is unknown.
const DefaultName = "general"

// #endregion

// #region built-in-profiles

// BuiltinProfiles returns the compiled-in profile set. These are the
// fallback when no profile file is configured and the base that a file
// overlays.
func BuiltinProfiles() map[string]Profile {
	base := baseThresholds()

	profiles := map[string]Profile{
		"general": {
			FactorWeights: map[Factor]float32{
				FactorSemanticSimilarity: 0.5,
				FactorDimensionAlignment: 0.2,
				FactorQualityConfidence:  0.2,
				FactorSourceCredibility:  0.1,
			},
			EvidenceWeights: map[EvidenceType]float32{
				EvidenceSubstantiveness:      0.30,
				EvidenceSourceCredibility:    0.20,
				EvidenceQuality:              0.20,
				EvidenceDimensionConsistency: 0.15,
				EvidenceRetrievalStrength:    0.15,
			},
		},
		"business": {
			FactorWeights: map[Factor]float32{
				FactorSemanticSimilarity: 0.4,
				FactorDimensionAlignment: 0.3,
				FactorQualityConfidence:  0.2,
				FactorSourceCredibility:  0.1,
			},
			EvidenceWeights: map[EvidenceType]float32{
				EvidenceSubstantiveness:      0.35,
				EvidenceSourceCredibility:    0.15,
				EvidenceQuality:              0.20,
				EvidenceDimensionConsistency: 0.15,
				EvidenceRetrievalStrength:    0.15,
			},
		},
		"researcher": {
			FactorWeights: map[Factor]float32{
				FactorSemanticSimilarity: 0.35,
				FactorDimensionAlignment: 0.25,
				FactorQualityConfidence:  0.15,
				FactorSourceCredibility:  0.25,
			},
			EvidenceWeights: map[EvidenceType]float32{
				EvidenceSubstantiveness:      0.25,
				EvidenceSourceCredibility:    0.30,
				EvidenceQuality:              0.25,
				EvidenceDimensionConsistency: 0.10,
				EvidenceRetrievalStrength:    0.10,
			},
		},
		"legal": {
			FactorWeights: map[Factor]float32{
				FactorSemanticSimilarity: 0.30,
				FactorDimensionAlignment: 0.20,
				FactorQualityConfidence:  0.20,
				FactorSourceCredibility:  0.30,
			},
			EvidenceWeights: map[EvidenceType]float32{
				EvidenceSubstantiveness:      0.30,
				EvidenceSourceCredibility:    0.30,
				EvidenceQuality:              0.20,
				EvidenceDimensionConsistency: 0.10,
				EvidenceRetrievalStrength:    0.10,
			},
		},
	}

	for name, p := range profiles {
		p.Name = name
		p.SuperficialityPenalty = base.SuperficialityPenalty
		p.EnableSuperficialityFiltering = base.EnableSuperficialityFiltering
		p.SuperficialThreshold = base.SuperficialThreshold
		p.RegenerationThreshold = base.RegenerationThreshold
		p.MaxRegenerationAttempts = base.MaxRegenerationAttempts
		profiles[name] = p
	}
	return profiles
}

// #endregion

// #region thresholds

// baseThresholds returns the shared threshold defaults, with env overrides:
// VERIFIER_SUPERFICIALITY_PENALTY, VERIFIER_SUPERFICIAL_FILTERING,
// VERIFIER_SUPERFICIAL_THRESHOLD, VERIFIER_REGENERATION_THRESHOLD,
// VERIFIER_MAX_REGEN_ATTEMPTS.
func baseThresholds() Profile {
	p := Profile{
		SuperficialityPenalty:         -0.3,
		EnableSuperficialityFiltering: true,
		SuperficialThreshold:          0.7,
		RegenerationThreshold:         0.8,
		MaxRegenerationAttempts:       2,
	}
	if v := os.Getenv("VERIFIER_SUPERFICIALITY_PENALTY"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			p.SuperficialityPenalty = float32(f)
		}
	}
	if v := os.Getenv("VERIFIER_SUPERFICIAL_FILTERING"); v != "" {
		p.EnableSuperficialityFiltering = v == "true" || v == "1"
	}
	if v := os.Getenv("VERIFIER_SUPERFICIAL_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			p.SuperficialThreshold = float32(f)
		}
	}
	if v := os.Getenv("VERIFIER_REGENERATION_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			p.RegenerationThreshold = float32(f)
		}
	}
	if v := os.Getenv("VERIFIER_MAX_REGEN_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.MaxRegenerationAttempts = n
		}
	}
	return p
}

// #endregion
