package profile

// #region factor

// Factor identifies a ranking factor. The set is closed; profile weight maps
// may only reference these keys.
type Factor string

const (
	FactorSemanticSimilarity Factor = "semantic_similarity"
	FactorDimensionAlignment Factor = "dimension_alignment"
	FactorQualityConfidence  Factor = "quality_confidence"
	FactorSourceCredibility  Factor = "source_credibility"
)

// KnownFactors lists every recognized ranking factor.
var KnownFactors = []Factor{
	FactorSemanticSimilarity,
	FactorDimensionAlignment,
	FactorQualityConfidence,
	FactorSourceCredibility,
}

// #endregion

// #region evidence-type

// EvidenceType identifies one weighted quality signal in a confidence
// evaluation. Closed set, same rule as Factor.
type EvidenceType string

const (
	EvidenceSubstantiveness      EvidenceType = "substantiveness"
	EvidenceSourceCredibility    EvidenceType = "source_credibility"
	EvidenceQuality              EvidenceType = "evidence_quality"
	EvidenceDimensionConsistency EvidenceType = "dimension_consistency"
	EvidenceRetrievalStrength    EvidenceType = "retrieval_strength"
)

// KnownEvidenceTypes lists every recognized evidence type.
var KnownEvidenceTypes = []EvidenceType{
	EvidenceSubstantiveness,
	EvidenceSourceCredibility,
	EvidenceQuality,
	EvidenceDimensionConsistency,
	EvidenceRetrievalStrength,
}

// #endregion

// #region profile

// Profile is a named bundle of ranking and evidence weights plus quality
// thresholds, tailored to a usage domain. Read-only during a request.
type Profile struct {
	Name                          string                   `yaml:"name"`
	FactorWeights                 map[Factor]float32       `yaml:"factor_weights"`
	EvidenceWeights               map[EvidenceType]float32 `yaml:"evidence_weights"`
	SuperficialityPenalty         float32                  `yaml:"superficiality_penalty"` // negative
	EnableSuperficialityFiltering bool                     `yaml:"enable_superficiality_filtering"`
	SuperficialThreshold          float32                  `yaml:"superficial_threshold"`
	RegenerationThreshold         float32                  `yaml:"regeneration_threshold"`
	MaxRegenerationAttempts       int                      `yaml:"max_regeneration_attempts"`
}

// #endregion
