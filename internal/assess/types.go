package assess

// #region method

// Method identifies how a verification verdict was produced.
type Method string

const (
	MethodPatternMatching Method = "pattern_matching"
	MethodExternal        Method = "external"
	MethodHybrid          Method = "hybrid"
	MethodNone            Method = "none"
)

// #endregion

// #region verification-result

// VerificationResult is the outcome of a single quality verification.
// IsSubstantive and Confidence are deliberately independent: the flag is a
// hard OR over indicators while the confidence is a soft tier, and the two
// can disagree on borderline text.
type VerificationResult struct {
	IsSubstantive           bool               `json:"is_substantive"`
	Confidence              float32            `json:"confidence"` // in [0,1]
	Indicators              map[string]float32 `json:"indicators,omitempty"`
	Reasons                 []string           `json:"reasons,omitempty"` // ordered by evaluation, never truncated
	RegenerationRecommended bool               `json:"regeneration_recommended"`
	Method                  Method             `json:"method"`
}

// #endregion

// #region config

// Config holds thresholds for the heuristic indicators.
type Config struct {
	MinWordCount       int     // indicator 1: word count below this flags the text
	BoilerplateMin     int     // indicator 2: distinct boilerplate phrases required to flag
	GenericRatio       float32 // indicator 3: generic-token ratio above this flags
	GenericMinWords    int     // indicator 3 only applies above this word count
	RepetitionRatio    float32 // indicator 4: top-token share above this flags
	VagueDensity       float32 // indicator 5: vague-token density above this flags
}

// DefaultConfig returns the standard indicator thresholds.
func DefaultConfig() Config {
	return Config{
		MinWordCount:    10,
		BoilerplateMin:  2,
		GenericRatio:    0.7,
		GenericMinWords: 5,
		RepetitionRatio: 0.3,
		VagueDensity:    0.2,
	}
}

// #endregion
