package assess

// #region imports
import (
	"fmt"
	"strings"
	"unicode"
)

// #endregion

// #region assessor

// Assessor flags superficial text via deterministic heuristics. No model
// call, no I/O; assessing the same text twice yields the same result.
type Assessor struct {
	config Config
}

// New creates an assessor with the given thresholds.
func New(config Config) *Assessor {
	return &Assessor{config: config}
}

// #endregion

// #region assess

// Assess evaluates one piece of text. Each indicator is independently
// sufficient to flag the text as superficial; all triggered reasons are
// kept in evaluation order.
func (a *Assessor) Assess(text string) VerificationResult {
	lower := strings.ToLower(strings.TrimSpace(text))
	tokens := tokenize(lower)

	indicators := make(map[string]float32)
	var reasons []string

	// 1. Length
	if len(tokens) < a.config.MinWordCount {
		indicators["too_short"] = float32(len(tokens))
		reasons = append(reasons, fmt.Sprintf("too_short(%d)", len(tokens)))
	}

	// 2. Boilerplate phrases — distinct matches against the curated set
	boilerplate := countBoilerplate(lower)
	if boilerplate >= a.config.BoilerplateMin {
		indicators["boilerplate_phrases"] = float32(boilerplate)
		reasons = append(reasons, fmt.Sprintf("boilerplate_phrases(%d)", boilerplate))
	}

	// 3. Generic-word ratio
	if len(tokens) > a.config.GenericMinWords {
		ratio := vocabRatio(tokens, genericWords)
		if ratio > a.config.GenericRatio {
			indicators["generic_word_ratio"] = ratio
			reasons = append(reasons, fmt.Sprintf("generic_word_ratio(%.2f)", ratio))
		}
	}

	// 4. Repetition — dominant token share
	if top, share := topTokenShare(tokens); share > a.config.RepetitionRatio {
		indicators["repetition"] = share
		reasons = append(reasons, fmt.Sprintf("repetition(%s)", top))
	}

	// 5. Vague-term density
	if len(tokens) > 0 {
		density := vocabRatio(tokens, vagueTerms)
		if density > a.config.VagueDensity {
			indicators["vague_term_density"] = density
			reasons = append(reasons, fmt.Sprintf("vague_term_density(%.2f)", density))
		}
	}

	return VerificationResult{
		IsSubstantive: len(reasons) == 0,
		Confidence:    confidenceFor(len(reasons)),
		Indicators:    indicators,
		Reasons:       reasons,
		Method:        MethodPatternMatching,
	}
}

// #endregion

// #region confidence

// confidenceFor maps the triggered-indicator count to a verdict confidence.
// 0.9 substantive, 0.8 baseline when flagged, 0.95 when more than two
// indicators fire at once.
func confidenceFor(triggered int) float32 {
	switch {
	case triggered == 0:
		return 0.9
	case triggered > 2:
		return 0.95
	default:
		return 0.8
	}
}

// #endregion

// #region tokenize

// tokenize splits lowercased text on whitespace and strips punctuation
// from each token. Tokens reduced to nothing are dropped.
func tokenize(lower string) []string {
	fields := strings.Fields(lower)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// #endregion

// #region helpers

func countBoilerplate(lower string) int {
	count := 0
	for _, p := range boilerplatePhrases {
		if strings.Contains(lower, p) {
			count++
		}
	}
	return count
}

func vocabRatio(tokens []string, vocab map[string]bool) float32 {
	if len(tokens) == 0 {
		return 0
	}
	hits := 0
	for _, t := range tokens {
		if vocab[t] {
			hits++
		}
	}
	return float32(hits) / float32(len(tokens))
}

// topTokenShare returns the most frequent token and its share of all tokens.
func topTokenShare(tokens []string) (string, float32) {
	if len(tokens) == 0 {
		return "", 0
	}
	counts := make(map[string]int)
	for _, t := range tokens {
		counts[t]++
	}
	var top string
	best := 0
	for _, t := range tokens { // iterate in order so ties are deterministic
		if counts[t] > best {
			best = counts[t]
			top = t
		}
	}
	return top, float32(best) / float32(len(tokens))
}

// #endregion
