package assess

// #region boilerplate-phrases

// boilerplatePhrases are evasive filler phrases that carry no information.
// Two or more distinct matches flag the text.
var boilerplatePhrases = []string{
	"it depends",
	"generally speaking",
	"as mentioned above",
	"based on the information provided",
	"there are many factors",
	"this varies",
	"from case to case",
	"it's important to note",
	"it is important to note",
	"for more information",
	"please consult",
	"i can help you understand",
	"i understand that",
	"each situation is unique",
	"many different approaches",
	"various considerations",
}

// #endregion

// #region generic-words

// genericWords is the filler vocabulary. A high ratio of these tokens
// indicates content-free text. Deliberately excludes plain function words
// so ordinary prose does not trip the ratio check.
var genericWords = map[string]bool{
	"thing":       true,
	"things":      true,
	"stuff":       true,
	"aspect":      true,
	"aspects":     true,
	"factor":      true,
	"factors":     true,
	"various":     true,
	"several":     true,
	"different":   true,
	"important":   true,
	"relevant":    true,
	"appropriate": true,
	"suitable":    true,
	"certain":     true,
	"overall":     true,
	"general":     true,
	"generally":   true,
	"basically":   true,
	"essentially": true,
	"really":      true,
	"very":        true,
	"quite":       true,
	"good":        true,
	"nice":        true,
	"helpful":     true,
	"useful":      true,
}

// #endregion

// #region vague-terms

// vagueTerms are hedging qualifiers. A high density of these indicates
// the text commits to nothing.
var vagueTerms = map[string]bool{
	"might":     true,
	"may":       true,
	"maybe":     true,
	"perhaps":   true,
	"possibly":  true,
	"probably":  true,
	"somewhat":  true,
	"sometimes": true,
	"often":     true,
	"usually":   true,
	"typically": true,
	"depends":   true,
	"varies":    true,
	"could":     true,
	"would":     true,
	"should":    true,
	"roughly":   true,
	"around":    true,
	"about":     true,
	"likely":    true,
	"unclear":   true,
}

// #endregion
