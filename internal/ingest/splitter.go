package ingest

// #region imports
import "strings"

// #endregion

// #region splitter

// DefaultMaxChunkWords bounds a single chunk; paragraphs beyond it are
// split on sentence boundaries.
const DefaultMaxChunkWords = 200

// Split breaks raw text into assessment-sized chunks. Paragraphs (blank-line
// separated) are the primary unit; oversized paragraphs are split further on
// sentence boundaries so no chunk exceeds maxWords.
func Split(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultMaxChunkWords
	}

	var chunks []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(strings.Fields(para)) <= maxWords {
			chunks = append(chunks, para)
			continue
		}
		chunks = append(chunks, splitLong(para, maxWords)...)
	}
	return chunks
}

// splitLong packs sentences into chunks of at most maxWords words. A single
// sentence longer than the limit becomes its own chunk.
func splitLong(para string, maxWords int) []string {
	var chunks []string
	var current []string
	words := 0

	for _, sentence := range sentences(para) {
		n := len(strings.Fields(sentence))
		if words+n > maxWords && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
			words = 0
		}
		current = append(current, sentence)
		words += n
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// sentences splits on terminal punctuation, keeping the punctuation with
// its sentence. Not a full tokenizer; good enough for chunking prose.
func sentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Only break when followed by whitespace or end of text.
		end := i + 1
		if end < len(text) && text[end] != ' ' && text[end] != '\n' && text[end] != '\t' {
			continue
		}
		s := strings.TrimSpace(text[start:end])
		if s != "" {
			out = append(out, s)
		}
		start = end
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// #endregion
