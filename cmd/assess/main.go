package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dquist/master-verifier/internal/assess"
)

// #endregion

// #region main

func main() {
	file := flag.String("file", "", "read text from a file instead of stdin")
	minWords := flag.Int("min-words", assess.DefaultConfig().MinWordCount, "minimum word count before the length indicator fires")
	jsonOut := flag.Bool("json", false, "output the full verdict as JSON")
	flag.Parse()

	text, err := readInput(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	config := assess.DefaultConfig()
	config.MinWordCount = *minWords

	result := assess.New(config).Assess(text)

	if *jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	} else {
		printVerdict(result)
	}

	// Exit code mirrors the verdict so the tool composes in shell pipelines.
	if !result.IsSubstantive {
		os.Exit(1)
	}
}

// #endregion main

// #region output

func printVerdict(result assess.VerificationResult) {
	verdict := "substantive"
	if !result.IsSubstantive {
		verdict = "superficial"
	}
	fmt.Printf("Verdict:    %s\n", verdict)
	fmt.Printf("Confidence: %.2f\n", result.Confidence)
	fmt.Printf("Method:     %s\n", result.Method)
	if len(result.Reasons) > 0 {
		fmt.Println("Reasons:")
		for _, r := range result.Reasons {
			fmt.Printf("  - %s\n", r)
		}
	}
}

// #endregion output

// #region helpers

func readInput(file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		return string(data), err
	}
	data, err := io.ReadAll(os.Stdin)
	return string(data), err
}

// #endregion helpers
