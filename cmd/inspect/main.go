package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dquist/master-verifier/internal/chunkstore"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the chunk database")
	last := flag.Int("last", 20, "show N most recent chunks")
	chunkID := flag.String("chunk", "", "show single chunk detail with audit trail")
	source := flag.String("source", "", "list chunks from one source")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/verifier.db [--last N] [--chunk id] [--source name] [--json]")
		os.Exit(2)
	}

	store, err := chunkstore.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *chunkID != "":
		err = runDetailMode(store, *chunkID, *jsonOut)
	case *source != "":
		err = runSourceMode(store, *source, *jsonOut)
	default:
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

func runListMode(store *chunkstore.Store, last int, jsonOut bool) error {
	chunks, err := store.ListRecent(last)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		fmt.Fprintln(os.Stderr, "no chunks found")
		return nil
	}

	if jsonOut {
		return printJSON(chunks)
	}
	printChunkTable(chunks)

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("\nCorpus: %d chunks, %d superficial, mean confidence %.2f\n",
		stats.TotalChunks, stats.SuperficialChunks, stats.MeanConfidence)
	return nil
}

func runSourceMode(store *chunkstore.Store, source string, jsonOut bool) error {
	chunks, err := store.ListBySource(source)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		fmt.Fprintln(os.Stderr, "no chunks found for source")
		return nil
	}
	if jsonOut {
		return printJSON(chunks)
	}
	printChunkTable(chunks)
	return nil
}

func printChunkTable(chunks []chunkstore.ChunkRecord) {
	fmt.Printf("%-10s  %-20s  %-11s  %5s  %-16s  %s\n",
		"Chunk", "Source", "Verdict", "Conf", "Method", "Time")
	fmt.Printf("%-10s+-%-20s+-%-11s+-%5s+-%-16s+-%s\n",
		"----------", "--------------------", "-----------", "-----", "----------------", "--------------------")
	for _, c := range chunks {
		verdict := "substantive"
		if c.IsSuperficial {
			verdict = "superficial"
		}
		fmt.Printf("%-10s  %-20s  %-11s  %5.2f  %-16s  %s\n",
			shortID(c.ChunkID), trunc(c.Source, 20), verdict,
			c.QualityConfidence, c.Method, c.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	chunkstore.ChunkRecord
	Audit []chunkstore.AuditEntry `json:"audit"`
}

func runDetailMode(store *chunkstore.Store, chunkID string, jsonOut bool) error {
	rec, err := store.Get(chunkID)
	if err != nil {
		return err
	}
	trail, err := store.AuditTrail(chunkID)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(detailOutput{ChunkRecord: rec, Audit: trail})
	}

	verdict := "substantive"
	if rec.IsSuperficial {
		verdict = "superficial"
	}
	fmt.Printf("Chunk:      %s\n", rec.ChunkID)
	fmt.Printf("Source:     %s\n", rec.Source)
	fmt.Printf("Verdict:    %s\n", verdict)
	fmt.Printf("Confidence: %.2f\n", rec.QualityConfidence)
	fmt.Printf("Method:     %s\n", rec.Method)
	fmt.Printf("Created:    %s\n", rec.CreatedAt.Format("2006-01-02T15:04:05Z"))
	if len(rec.Reasons) > 0 {
		fmt.Printf("Reasons:    %s\n", strings.Join(rec.Reasons, ", "))
	}
	fmt.Printf("\nText:\n  %s\n", rec.Text)

	if len(trail) > 0 {
		fmt.Printf("\nAssessment history:\n")
		for i, e := range trail {
			verdict := "substantive"
			if !e.IsSubstantive {
				verdict = "superficial"
			}
			fmt.Printf("  %d. %-11s  conf=%.2f  method=%s  %s\n",
				i+1, verdict, e.Confidence, e.Method, e.CreatedAt.Format("2006-01-02T15:04:05Z"))
		}
	}
	return nil
}

// #endregion detail-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func trunc(s string, n int) string {
	if len(s) > n {
		return s[:n-1] + "…"
	}
	return s
}

// #endregion output
