package main

// #region imports
import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dquist/master-verifier/internal/assess"
	"github.com/dquist/master-verifier/internal/chunkstore"
	"github.com/dquist/master-verifier/internal/ingest"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", envOr("VERIFIER_DB", "verifier.db"), "path to the chunk database")
	workers := flag.Int("workers", 4, "concurrent assessment workers")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall ingestion deadline")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: ingest [--db path] [--workers n] file [file ...]")
		os.Exit(2)
	}

	store, err := chunkstore.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	pipeline := ingest.NewPipeline(assess.New(assess.DefaultConfig()), store, *workers)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	totalChunks, totalSuperficial := 0, 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", file, err)
			os.Exit(1)
		}

		summary, err := pipeline.IngestText(ctx, filepath.Base(file), string(data))
		if err != nil {
			fmt.Fprintf(os.Stderr, "ingest %s: %v\n", file, err)
			os.Exit(1)
		}

		fmt.Printf("%s: %d chunks, %d superficial\n", summary.Source, summary.Chunks, summary.Superficial)
		totalChunks += summary.Chunks
		totalSuperficial += summary.Superficial
	}

	fmt.Printf("\nTotal: %d chunks ingested, %d flagged superficial\n", totalChunks, totalSuperficial)
}

// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
