package ingest

// #region imports
import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/dquist/master-verifier/internal/assess"
	"github.com/dquist/master-verifier/internal/chunkstore"
)

// #endregion

// #region types

// Summary reports what one ingestion run produced.
type Summary struct {
	Source      string `json:"source"`
	Chunks      int    `json:"chunks"`
	Superficial int    `json:"superficial"`
}

// Pipeline splits raw text, assesses each chunk, and persists the tagged
// chunks. Assessment fans out across a bounded worker pool; writes are
// serialized so stored order matches chunk order.
type Pipeline struct {
	assessor *assess.Assessor
	store    *chunkstore.Store
	workers  int
}

// NewPipeline wires an ingestion pipeline. workers bounds concurrent
// assessments; values below 1 fall back to 1.
func NewPipeline(assessor *assess.Assessor, store *chunkstore.Store, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{assessor: assessor, store: store, workers: workers}
}

// #endregion

// #region ingest

// IngestText runs the full pipeline for one source document. Superficial
// chunks are stored too; filtering happens at ranking time, not here.
func (p *Pipeline) IngestText(ctx context.Context, source, text string) (Summary, error) {
	chunks := Split(text, DefaultMaxChunkWords)
	if len(chunks) == 0 {
		return Summary{Source: source}, nil
	}

	verdicts := make([]assess.VerificationResult, len(chunks))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			verdicts[i] = p.assessor.Assess(chunk)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Summary{}, fmt.Errorf("assess chunks: %w", err)
	}

	summary := Summary{Source: source, Chunks: len(chunks)}
	for i, chunk := range chunks {
		v := verdicts[i]
		if !v.IsSubstantive {
			summary.Superficial++
		}
		_, err := p.store.Insert(chunkstore.ChunkRecord{
			Source:            source,
			Text:              chunk,
			IsSuperficial:     !v.IsSubstantive,
			QualityConfidence: v.Confidence,
			Reasons:           v.Reasons,
			Method:            v.Method,
		})
		if err != nil {
			return Summary{}, fmt.Errorf("store chunk %d: %w", i, err)
		}
	}

	log.Printf("[INGEST] %s: %d chunks, %d superficial", source, summary.Chunks, summary.Superficial)
	return summary, nil
}

// #endregion
