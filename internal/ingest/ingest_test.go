package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dquist/master-verifier/internal/assess"
	"github.com/dquist/master-verifier/internal/chunkstore"
)

func testPipeline(t *testing.T) (*Pipeline, *chunkstore.Store) {
	t.Helper()
	store, err := chunkstore.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewPipeline(assess.New(assess.DefaultConfig()), store, 4), store
}

const mixedDocument = "Mount the pump bracket to the chassis using four M6 bolts torqued to 12 newton meters. " +
	"Connect the inlet hose to the reservoir and prime the pump until fluid reaches the filter housing.\n\n" +
	"It depends on many factors. Generally speaking, this varies.\n\n" +
	"Bleed trapped air through the valve before sealing the cap, then run the leak test and " +
	"record the torque readings in the service log for the next inspection."

func TestIngestText_TagsChunks(t *testing.T) {
	p, store := testPipeline(t)

	summary, err := p.IngestText(context.Background(), "manual.txt", mixedDocument)
	if err != nil {
		t.Fatalf("IngestText: %v", err)
	}
	if summary.Chunks != 3 {
		t.Fatalf("chunks: got %d, want 3", summary.Chunks)
	}
	if summary.Superficial != 1 {
		t.Errorf("superficial: got %d, want 1", summary.Superficial)
	}

	stored, err := store.ListBySource("manual.txt")
	if err != nil {
		t.Fatalf("ListBySource: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("stored chunks: got %d, want 3", len(stored))
	}

	flagged := 0
	for _, rec := range stored {
		if rec.Method != assess.MethodPatternMatching {
			t.Errorf("method: got %q", rec.Method)
		}
		if rec.IsSuperficial {
			flagged++
			if len(rec.Reasons) == 0 {
				t.Error("superficial chunk stored without reasons")
			}
		}
	}
	if flagged != 1 {
		t.Errorf("flagged chunks: got %d, want 1", flagged)
	}
}

func TestIngestText_EmptyDocument(t *testing.T) {
	p, _ := testPipeline(t)

	summary, err := p.IngestText(context.Background(), "empty.txt", "  \n\n  ")
	if err != nil {
		t.Fatalf("IngestText: %v", err)
	}
	if summary.Chunks != 0 || summary.Superficial != 0 {
		t.Errorf("empty document summary: %+v", summary)
	}
}

func TestIngestText_CancelledContext(t *testing.T) {
	p, _ := testPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.IngestText(ctx, "doc.txt", mixedDocument); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestIngestText_SingleWorker(t *testing.T) {
	store, err := chunkstore.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	// workers below 1 clamps to 1
	p := NewPipeline(assess.New(assess.DefaultConfig()), store, 0)
	summary, err := p.IngestText(context.Background(), "doc.txt", mixedDocument)
	if err != nil {
		t.Fatalf("IngestText: %v", err)
	}
	if summary.Chunks != 3 {
		t.Errorf("chunks: got %d, want 3", summary.Chunks)
	}
}
