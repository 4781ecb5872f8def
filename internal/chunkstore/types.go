package chunkstore

import (
	"time"

	"github.com/dquist/master-verifier/internal/assess"
)

// #region chunk-record
// ChunkRecord is one ingested content chunk with its quality metadata. The
// quality fields are written once at ingestion and read-only afterwards.
type ChunkRecord struct {
	ChunkID           string        `json:"chunk_id"`
	Source            string        `json:"source"`
	Text              string        `json:"text"`
	IsSuperficial     bool          `json:"is_superficial"`
	QualityConfidence float32       `json:"quality_confidence"`
	Reasons           []string      `json:"reasons,omitempty"`
	Method            assess.Method `json:"method"`
	CreatedAt         time.Time     `json:"created_at"`
}

// #endregion chunk-record

// #region audit-entry
// AuditEntry records one assessment decision for traceability.
type AuditEntry struct {
	ChunkID       string
	IsSubstantive bool
	Confidence    float32
	Method        assess.Method
	Reasons       []string
	CreatedAt     time.Time
}

// #endregion audit-entry

// #region stats
// Stats summarizes the stored corpus.
type Stats struct {
	TotalChunks       int64   `json:"total_chunks"`
	SuperficialChunks int64   `json:"superficial_chunks"`
	MeanConfidence    float32 `json:"mean_confidence"`
	AuditEntries      int64   `json:"audit_entries"`
}

// #endregion stats
