package chunkstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dquist/master-verifier/internal/assess"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	chunk_id           TEXT PRIMARY KEY,
	source             TEXT NOT NULL,
	text               TEXT NOT NULL,
	is_superficial     INTEGER NOT NULL,
	quality_confidence REAL NOT NULL,
	reasons_json       TEXT,
	method             TEXT NOT NULL,
	created_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source);

CREATE TABLE IF NOT EXISTS assessment_log (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	chunk_id       TEXT NOT NULL,
	is_substantive INTEGER NOT NULL,
	confidence     REAL NOT NULL,
	method         TEXT NOT NULL,
	reasons_json   TEXT,
	created_at     TEXT NOT NULL,
	FOREIGN KEY (chunk_id) REFERENCES chunks(chunk_id)
);
`

// #endregion schema

// #region store-struct
// Store persists chunks and their assessment audit trail in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already-open database. The caller owns the schema
// and the connection lifetime.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion close

// #region insert
// Insert writes a chunk and its audit entry in one transaction. A missing
// ChunkID or CreatedAt is filled in.
func (s *Store) Insert(rec ChunkRecord) (ChunkRecord, error) {
	if rec.ChunkID == "" {
		rec.ChunkID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	reasonsJSON, err := marshalReasons(rec.Reasons)
	if err != nil {
		return ChunkRecord{}, fmt.Errorf("marshal reasons: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return ChunkRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO chunks (chunk_id, source, text, is_superficial, quality_confidence, reasons_json, method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ChunkID, rec.Source, rec.Text, boolToInt(rec.IsSuperficial),
		rec.QualityConfidence, reasonsJSON, string(rec.Method),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return ChunkRecord{}, fmt.Errorf("insert chunk: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO assessment_log (chunk_id, is_substantive, confidence, method, reasons_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ChunkID, boolToInt(!rec.IsSuperficial), rec.QualityConfidence,
		string(rec.Method), reasonsJSON, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return ChunkRecord{}, fmt.Errorf("insert audit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ChunkRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// #endregion insert

// #region get
// Get retrieves a chunk by ID.
func (s *Store) Get(chunkID string) (ChunkRecord, error) {
	row := s.db.QueryRow(
		`SELECT chunk_id, source, text, is_superficial, quality_confidence, reasons_json, method, created_at
		 FROM chunks WHERE chunk_id = ?`, chunkID,
	)
	rec, err := scanChunk(row)
	if err != nil {
		return ChunkRecord{}, fmt.Errorf("get chunk %s: %w", chunkID, err)
	}
	return rec, nil
}

// #endregion get

// #region list
// ListBySource returns all chunks ingested from one source, oldest first.
func (s *Store) ListBySource(source string) ([]ChunkRecord, error) {
	return s.list(
		`SELECT chunk_id, source, text, is_superficial, quality_confidence, reasons_json, method, created_at
		 FROM chunks WHERE source = ? ORDER BY created_at ASC`, source,
	)
}

// ListRecent returns the most recently ingested chunks.
func (s *Store) ListRecent(limit int) ([]ChunkRecord, error) {
	return s.list(
		`SELECT chunk_id, source, text, is_superficial, quality_confidence, reasons_json, method, created_at
		 FROM chunks ORDER BY created_at DESC LIMIT ?`, limit,
	)
}

func (s *Store) list(query string, args ...interface{}) ([]ChunkRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	var records []ChunkRecord
	for rows.Next() {
		rec, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list

// #region audit
// LogAssessment appends an audit entry for a chunk that already exists.
// Re-assessments (for example an external verifier overriding the heuristic
// verdict) land here without rewriting the chunk row.
func (s *Store) LogAssessment(entry AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	reasonsJSON, err := marshalReasons(entry.Reasons)
	if err != nil {
		return fmt.Errorf("marshal reasons: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO assessment_log (chunk_id, is_substantive, confidence, method, reasons_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ChunkID, boolToInt(entry.IsSubstantive), entry.Confidence,
		string(entry.Method), reasonsJSON, entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log assessment: %w", err)
	}
	return nil
}

// AuditTrail returns the assessment history for one chunk, oldest first.
func (s *Store) AuditTrail(chunkID string) ([]AuditEntry, error) {
	rows, err := s.db.Query(
		`SELECT chunk_id, is_substantive, confidence, method, reasons_json, created_at
		 FROM assessment_log WHERE chunk_id = ? ORDER BY id ASC`, chunkID,
	)
	if err != nil {
		return nil, fmt.Errorf("audit trail: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var substantive int
		var reasonsJSON sql.NullString
		var method, createdStr string

		if err := rows.Scan(&e.ChunkID, &substantive, &e.Confidence, &method, &reasonsJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		e.IsSubstantive = substantive != 0
		e.Method = assess.Method(method)
		if reasonsJSON.Valid {
			if err := json.Unmarshal([]byte(reasonsJSON.String), &e.Reasons); err != nil {
				return nil, fmt.Errorf("unmarshal reasons: %w", err)
			}
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion audit

// #region stats
// Stats summarizes the stored corpus in one query pass.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	var mean sql.NullFloat64

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(is_superficial), 0), AVG(quality_confidence) FROM chunks`,
	).Scan(&st.TotalChunks, &st.SuperficialChunks, &mean)
	if err != nil {
		return Stats{}, fmt.Errorf("chunk stats: %w", err)
	}
	if mean.Valid {
		st.MeanConfidence = float32(mean.Float64)
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM assessment_log`).Scan(&st.AuditEntries); err != nil {
		return Stats{}, fmt.Errorf("audit stats: %w", err)
	}
	return st, nil
}

// #endregion stats

// #region helpers
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChunk(row rowScanner) (ChunkRecord, error) {
	var rec ChunkRecord
	var superficial int
	var reasonsJSON sql.NullString
	var method, createdStr string

	err := row.Scan(&rec.ChunkID, &rec.Source, &rec.Text, &superficial,
		&rec.QualityConfidence, &reasonsJSON, &method, &createdStr)
	if err != nil {
		return ChunkRecord{}, err
	}

	rec.IsSuperficial = superficial != 0
	rec.Method = assess.Method(method)
	if reasonsJSON.Valid {
		if err := json.Unmarshal([]byte(reasonsJSON.String), &rec.Reasons); err != nil {
			return ChunkRecord{}, fmt.Errorf("unmarshal reasons: %w", err)
		}
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

func marshalReasons(reasons []string) (interface{}, error) {
	if len(reasons) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(reasons)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
