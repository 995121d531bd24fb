package db

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/seqstats/internal/contig"
)

// ContigRun is one persisted contiguity analysis.
type ContigRun struct {
	ContigRunID string              `json:"contig_run_id"`
	Path        string              `json:"path"`
	Records     int                 `json:"records"`
	Denominator int                 `json:"denominator"`
	Bands       []contig.BandResult `json:"bands"`
	// Assembly figures are nil unless the run computed them.
	TotalBP   *int  `json:"total_bp,omitempty"`
	N50       *int  `json:"n50,omitempty"`
	N90       *int  `json:"n90,omitempty"`
	CreatedAt int64 `json:"created_at"`
}

// ContigRunFromSummary builds a ContigRun for path.
func ContigRunFromSummary(path string, s *contig.BucketSummary) *ContigRun {
	run := &ContigRun{
		Path:        path,
		Records:     s.Records,
		Denominator: s.Denominator,
		Bands:       s.Bands,
	}
	if a := s.Assembly; a != nil {
		total, n50, n90 := a.Total, a.N50, a.N90
		run.TotalBP, run.N50, run.N90 = &total, &n50, &n90
	}
	return run
}

// ContigStore provides persistence for contiguity analyses.
type ContigStore struct {
	db *sql.DB
}

// NewContigStore creates a new ContigStore.
func NewContigStore(db *DB) *ContigStore {
	return &ContigStore{db: db.DB}
}

// Insert persists run. Empty ContigRunID and zero CreatedAt are filled in.
func (s *ContigStore) Insert(run *ContigRun) error {
	if run.ContigRunID == "" {
		run.ContigRunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}
	var bands bytes.Buffer
	enc := json.NewEncoder(&bands)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(run.Bands); err != nil {
		return fmt.Errorf("marshal bands: %w", err)
	}

	_, err := s.db.Exec(`
		INSERT INTO contig_runs (
			contig_run_id, path, records, denominator, bands_json,
			total_bp, n50, n90, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ContigRunID, run.Path, run.Records, run.Denominator, strings.TrimSpace(bands.String()),
		nullInt(run.TotalBP), nullInt(run.N50), nullInt(run.N90), run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contig run %s: %w", run.Path, err)
	}
	return nil
}

// ListByPath returns the analyses of path, newest first.
func (s *ContigStore) ListByPath(path string) ([]*ContigRun, error) {
	rows, err := s.db.Query(`
		SELECT contig_run_id, path, records, denominator, bands_json,
		       total_bp, n50, n90, created_at
		FROM contig_runs
		WHERE path = ?
		ORDER BY created_at DESC`, path)
	if err != nil {
		return nil, fmt.Errorf("query contig runs: %w", err)
	}
	defer rows.Close()

	var out []*ContigRun
	for rows.Next() {
		var r ContigRun
		var bands string
		var total, n50, n90 sql.NullInt64
		if err := rows.Scan(&r.ContigRunID, &r.Path, &r.Records, &r.Denominator, &bands,
			&total, &n50, &n90, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contig run: %w", err)
		}
		r.TotalBP, r.N50, r.N90 = intPtr(total), intPtr(n50), intPtr(n90)
		if err := json.Unmarshal([]byte(bands), &r.Bands); err != nil {
			return nil, fmt.Errorf("decode bands for %s: %w", r.ContigRunID, err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
