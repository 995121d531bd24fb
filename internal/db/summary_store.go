package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/seqstats/internal/summary"
)

// SummaryRecord is one persisted alignment summary.
type SummaryRecord struct {
	SummaryID  string `json:"summary_id"`
	RunID      string `json:"run_id"`
	TablePath  string `json:"table_path"`
	RecordPath string `json:"record_path"`
	CreatedAt  int64  `json:"created_at"`
	summary.Summary
}

// SummaryStore provides persistence for alignment summaries.
type SummaryStore struct {
	db *sql.DB
}

// NewSummaryStore creates a new SummaryStore.
func NewSummaryStore(db *DB) *SummaryStore {
	return &SummaryStore{db: db.DB}
}

// NewRunID returns an identifier grouping the summaries of one batch run.
func NewRunID() string {
	return uuid.New().String()
}

// Insert persists rec. Empty SummaryID and zero CreatedAt are filled in.
func (s *SummaryStore) Insert(rec *SummaryRecord) error {
	if rec.SummaryID == "" {
		rec.SummaryID = uuid.New().String()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().UnixNano()
	}
	if rec.RunID == "" {
		return fmt.Errorf("insert summary %s: run id is empty", rec.FileID)
	}

	_, err := s.db.Exec(`
		INSERT INTO alignment_summaries (
			summary_id, run_id, file_id, table_path, record_path,
			num_hits, num_qseqs, total_seq_len,
			ave_aln_ident, med_aln_ident, min_aln_ident, max_aln_ident,
			ave_aln_len, med_aln_len, min_aln_len, max_aln_len,
			ave_qseqret, perc_aln, ave_qseqall, ave_hitfreq, ave_qseq_ident,
			total_aligned_approx, total_aligned_exact, overall_ident,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SummaryID, rec.RunID, rec.FileID, rec.TablePath, rec.RecordPath,
		rec.NumHits, rec.NumQSeqs, rec.TotalSeqLen,
		rec.AveAlnIdent, rec.MedAlnIdent, rec.MinAlnIdent, rec.MaxAlnIdent,
		rec.AveAlnLen, rec.MedAlnLen, rec.MinAlnLen, rec.MaxAlnLen,
		rec.AveQSeqRet, rec.PercAln, rec.AveQSeqAll, rec.AveHitFreq, rec.AveQSeqIdent,
		rec.TotalAlignedApprox, rec.TotalAlignedExact, rec.OverallIdent,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert summary %s: %w", rec.FileID, err)
	}
	return nil
}

const summaryColumns = `
	summary_id, run_id, file_id, table_path, record_path,
	num_hits, num_qseqs, total_seq_len,
	ave_aln_ident, med_aln_ident, min_aln_ident, max_aln_ident,
	ave_aln_len, med_aln_len, min_aln_len, max_aln_len,
	ave_qseqret, perc_aln, ave_qseqall, ave_hitfreq, ave_qseq_ident,
	total_aligned_approx, total_aligned_exact, overall_ident,
	created_at`

// ListByRun returns the summaries of one run ordered by file id.
func (s *SummaryStore) ListByRun(runID string) ([]*SummaryRecord, error) {
	rows, err := s.db.Query(`SELECT `+summaryColumns+`
		FROM alignment_summaries
		WHERE run_id = ?
		ORDER BY file_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	return scanSummaries(rows)
}

// Latest returns up to limit summaries, newest first.
func (s *SummaryStore) Latest(limit int) ([]*SummaryRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`SELECT `+summaryColumns+`
		FROM alignment_summaries
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]*SummaryRecord, error) {
	defer rows.Close()

	var out []*SummaryRecord
	for rows.Next() {
		var r SummaryRecord
		if err := rows.Scan(
			&r.SummaryID, &r.RunID, &r.FileID, &r.TablePath, &r.RecordPath,
			&r.NumHits, &r.NumQSeqs, &r.TotalSeqLen,
			&r.AveAlnIdent, &r.MedAlnIdent, &r.MinAlnIdent, &r.MaxAlnIdent,
			&r.AveAlnLen, &r.MedAlnLen, &r.MinAlnLen, &r.MaxAlnLen,
			&r.AveQSeqRet, &r.PercAln, &r.AveQSeqAll, &r.AveHitFreq, &r.AveQSeqIdent,
			&r.TotalAlignedApprox, &r.TotalAlignedExact, &r.OverallIdent,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
