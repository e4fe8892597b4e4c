package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-matcher/internal/types"
)

const analysisColumns = `id, resume_id, job_id, result, created_at`

// SaveAnalysis stores a match result and fills in the record's ID and timestamp
func (db *DB) SaveAnalysis(ctx context.Context, rec *types.AnalysisRecord) error {
	if rec.Result == nil {
		return fmt.Errorf("analysis result is required")
	}
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO analysis_results (resume_id, job_id, overall_score, category, result)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		rec.ResumeID, rec.JobID, rec.Result.OverallScore, string(rec.Result.Category), resultJSON,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves a stored analysis by its ID
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*types.AnalysisRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM analysis_results WHERE id = $1`,
		id,
	)
	rec, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return rec, nil
}

// ListAnalysesByResume returns all analyses of a resume, newest first
func (db *DB) ListAnalysesByResume(ctx context.Context, resumeID uuid.UUID) ([]types.AnalysisRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+analysisColumns+` FROM analysis_results WHERE resume_id = $1 ORDER BY created_at DESC`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	records := []types.AnalysisRecord{}
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanAnalysis(row pgx.Row) (*types.AnalysisRecord, error) {
	var rec types.AnalysisRecord
	var resultJSON []byte
	if err := row.Scan(&rec.ID, &rec.ResumeID, &rec.JobID, &resultJSON, &rec.CreatedAt); err != nil {
		return nil, err
	}

	var result types.MatchResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	rec.Result = &result
	return &rec, nil
}
