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

const resumeColumns = `id, filename, raw_text, parsed_data, ats_score, uploaded_at`

// CreateResume stores a resume and returns the stored row
func (db *DB) CreateResume(ctx context.Context, input *ResumeCreateInput) (*Resume, error) {
	parsed := input.ParsedData
	if parsed == nil {
		parsed = types.NewParsedResume()
	}
	parsedJSON, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parsed resume: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (filename, raw_text, parsed_data, ats_score)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+resumeColumns,
		input.Filename, input.RawText, parsedJSON, input.ATSScore,
	)
	r, err := scanResume(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r, nil
}

// GetResume retrieves a resume by its ID
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`,
		id,
	)
	r, err := scanResume(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// UpdateResumeATSScore records the latest ATS score for a resume
func (db *DB) UpdateResumeATSScore(ctx context.Context, id uuid.UUID, score float64) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE resumes SET ats_score = $1 WHERE id = $2`,
		score, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update ats score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resume %s not found", id)
	}
	return nil
}

// DeleteResume removes a resume together with its analyses.
// Reports whether a row was deleted.
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	var parsedJSON []byte
	if err := row.Scan(&r.ID, &r.Filename, &r.RawText, &parsedJSON, &r.ATSScore, &r.UploadedAt); err != nil {
		return nil, err
	}

	parsed := types.NewParsedResume()
	if parsedJSON != nil {
		if decoded, err := types.DecodeParsedResume(parsedJSON); err == nil {
			parsed = decoded
		}
	}
	r.ParsedData = parsed
	return &r, nil
}
