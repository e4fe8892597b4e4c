package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobPostingColumns = `id, title, description, url, required_skills, experience_level, content_hash, created_at`

// CreateJobPosting stores a job posting. A posting whose description hashes the same as
// an existing one is not duplicated; the existing row is returned instead.
func (db *DB) CreateJobPosting(ctx context.Context, input *JobPostingCreateInput) (*JobPosting, error) {
	hash := HashJobContent(input.Description)

	existing, err := db.getJobPostingByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	skillsJSON, err := json.Marshal(nonNil(input.RequiredSkills))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal required skills: %w", err)
	}

	var url *string
	if input.URL != "" {
		url = &input.URL
	}
	level := input.ExperienceLevel
	if level == "" {
		level = "Mid"
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (title, description, url, required_skills, experience_level, content_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+jobPostingColumns,
		input.Title, input.Description, url, skillsJSON, level, hash,
	)
	p, err := scanJobPosting(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}
	return p, nil
}

// GetJobPosting retrieves a job posting by its ID
func (db *DB) GetJobPosting(ctx context.Context, id uuid.UUID) (*JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE id = $1`,
		id,
	)
	p, err := scanJobPosting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return p, nil
}

// ListJobPostings returns the most recent job postings
func (db *DB) ListJobPostings(ctx context.Context, limit int) ([]JobPosting, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	defer rows.Close()

	postings := []JobPosting{}
	for rows.Next() {
		p, err := scanJobPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		postings = append(postings, *p)
	}
	return postings, rows.Err()
}

// UpdateJobPosting replaces a job posting's fields and content hash.
// Returns (nil, nil) when the posting does not exist.
func (db *DB) UpdateJobPosting(ctx context.Context, id uuid.UUID, input *JobPostingCreateInput) (*JobPosting, error) {
	skillsJSON, err := json.Marshal(nonNil(input.RequiredSkills))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal required skills: %w", err)
	}

	var url *string
	if input.URL != "" {
		url = &input.URL
	}
	level := input.ExperienceLevel
	if level == "" {
		level = "Mid"
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE job_postings
		 SET title = $2, description = $3, url = $4, required_skills = $5,
		     experience_level = $6, content_hash = $7
		 WHERE id = $1
		 RETURNING `+jobPostingColumns,
		id, input.Title, input.Description, url, skillsJSON, level, HashJobContent(input.Description),
	)
	p, err := scanJobPosting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job posting: %w", err)
	}
	return p, nil
}

// DeleteJobPosting removes a job posting. Analyses that referenced it keep their
// results with the job reference cleared. Reports whether a row was deleted.
func (db *DB) DeleteJobPosting(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job posting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (db *DB) getJobPostingByHash(ctx context.Context, hash string) (*JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE content_hash = $1
		 ORDER BY created_at LIMIT 1`,
		hash,
	)
	p, err := scanJobPosting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up job posting: %w", err)
	}
	return p, nil
}

func scanJobPosting(row pgx.Row) (*JobPosting, error) {
	var p JobPosting
	var skillsJSON []byte
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.URL, &skillsJSON,
		&p.ExperienceLevel, &p.ContentHash, &p.CreatedAt); err != nil {
		return nil, err
	}

	p.RequiredSkills = []string{}
	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &p.RequiredSkills)
	}
	return &p, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
