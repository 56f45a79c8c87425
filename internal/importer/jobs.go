package importer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dramaverse/pkg/models"
)

// JobsRepo persists import job progress so admins can poll long commits.
type JobsRepo struct {
	DB *sql.DB
}

func NewJobsRepo(db *sql.DB) *JobsRepo {
	return &JobsRepo{DB: db}
}

func (r *JobsRepo) Create(ctx context.Context, job models.ImportJob) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO import_jobs (id, admin_username, source_type, source, status,
			total_rows, processed_rows, successful_imports, failed_imports, errors, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, job.AdminUsername, job.SourceType, job.Source, job.Status,
		job.TotalRows, job.ProcessedRows, job.SuccessfulImports, job.FailedImports,
		marshalErrors(job.Errors), job.StartedAt)
	if err != nil {
		return fmt.Errorf("create import job: %w", err)
	}
	return nil
}

// UpdateProgress writes a checkpoint for an in-flight job.
func (r *JobsRepo) UpdateProgress(ctx context.Context, job models.ImportJob) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE import_jobs
		SET status = ?, total_rows = ?, processed_rows = ?,
			successful_imports = ?, failed_imports = ?, errors = ?
		WHERE id = ?
	`, job.Status, job.TotalRows, job.ProcessedRows,
		job.SuccessfulImports, job.FailedImports, marshalErrors(job.Errors), job.ID)
	if err != nil {
		return fmt.Errorf("update import job %s: %w", job.ID, err)
	}
	return nil
}

func (r *JobsRepo) Finish(ctx context.Context, job models.ImportJob) error {
	now := time.Now().UTC()
	_, err := r.DB.ExecContext(ctx, `
		UPDATE import_jobs
		SET status = ?, total_rows = ?, processed_rows = ?,
			successful_imports = ?, failed_imports = ?, errors = ?, finished_at = ?
		WHERE id = ?
	`, job.Status, job.TotalRows, job.ProcessedRows,
		job.SuccessfulImports, job.FailedImports, marshalErrors(job.Errors), now, job.ID)
	if err != nil {
		return fmt.Errorf("finish import job %s: %w", job.ID, err)
	}
	return nil
}

func (r *JobsRepo) Get(ctx context.Context, id string) (*models.ImportJob, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, admin_username, source_type, source, status,
			total_rows, processed_rows, successful_imports, failed_imports,
			errors, started_at, finished_at
		FROM import_jobs
		WHERE id = ?
	`, id)

	var job models.ImportJob
	var rawErrors string
	var finished sql.NullTime
	err := row.Scan(&job.ID, &job.AdminUsername, &job.SourceType, &job.Source, &job.Status,
		&job.TotalRows, &job.ProcessedRows, &job.SuccessfulImports, &job.FailedImports,
		&rawErrors, &job.StartedAt, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get import job %s: %w", id, err)
	}

	job.Errors = []string{}
	if rawErrors != "" {
		_ = json.Unmarshal([]byte(rawErrors), &job.Errors)
	}
	if finished.Valid {
		t := finished.Time
		job.FinishedAt = &t
	}
	return &job, nil
}

// Recent returns the latest jobs, newest first, for the admin dashboard.
func (r *JobsRepo) Recent(ctx context.Context, limit int) ([]models.ImportJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, admin_username, source_type, source, status,
			total_rows, processed_rows, successful_imports, failed_imports,
			errors, started_at, finished_at
		FROM import_jobs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	defer rows.Close()

	jobs := []models.ImportJob{}
	for rows.Next() {
		var job models.ImportJob
		var rawErrors string
		var finished sql.NullTime
		if err := rows.Scan(&job.ID, &job.AdminUsername, &job.SourceType, &job.Source, &job.Status,
			&job.TotalRows, &job.ProcessedRows, &job.SuccessfulImports, &job.FailedImports,
			&rawErrors, &job.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scan import job: %w", err)
		}
		job.Errors = []string{}
		if rawErrors != "" {
			_ = json.Unmarshal([]byte(rawErrors), &job.Errors)
		}
		if finished.Valid {
			t := finished.Time
			job.FinishedAt = &t
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func marshalErrors(errs []string) string {
	if len(errs) == 0 {
		return "[]"
	}
	b, err := json.Marshal(errs)
	if err != nil {
		return "[]"
	}
	return string(b)
}
