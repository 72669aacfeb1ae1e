// Package sqlite implements domain.JobRepository using SQLite. It is an
// alternative to the default log-file store for setups that want the
// same contract behind a real database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ozgung/JobsAnalyzer/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    url          TEXT PRIMARY KEY,
    company_name TEXT NOT NULL DEFAULT '',
    job_title    TEXT NOT NULL DEFAULT '',
    location     TEXT NOT NULL DEFAULT '',
    job_summary  TEXT NOT NULL DEFAULT '',
    date_added   TEXT NOT NULL,
    priority     INTEGER NOT NULL DEFAULT 5,
    created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Repository implements domain.JobRepository using SQLite.
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository, initializing the schema if needed.
func New(dbPath string) (*Repository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Append inserts a new job. The url primary key makes duplicates a
// constraint violation, reported as domain.ErrDuplicateURL.
func (r *Repository) Append(ctx context.Context, job *domain.Job) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (url, company_name, job_title, location, job_summary, date_added, priority, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.URL, job.CompanyName, job.JobTitle, job.Location, job.JobSummary,
		job.DateAdded, job.Priority, time.Now(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrDuplicateURL
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// List returns all jobs in insertion order.
func (r *Repository) List(ctx context.Context) ([]domain.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT url, company_name, job_title, location, job_summary, date_added, priority
		 FROM jobs ORDER BY rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(&job.URL, &job.CompanyName, &job.JobTitle, &job.Location,
			&job.JobSummary, &job.DateAdded, &job.Priority); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Delete removes the job with the given URL.
func (r *Repository) Delete(ctx context.Context, url string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE url = ?`, url)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UpdatePriority sets the priority of the job with the given URL.
func (r *Repository) UpdatePriority(ctx context.Context, url string, priority int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET priority = ? WHERE url = ?`, priority, url,
	)
	if err != nil {
		return false, fmt.Errorf("update priority: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
