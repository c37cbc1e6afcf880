// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"ventra/internal/catalog"
	"ventra/internal/models"
)

// JobStore manages job postings and the applications submitted against
// them. Applications cascade away with their posting.
type JobStore struct {
	db *sql.DB
}

// NewJobStore returns a new JobStore.
func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `id, title, location, description, is_open, created_at, updated_at`

func scanJob(scanner interface{ Scan(...any) error }) (*models.JobPosting, error) {
	var j models.JobPosting
	err := scanner.Scan(
		&j.ID, &j.Title, &j.Location, &j.Description, &j.IsOpen, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Create inserts a job posting. Title must be non-blank.
func (s *JobStore) Create(j *models.JobPosting) (*models.JobPosting, error) {
	if isBlank(j.Title) {
		return nil, &catalog.ValidationError{Field: "title"}
	}

	row := s.db.QueryRow(`
		INSERT INTO job_postings (title, location, description, is_open)
		VALUES ($1, $2, $3, $4)
		RETURNING `+jobColumns,
		j.Title, j.Location, j.Description, j.IsOpen,
	)
	created, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("create job posting: %w", err)
	}
	return created, nil
}

// Update rewrites a job posting.
func (s *JobStore) Update(j *models.JobPosting) (*models.JobPosting, error) {
	if isBlank(j.Title) {
		return nil, &catalog.ValidationError{Field: "title"}
	}

	row := s.db.QueryRow(`
		UPDATE job_postings SET
			title = $1, location = $2, description = $3, is_open = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+jobColumns,
		j.Title, j.Location, j.Description, j.IsOpen, j.ID,
	)
	updated, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, &catalog.NotFoundError{Kind: "job posting", Ref: j.ID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("update job posting: %w", err)
	}
	return updated, nil
}

// Delete removes a job posting and, via cascade, its applications.
func (s *JobStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job posting: %w", err)
	}
	return nil
}

// FindByID retrieves a job posting by ID. Returns nil if not found.
func (s *JobStore) FindByID(id uuid.UUID) (*models.JobPosting, error) {
	row := s.db.QueryRow(`SELECT `+jobColumns+` FROM job_postings WHERE id = $1`, id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find job posting by id: %w", err)
	}
	return j, nil
}

// List returns every posting with its application count, newest first,
// for the admin view.
func (s *JobStore) List() ([]models.JobPosting, error) {
	rows, err := s.db.Query(`
		SELECT j.id, j.title, j.location, j.description, j.is_open, j.created_at, j.updated_at,
		       COUNT(a.id) AS application_count
		FROM job_postings j
		LEFT JOIN job_applications a ON a.job_id = j.id
		GROUP BY j.id
		ORDER BY j.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}
	defer rows.Close()

	var items []models.JobPosting
	for rows.Next() {
		var j models.JobPosting
		err := rows.Scan(
			&j.ID, &j.Title, &j.Location, &j.Description, &j.IsOpen,
			&j.CreatedAt, &j.UpdatedAt, &j.ApplicationCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan job posting: %w", err)
		}
		items = append(items, j)
	}
	return items, rows.Err()
}

// ListOpen returns the open postings, newest first, for the careers page.
func (s *JobStore) ListOpen() ([]models.JobPosting, error) {
	rows, err := s.db.Query(`SELECT ` + jobColumns + ` FROM job_postings WHERE is_open ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list open job postings: %w", err)
	}
	defer rows.Close()

	var items []models.JobPosting
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job posting: %w", err)
		}
		items = append(items, *j)
	}
	return items, rows.Err()
}

// CountOpen returns the number of postings accepting applications.
func (s *JobStore) CountOpen() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM job_postings WHERE is_open`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count open job postings: %w", err)
	}
	return n, nil
}

// AddApplication records a candidate submission. The posting must exist
// and still be open.
func (s *JobStore) AddApplication(a *models.JobApplication) (*models.JobApplication, error) {
	if isBlank(a.FullName) {
		return nil, &catalog.ValidationError{Field: "full name"}
	}
	if isBlank(a.Email) {
		return nil, &catalog.ValidationError{Field: "email"}
	}

	job, err := s.FindByID(a.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil || !job.IsOpen {
		return nil, &catalog.NotFoundError{Kind: "job posting", Ref: a.JobID.String()}
	}

	created := &models.JobApplication{}
	err = s.db.QueryRow(`
		INSERT INTO job_applications (job_id, full_name, email, phone, cover_note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, job_id, full_name, email, phone, cover_note, created_at
	`, a.JobID, a.FullName, a.Email, a.Phone, a.CoverNote).Scan(
		&created.ID, &created.JobID, &created.FullName, &created.Email,
		&created.Phone, &created.CoverNote, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create job application: %w", err)
	}
	return created, nil
}

// ListApplications returns the applications for one posting, newest first.
func (s *JobStore) ListApplications(jobID uuid.UUID) ([]models.JobApplication, error) {
	rows, err := s.db.Query(`
		SELECT id, job_id, full_name, email, phone, cover_note, created_at
		FROM job_applications WHERE job_id = $1 ORDER BY created_at DESC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}
	defer rows.Close()

	var items []models.JobApplication
	for rows.Next() {
		var a models.JobApplication
		err := rows.Scan(&a.ID, &a.JobID, &a.FullName, &a.Email, &a.Phone, &a.CoverNote, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan job application: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
