// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ventra/internal/catalog"
	"ventra/internal/models"
)

// NewsStore manages company news posts. News slugs are persisted
// (unlike product slugs) so article URLs survive title edits.
type NewsStore struct {
	db *sql.DB
}

// NewNewsStore returns a new NewsStore.
func NewNewsStore(db *sql.DB) *NewsStore {
	return &NewsStore{db: db}
}

const newsColumns = `id, title, slug, body, cover_url, is_published, published_at, created_at, updated_at`

func scanNews(scanner interface{ Scan(...any) error }) (*models.NewsPost, error) {
	var n models.NewsPost
	err := scanner.Scan(
		&n.ID, &n.Title, &n.Slug, &n.Body, &n.CoverURL,
		&n.IsPublished, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a news post. Title and slug must be non-blank.
func (s *NewsStore) Create(n *models.NewsPost) (*models.NewsPost, error) {
	if isBlank(n.Title) {
		return nil, &catalog.ValidationError{Field: "title"}
	}
	if isBlank(n.Slug) {
		return nil, &catalog.ValidationError{Field: "slug"}
	}

	var publishedAt *time.Time
	if n.IsPublished {
		now := time.Now()
		publishedAt = &now
	}

	row := s.db.QueryRow(`
		INSERT INTO news_posts (title, slug, body, cover_url, is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+newsColumns,
		n.Title, n.Slug, n.Body, n.CoverURL, n.IsPublished, publishedAt,
	)
	created, err := scanNews(row)
	if err != nil {
		return nil, fmt.Errorf("create news post: %w", err)
	}
	return created, nil
}

// Update rewrites a news post. Publishing for the first time stamps
// published_at; unpublishing keeps the original timestamp.
func (s *NewsStore) Update(n *models.NewsPost) (*models.NewsPost, error) {
	if isBlank(n.Title) {
		return nil, &catalog.ValidationError{Field: "title"}
	}
	if isBlank(n.Slug) {
		return nil, &catalog.ValidationError{Field: "slug"}
	}

	row := s.db.QueryRow(`
		UPDATE news_posts SET
			title = $1, slug = $2, body = $3, cover_url = $4, is_published = $5,
			published_at = CASE WHEN $5 AND published_at IS NULL THEN NOW() ELSE published_at END,
			updated_at = NOW()
		WHERE id = $6
		RETURNING `+newsColumns,
		n.Title, n.Slug, n.Body, n.CoverURL, n.IsPublished, n.ID,
	)
	updated, err := scanNews(row)
	if err == sql.ErrNoRows {
		return nil, &catalog.NotFoundError{Kind: "news post", Ref: n.ID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("update news post: %w", err)
	}
	return updated, nil
}

// Delete removes a news post.
func (s *NewsStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM news_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete news post: %w", err)
	}
	return nil
}

// FindByID retrieves a news post by ID. Returns nil if not found.
func (s *NewsStore) FindByID(id uuid.UUID) (*models.NewsPost, error) {
	row := s.db.QueryRow(`SELECT `+newsColumns+` FROM news_posts WHERE id = $1`, id)
	n, err := scanNews(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find news post by id: %w", err)
	}
	return n, nil
}

// FindPublishedBySlug retrieves a published news post by slug for the
// public site. Returns nil if not found or unpublished.
func (s *NewsStore) FindPublishedBySlug(slug string) (*models.NewsPost, error) {
	row := s.db.QueryRow(`SELECT `+newsColumns+` FROM news_posts WHERE slug = $1 AND is_published`, slug)
	n, err := scanNews(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find news post by slug: %w", err)
	}
	return n, nil
}

// List returns all news posts, newest first, for the admin view.
func (s *NewsStore) List() ([]models.NewsPost, error) {
	return s.listWhere(`TRUE`)
}

// ListPublished returns published posts, newest first, for the public site.
func (s *NewsStore) ListPublished() ([]models.NewsPost, error) {
	return s.listWhere(`is_published`)
}

func (s *NewsStore) listWhere(clause string) ([]models.NewsPost, error) {
	rows, err := s.db.Query(`SELECT ` + newsColumns + ` FROM news_posts WHERE ` + clause + ` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list news posts: %w", err)
	}
	defer rows.Close()

	var items []models.NewsPost
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("scan news post: %w", err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}
