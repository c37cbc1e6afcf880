// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ventra/internal/catalog"
	"ventra/internal/models"
)

// ProductStore manages catalog products in the database. Image URLs are
// stored as an ordered JSONB array; the specifications blob is opaque
// text parsed only at display time.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, name, description, specifications, image_urls, category_id, is_active, created_at, updated_at`

// isBlank reports whether a required text field is empty after trimming.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// scanProduct scans a row into a Product, decoding the image URL array.
func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var images []byte
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &p.Specifications, &images,
		&p.CategoryID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &p.ImageURLs); err != nil {
		return nil, fmt.Errorf("decode image urls: %w", err)
	}
	return &p, nil
}

// ProductPatch carries the fields of a partial product update. Nil
// pointers leave the column untouched. SetCategory distinguishes
// "reassign category (possibly to none)" from "leave category alone";
// SetSpecs does the same for the specifications blob.
type ProductPatch struct {
	Name           *string
	Description    *string
	Specifications *string
	SetSpecs       bool
	ImageURLs      []string
	CategoryID     *uuid.UUID
	SetCategory    bool
	IsActive       *bool
}

// Create inserts a new product. Name and description must be non-blank;
// images default to empty and the product starts active unless told
// otherwise.
func (s *ProductStore) Create(p *models.Product) (*models.Product, error) {
	if isBlank(p.Name) {
		return nil, &catalog.ValidationError{Field: "name"}
	}
	if isBlank(p.Description) {
		return nil, &catalog.ValidationError{Field: "description"}
	}

	images := p.ImageURLs
	if images == nil {
		images = []string{}
	}
	encoded, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("encode image urls: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO products (name, description, specifications, image_urls, category_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		p.Name, p.Description, p.Specifications, encoded, p.CategoryID, p.IsActive,
	)
	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

// Update applies a partial update, re-validating any required field
// present in the patch. Returns the authoritative updated record.
func (s *ProductStore) Update(id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	if patch.Name != nil && isBlank(*patch.Name) {
		return nil, &catalog.ValidationError{Field: "name"}
	}
	if patch.Description != nil && isBlank(*patch.Description) {
		return nil, &catalog.ValidationError{Field: "description"}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("update product: begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
	current, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, &catalog.NotFoundError{Kind: "product", Ref: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("update product: load: %w", err)
	}

	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.SetSpecs {
		current.Specifications = patch.Specifications
	}
	if patch.ImageURLs != nil {
		current.ImageURLs = patch.ImageURLs
	}
	if patch.SetCategory {
		current.CategoryID = patch.CategoryID
	}
	if patch.IsActive != nil {
		current.IsActive = *patch.IsActive
	}

	encoded, err := json.Marshal(current.ImageURLs)
	if err != nil {
		return nil, fmt.Errorf("encode image urls: %w", err)
	}

	row = tx.QueryRow(`
		UPDATE products SET
			name = $1, description = $2, specifications = $3, image_urls = $4,
			category_id = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+productColumns,
		current.Name, current.Description, current.Specifications, encoded,
		current.CategoryID, current.IsActive, id,
	)
	updated, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update product: commit: %w", err)
	}
	return updated, nil
}

// Delete removes a product. Unconditional: products have no dependents.
func (s *ProductStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// FindByID retrieves a product by ID. Returns nil if not found.
func (s *ProductStore) FindByID(id uuid.UUID) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// List returns every product regardless of active flag, newest first,
// with the category name resolved. Feeds the admin list view.
func (s *ProductStore) List() ([]models.Product, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.name, p.description, p.specifications, p.image_urls,
		       p.category_id, p.is_active, p.created_at, p.updated_at,
		       c.name AS category_name
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		var p models.Product
		var images []byte
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Specifications, &images,
			&p.CategoryID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
			&p.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if err := json.Unmarshal(images, &p.ImageURLs); err != nil {
			return nil, fmt.Errorf("decode image urls: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// ListActive returns every active product, newest first. The slug
// resolver scans this set on each public product lookup.
func (s *ProductStore) ListActive() ([]models.Product, error) {
	return s.listWhere(`is_active ORDER BY created_at DESC`)
}

// ListActiveByCategory returns the active products of one category,
// newest first, for public category pages.
func (s *ProductStore) ListActiveByCategory(categoryID uuid.UUID) ([]models.Product, error) {
	return s.listWhere(`is_active AND category_id = $1 ORDER BY created_at DESC`, categoryID)
}

// ListRelated returns up to limit active products in a category,
// excluding one product id. Newest-first ordering keeps repeated calls
// stable for the same stored state.
func (s *ProductStore) ListRelated(categoryID, excludeID uuid.UUID, limit int) ([]models.Product, error) {
	return s.listWhere(`is_active AND category_id = $1 AND id <> $2 ORDER BY created_at DESC LIMIT $3`,
		categoryID, excludeID, limit)
}

// listWhere runs a product query with the shared column set.
func (s *ProductStore) listWhere(clause string, args ...any) ([]models.Product, error) {
	rows, err := s.db.Query(`SELECT `+productColumns+` FROM products WHERE `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Count returns the total number of products, active or not.
func (s *ProductStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// CountByCategory counts the products referencing a category, active or
// not. Feeds the deletion guard; NULL categories belong to no one and
// are never counted here.
func (s *ProductStore) CountByCategory(categoryID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}
