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

// CategoryStore manages the category tree in the database. Every write
// path goes through it, so the tree-shape invariants (no self-parent,
// no cycles, no dangling parent) hold no matter which surface mutates
// categories.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, description, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CategoryPatch carries the fields of a partial category update.
// Nil pointers leave the column untouched; SetParent distinguishes
// "reassign parent (possibly to nil)" from "leave parent alone".
type CategoryPatch struct {
	Name        *string
	Description *string
	ParentID    *uuid.UUID
	SetParent   bool
}

// Create inserts a new category as a leaf. The name must be non-blank
// and the parent, when given, must exist.
func (s *CategoryStore) Create(name string, description *string, parentID *uuid.UUID) (*models.Category, error) {
	if isBlank(name) {
		return nil, &catalog.ValidationError{Field: "name"}
	}

	if parentID != nil {
		parent, err := s.FindByID(*parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, &catalog.NotFoundError{Kind: "category", Ref: parentID.String()}
		}
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, description, parent_id)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		name, description, parentID,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Update applies a partial update. A parent reassignment is checked
// against the tree as committed at write time: the updated row is
// locked and the new parent's ancestor chain is walked inside the same
// transaction, so a concurrent mutation cannot slip a cycle past the
// check.
func (s *CategoryStore) Update(id uuid.UUID, patch CategoryPatch) (*models.Category, error) {
	if patch.Name != nil && isBlank(*patch.Name) {
		return nil, &catalog.ValidationError{Field: "name"}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("update category: begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id)
	current, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, &catalog.NotFoundError{Kind: "category", Ref: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("update category: load: %w", err)
	}

	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.Description != nil {
		current.Description = patch.Description
	}
	if patch.SetParent {
		if patch.ParentID != nil {
			if err := checkAncestry(tx, id, *patch.ParentID); err != nil {
				return nil, err
			}
		}
		current.ParentID = patch.ParentID
	}

	row = tx.QueryRow(`
		UPDATE categories SET
			name = $1, description = $2, parent_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+categoryColumns,
		current.Name, current.Description, current.ParentID, id,
	)
	updated, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update category: commit: %w", err)
	}
	return updated, nil
}

// checkAncestry rejects a parent assignment that would make id an
// ancestor of itself. The walk up from newParent is bounded by the
// total category count; exceeding the bound means the stored chain
// already loops, and the write fails closed instead of spinning.
func checkAncestry(tx *sql.Tx, id, newParent uuid.UUID) error {
	if newParent == id {
		return &catalog.CycleError{CategoryID: id}
	}

	var total int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return fmt.Errorf("check ancestry: count: %w", err)
	}

	cursor := newParent
	for steps := 0; ; steps++ {
		if steps > total {
			return &catalog.CycleError{CategoryID: id}
		}

		var parent *uuid.UUID
		err := tx.QueryRow(`SELECT parent_id FROM categories WHERE id = $1`, cursor).Scan(&parent)
		if err == sql.ErrNoRows {
			// Only possible for the first hop; rows above it were
			// reached through live foreign keys.
			return &catalog.NotFoundError{Kind: "category", Ref: cursor.String()}
		}
		if err != nil {
			return fmt.Errorf("check ancestry: %w", err)
		}

		if parent == nil {
			return nil
		}
		if *parent == id {
			return &catalog.CycleError{CategoryID: id}
		}
		cursor = *parent
	}
}

// Delete removes a category row. Dependency checks live in the catalog
// deletion guard; callers go through catalog.Service, never here
// directly. The RESTRICT foreign key backstops a bypass.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// ListWithHierarchy returns every category ordered by name, enriched
// with the resolved parent name, the product count (active or not),
// and the child count. Feeds all admin list views.
func (s *CategoryStore) ListWithHierarchy() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.description, c.parent_id, c.created_at, c.updated_at,
		       p.name AS parent_name,
		       COUNT(pr.id) AS product_count,
		       (SELECT COUNT(*) FROM categories ch WHERE ch.parent_id = c.id) AS child_count
		FROM categories c
		LEFT JOIN categories p ON p.id = c.parent_id
		LEFT JOIN products pr ON pr.category_id = c.id
		GROUP BY c.id, p.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
			&c.ParentName, &c.ProductCount, &c.ChildCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Roots returns the categories without a parent, ordered by name.
// Populates parent-selection controls; the UI excludes the category
// being edited as a first line of defense ahead of the cycle check.
func (s *CategoryStore) Roots() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories WHERE parent_id IS NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list root categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Children returns the direct subcategories of a category, ordered by name.
func (s *CategoryStore) Children(parentID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 ORDER BY name`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Count returns the total number of categories.
func (s *CategoryStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// CountChildren reports how many categories have the given parent.
func (s *CategoryStore) CountChildren(parentID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE parent_id = $1`, parentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count child categories: %w", err)
	}
	return n, nil
}
