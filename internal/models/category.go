// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the catalog's classification tree. Each category
// has at most one parent; a nil ParentID marks a root category.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields populated by store queries, never written back.
	ParentName   *string `json:"parent_name,omitempty"`
	ProductCount int     `json:"product_count"`
	ChildCount   int     `json:"child_count"`
}

// IsRoot returns true when the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
