// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import "github.com/google/uuid"

// ProductCounter reports how many products reference a category,
// regardless of their active flag.
type ProductCounter interface {
	CountByCategory(categoryID uuid.UUID) (int, error)
}

// ChildCounter reports how many categories name the given category as
// their parent.
type ChildCounter interface {
	CountChildren(categoryID uuid.UUID) (int, error)
}

// Guard decides whether a category may be deleted. It reads through the
// stores and mutates nothing. A deletion that strands products or
// subcategories without their category is the worst corruption this
// domain can suffer, so both checks run on every call.
type Guard struct {
	products ProductCounter
	children ChildCounter
}

// NewGuard creates a deletion guard reading through the given stores.
func NewGuard(products ProductCounter, children ChildCounter) *Guard {
	return &Guard{products: products, children: children}
}

// CanDelete returns nil when the category is safe to delete, or a
// *BlockedDeletionError naming the first dependency found. Inactive
// products count: they still belong to the category.
func (g *Guard) CanDelete(categoryID uuid.UUID) error {
	n, err := g.products.CountByCategory(categoryID)
	if err != nil {
		return err
	}
	if n > 0 {
		return &BlockedDeletionError{CategoryID: categoryID, Reason: ReasonHasProducts}
	}

	n, err = g.children.CountChildren(categoryID)
	if err != nil {
		return err
	}
	if n > 0 {
		return &BlockedDeletionError{CategoryID: categoryID, Reason: ReasonHasChildren}
	}

	return nil
}
