// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the catalog domain rules: the typed error
// taxonomy, the category deletion guard, and the query façade that
// public and admin handlers talk to. Everything here is a deterministic
// function of stored state; nothing is retried internally.
package catalog

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports a required field that is missing or blank.
// Callers recover by re-prompting the operator; it never signals a
// system failure.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// NotFoundError reports a reference that does not resolve: a parent
// category id, a product id, or a public slug. For slug lookups this is
// a routine outcome rendered as a not-found page.
type NotFoundError struct {
	Kind string // "category", "product", "news post", ...
	Ref  string // id or slug that failed to resolve
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Ref)
}

// CycleError reports a parent reassignment that would make the category
// tree cyclic, including the degenerate self-parent case. It is always
// surfaced to the operator, never silently corrected.
type CycleError struct {
	CategoryID uuid.UUID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("assigning this parent would make category %s an ancestor of itself", e.CategoryID)
}

// DeletionReason says why the guard blocked a category deletion. The
// admin UI shows it verbatim so the operator knows whether to move
// products or subcategories first.
type DeletionReason string

const (
	ReasonHasProducts DeletionReason = "has_products"
	ReasonHasChildren DeletionReason = "has_children"
)

// BlockedDeletionError reports a category deletion denied by the guard.
type BlockedDeletionError struct {
	CategoryID uuid.UUID
	Reason     DeletionReason
}

func (e *BlockedDeletionError) Error() string {
	return fmt.Sprintf("category %s cannot be deleted: %s", e.CategoryID, e.Reason)
}
