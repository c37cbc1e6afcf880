// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"github.com/google/uuid"

	"ventra/internal/models"
	"ventra/internal/slug"
)

// DefaultRelatedLimit caps the related-products strip on a detail page.
const DefaultRelatedLimit = 4

// ProductSource is the slice of the product store the façade needs.
type ProductSource interface {
	ListActive() ([]models.Product, error)
	ListActiveByCategory(categoryID uuid.UUID) ([]models.Product, error)
	ListRelated(categoryID, excludeID uuid.UUID, limit int) ([]models.Product, error)
	Delete(id uuid.UUID) error
}

// CategorySource is the slice of the category store the façade needs.
type CategorySource interface {
	ListWithHierarchy() ([]models.Category, error)
	Delete(id uuid.UUID) error
}

// Service is the catalog query façade. Handlers never reach past it
// for slug resolution, related products, or guarded deletions.
type Service struct {
	products   ProductSource
	categories CategorySource
	guard      *Guard
}

// NewService wires the façade over the stores and the deletion guard.
func NewService(products ProductSource, categories CategorySource, guard *Guard) *Service {
	return &Service{products: products, categories: categories, guard: guard}
}

// ProductBySlug resolves a public URL segment to an active product by
// re-deriving every active product's slug and taking the first match.
// This is an O(n) scan per request, deliberately traded for having no
// persisted slug column; the catalog is tens to low hundreds of rows.
// Two active products whose names derive the same slug are not detected
// here: the first in store order wins.
func (s *Service) ProductBySlug(seg string) (*models.Product, error) {
	if seg == "" {
		return nil, &NotFoundError{Kind: "product", Ref: seg}
	}
	active, err := s.products.ListActive()
	if err != nil {
		return nil, err
	}
	for i := range active {
		if slug.Derive(active[i].Name) == seg {
			return &active[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "product", Ref: seg}
}

// ActiveByCategory lists the active products shown on a public category page.
func (s *Service) ActiveByCategory(categoryID uuid.UUID) ([]models.Product, error) {
	return s.products.ListActiveByCategory(categoryID)
}

// RelatedProducts returns up to limit active products sharing the given
// product's category, never including the product itself. Uncategorized
// products have no related strip. A non-positive limit means the default.
func (s *Service) RelatedProducts(p *models.Product, limit int) ([]models.Product, error) {
	if p.CategoryID == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	return s.products.ListRelated(*p.CategoryID, p.ID, limit)
}

// CategoryTree returns all categories with parent names and product
// counts resolved, for the admin views and the public navigation.
func (s *Service) CategoryTree() ([]models.Category, error) {
	return s.categories.ListWithHierarchy()
}

// DeleteCategory removes a category after the guard allows it. The
// guard error carries the reason (has_products or has_children) for the
// operator verbatim.
func (s *Service) DeleteCategory(id uuid.UUID) error {
	if err := s.guard.CanDelete(id); err != nil {
		return err
	}
	return s.categories.Delete(id)
}

// DeleteProduct removes a product unconditionally. Products have no
// dependents, so no guard applies.
func (s *Service) DeleteProduct(id uuid.UUID) error {
	return s.products.Delete(id)
}
