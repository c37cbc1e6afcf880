// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Its public URL segment is derived from Name
// on every lookup rather than stored, so renaming a product moves its URL.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	// Specifications holds a flat label→value JSON object as raw text.
	// Display-only data; parsed (leniently) with SpecEntries.
	Specifications *string    `json:"specifications,omitempty"`
	ImageURLs      []string   `json:"image_urls"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Virtual field populated by admin list queries.
	CategoryName *string `json:"category_name,omitempty"`
}

// SpecEntry is one row of a product's specification table.
type SpecEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SpecEntries parses the serialized specifications blob. A missing or
// malformed blob yields an empty slice: the detail page simply shows no
// specification table instead of failing the render.
func (p *Product) SpecEntries() []SpecEntry {
	if p.Specifications == nil || *p.Specifications == "" {
		return nil
	}
	var raw map[string]string
	if err := json.Unmarshal([]byte(*p.Specifications), &raw); err != nil {
		return nil
	}
	entries := make([]SpecEntry, 0, len(raw))
	for label, value := range raw {
		entries = append(entries, SpecEntry{Label: label, Value: value})
	}
	// Map iteration order is random; sort by label for stable display.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Label < entries[j].Label })
	return entries
}

// PrimaryImage returns the first image URL, the canonical product image.
// Empty string when the product has no images yet.
func (p *Product) PrimaryImage() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}
