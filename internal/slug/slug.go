// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL path segments from product names. Slugs are
// never persisted: the public router recomputes them from the live
// product set on every lookup.
package slug

import (
	"regexp"
	"strings"
)

// nonSlug matches every maximal run of characters that cannot appear in
// a slug. Each run collapses to a single hyphen.
var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Derive creates the URL segment for a product name.
// Example: "PLASTIC BACK DROUGHT SHUTTER (Type A)" → "plastic-back-drought-shutter-type-a"
func Derive(name string) string {
	s := strings.ToLower(name)
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
