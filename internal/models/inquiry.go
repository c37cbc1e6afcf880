// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// InquiryKind distinguishes general contact messages from product quote requests.
type InquiryKind string

const (
	InquiryContact InquiryKind = "contact"
	InquiryQuote   InquiryKind = "quote"
)

// Inquiry is a message submitted through the public contact or quote form.
// Quote inquiries carry the product the visitor asked about; the reference
// is kept even if the product is later deactivated, so ProductID has no
// foreign-key cascade to worry about beyond SET NULL on hard delete.
type Inquiry struct {
	ID        uuid.UUID   `json:"id"`
	Kind      InquiryKind `json:"kind"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     *string     `json:"phone,omitempty"`
	Company   *string     `json:"company,omitempty"`
	Message   string      `json:"message"`
	ProductID *uuid.UUID  `json:"product_id,omitempty"`
	Handled   bool        `json:"handled"`
	CreatedAt time.Time   `json:"created_at"`

	// Virtual field for the admin list.
	ProductName *string `json:"product_name,omitempty"`
}
