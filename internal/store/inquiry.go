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

// InquiryStore manages contact messages and product quote requests
// submitted through the public site.
type InquiryStore struct {
	db *sql.DB
}

// NewInquiryStore returns a new InquiryStore.
func NewInquiryStore(db *sql.DB) *InquiryStore {
	return &InquiryStore{db: db}
}

// Create records an inquiry. Quote inquiries must reference an existing
// product; the reference degrades to NULL if the product is later
// hard-deleted.
func (s *InquiryStore) Create(in *models.Inquiry) (*models.Inquiry, error) {
	if isBlank(in.Name) {
		return nil, &catalog.ValidationError{Field: "name"}
	}
	if isBlank(in.Email) {
		return nil, &catalog.ValidationError{Field: "email"}
	}
	if isBlank(in.Message) {
		return nil, &catalog.ValidationError{Field: "message"}
	}

	created := &models.Inquiry{}
	err := s.db.QueryRow(`
		INSERT INTO inquiries (kind, name, email, phone, company, message, product_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, kind, name, email, phone, company, message, product_id, handled, created_at
	`, in.Kind, in.Name, in.Email, in.Phone, in.Company, in.Message, in.ProductID).Scan(
		&created.ID, &created.Kind, &created.Name, &created.Email, &created.Phone,
		&created.Company, &created.Message, &created.ProductID, &created.Handled, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}
	return created, nil
}

// List returns all inquiries, unhandled first then newest first, with
// the quoted product's name resolved for the admin view.
func (s *InquiryStore) List() ([]models.Inquiry, error) {
	rows, err := s.db.Query(`
		SELECT i.id, i.kind, i.name, i.email, i.phone, i.company, i.message,
		       i.product_id, i.handled, i.created_at,
		       p.name AS product_name
		FROM inquiries i
		LEFT JOIN products p ON p.id = i.product_id
		ORDER BY i.handled ASC, i.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	var items []models.Inquiry
	for rows.Next() {
		var in models.Inquiry
		err := rows.Scan(
			&in.ID, &in.Kind, &in.Name, &in.Email, &in.Phone, &in.Company,
			&in.Message, &in.ProductID, &in.Handled, &in.CreatedAt,
			&in.ProductName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		items = append(items, in)
	}
	return items, rows.Err()
}

// MarkHandled flags an inquiry as dealt with.
func (s *InquiryStore) MarkHandled(id uuid.UUID) error {
	res, err := s.db.Exec(`UPDATE inquiries SET handled = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark inquiry handled: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &catalog.NotFoundError{Kind: "inquiry", Ref: id.String()}
	}
	return nil
}

// CountUnhandled feeds the admin dashboard badge.
func (s *InquiryStore) CountUnhandled() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM inquiries WHERE NOT handled`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unhandled inquiries: %w", err)
	}
	return n, nil
}

// Delete removes an inquiry.
func (s *InquiryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM inquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	return nil
}
