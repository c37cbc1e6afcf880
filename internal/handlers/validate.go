package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// valid is the shared validator instance for public form structs.
var valid = validator.New()

// inquiryForm carries a contact or quote submission from the public site.
type inquiryForm struct {
	Name    string `validate:"required,max=200"`
	Email   string `validate:"required,email,max=320"`
	Phone   string `validate:"max=50"`
	Company string `validate:"max=200"`
	Message string `validate:"required,max=10000"`
}

// applicationForm carries a job application from the careers page.
type applicationForm struct {
	FullName  string `validate:"required,max=200"`
	Email     string `validate:"required,email,max=320"`
	Phone     string `validate:"max=50"`
	CoverNote string `validate:"max=10000"`
}

func parseInquiryForm(r *http.Request) inquiryForm {
	return inquiryForm{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Company: strings.TrimSpace(r.FormValue("company")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
}

func parseApplicationForm(r *http.Request) applicationForm {
	return applicationForm{
		FullName:  strings.TrimSpace(r.FormValue("full_name")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
		CoverNote: strings.TrimSpace(r.FormValue("cover_note")),
	}
}

// formErrorMessage turns the first validation failure into a message
// suitable for showing above the form.
func formErrorMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Please check the form and try again."
	}

	fe := errs[0]
	field := humanField(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required."
	case "email":
		return "Please enter a valid email address."
	case "max":
		return field + " is too long."
	default:
		return "Please check the " + strings.ToLower(field) + " field."
	}
}

func humanField(name string) string {
	switch name {
	case "FullName":
		return "Full name"
	case "CoverNote":
		return "Cover note"
	default:
		return name
	}
}

// optional returns nil for empty strings so blank form fields map to
// NULL columns instead of empty strings.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
