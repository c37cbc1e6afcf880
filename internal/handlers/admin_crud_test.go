// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"ventra/internal/models"
)

func postForm(handler http.HandlerFunc, target string, form url.Values, mutate ...func(*http.Request) *http.Request) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withSession(req, adminSession())
	for _, m := range mutate {
		req = m(req)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestCategoryCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	cleanCatalog(t, env.DB)

	rr := postForm(env.Admin.CategoryCreate, "/admin/categories", url.Values{
		"name":        {"Roof Fans"},
		"description": {"Vertical discharge fans"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("create: got status %d, want 303", rr.Code)
	}

	listReq := withSession(httptest.NewRequest(http.MethodGet, "/admin/categories", nil), adminSession())
	listRR := httptest.NewRecorder()
	env.Admin.CategoriesList(listRR, listReq)
	if !strings.Contains(listRR.Body.String(), "Roof Fans") {
		t.Error("created category missing from list page")
	}
}

func TestCategoryCreateRejectsBlankName(t *testing.T) {
	env := newTestEnv(t)
	cleanCatalog(t, env.DB)

	rr := postForm(env.Admin.CategoryCreate, "/admin/categories", url.Values{
		"name": {"   "},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want form re-render with 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid") {
		t.Error("expected a validation message in the response")
	}
}

func TestCategoryUpdateRejectsCycle(t *testing.T) {
	env := newTestEnv(t)
	cleanCatalog(t, env.DB)

	parent, err := env.Categories.Create("Ducting", nil, nil)
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := env.Categories.Create("Flexible", nil, &parent.ID)
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	rr := postForm(env.Admin.CategoryUpdate, "/admin/categories/"+parent.ID.String(), url.Values{
		"name":      {"Ducting"},
		"parent_id": {child.ID.String()},
	}, func(r *http.Request) *http.Request {
		return withChiURLParam(r, "id", parent.ID.String())
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want form re-render with 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "descendant") {
		t.Error("expected cycle explanation in the response")
	}

	// The parent must be untouched.
	got, err := env.Categories.FindByID(parent.ID)
	if err != nil {
		t.Fatalf("find parent: %v", err)
	}
	if got.ParentID != nil {
		t.Error("cycle rejection should leave the category unchanged")
	}
}

func TestCategoryDeleteBlockedByProducts(t *testing.T) {
	env := newTestEnv(t)
	cleanCatalog(t, env.DB)

	cat, err := env.Categories.Create("Dampers", nil, nil)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := env.Products.Create(&models.Product{
		Name:       "Fire Damper FD-60",
		CategoryID: &cat.ID,
	}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	rr := postForm(env.Admin.CategoryDelete, "/admin/categories/"+cat.ID.String(), url.Values{},
		func(r *http.Request) *http.Request {
			return withChiURLParam(r, "id", cat.ID.String())
		})

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want list re-render with 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "still has products") {
		t.Error("expected blocked-deletion message")
	}

	got, err := env.Categories.FindByID(cat.ID)
	if err != nil || got == nil {
		t.Fatalf("category should survive blocked deletion: %v", err)
	}
}

func TestProductCreateUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	cleanCatalog(t, env.DB)

	rr := postForm(env.Admin.ProductCreate, "/admin/products", url.Values{
		"name":           {"Inline Fan IF-200"},
		"description":    {"Duct-mounted inline fan."},
		"specifications": {`{"Diameter": "200 mm"}`},
		"image_urls":     {"https://cdn.ventra.example/if-200.jpg\nhttps://cdn.ventra.example/if-200-side.jpg"},
		"is_active":      {"1"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("create: got status %d, want 303: %s", rr.Code, rr.Body.String())
	}

	products, err := env.Products.List()
	if err != nil || len(products) != 1 {
		t.Fatalf("expected one product, got %d (%v)", len(products), err)
	}
	p := products[0]
	if p.Description != "Duct-mounted inline fan." {
		t.Errorf("description: got %q", p.Description)
	}
	if len(p.ImageURLs) != 2 {
		t.Errorf("image urls: got %d, want 2", len(p.ImageURLs))
	}
	if p.PrimaryImage() != "https://cdn.ventra.example/if-200.jpg" {
		t.Errorf("primary image: got %q", p.PrimaryImage())
	}

	// Deactivate via update.
	rr = postForm(env.Admin.ProductUpdate, "/admin/products/"+p.ID.String(), url.Values{
		"name":       {"Inline Fan IF-200"},
		"image_urls": {strings.Join(p.ImageURLs, "\n")},
	}, func(r *http.Request) *http.Request {
		return withChiURLParam(r, "id", p.ID.String())
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("update: got status %d, want 303", rr.Code)
	}
	updated, _ := env.Products.FindByID(p.ID)
	if updated.IsActive {
		t.Error("unchecked is_active box should deactivate the product")
	}

	rr = postForm(env.Admin.ProductDelete, "/admin/products/"+p.ID.String(), url.Values{},
		func(r *http.Request) *http.Request {
			return withChiURLParam(r, "id", p.ID.String())
		})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("delete: got status %d, want 303", rr.Code)
	}
	gone, _ := env.Products.FindByID(p.ID)
	if gone != nil {
		t.Error("product should be deleted")
	}
}

func TestNewsCreateDerivesSlug(t *testing.T) {
	env := newTestEnv(t)
	cleanCatalog(t, env.DB)

	// The form carries no slug field; the handler derives one from the title.
	rr := postForm(env.Admin.NewsCreate, "/admin/news", url.Values{
		"title":        {"Ventra Opens New Assembly Line"},
		"body":         {"The new line **doubles** capacity."},
		"cover_url":    {"https://cdn.ventra.example/line.jpg"},
		"is_published": {"1"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("create: got status %d, want 303: %s", rr.Code, rr.Body.String())
	}

	posts, err := env.News.List()
	if err != nil || len(posts) != 1 {
		t.Fatalf("expected one post, got %d (%v)", len(posts), err)
	}
	if posts[0].Slug != "ventra-opens-new-assembly-line" {
		t.Errorf("slug: got %q", posts[0].Slug)
	}

	found, err := env.News.FindPublishedBySlug("ventra-opens-new-assembly-line")
	if err != nil || found == nil {
		t.Fatalf("published post not resolvable by slug (%v)", err)
	}
}

func TestNewsCreateRejectsBlankTitle(t *testing.T) {
	env := newTestEnv(t)
	cleanCatalog(t, env.DB)

	rr := postForm(env.Admin.NewsCreate, "/admin/news", url.Values{
		"title": {"   "},
		"body":  {"body without a title"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want form re-render with 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid") {
		t.Error("expected a validation message in the response")
	}
}

func TestInquiryHandleFlow(t *testing.T) {
	env := newTestEnv(t)
	cleanCatalog(t, env.DB)

	// Submit through the public contact form.
	rr := postForm(env.Public.ContactSubmit, "/contact", url.Values{
		"name":    {"Ana Pop"},
		"email":   {"ana@example.com"},
		"message": {"Do you ship to Cluj?"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("contact submit: got status %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "has been sent") {
		t.Error("expected confirmation message")
	}

	inquiries, err := env.Inquiries.List()
	if err != nil || len(inquiries) != 1 {
		t.Fatalf("expected one inquiry, got %d (%v)", len(inquiries), err)
	}

	hr := postForm(env.Admin.InquiryHandle, "/admin/inquiries/"+inquiries[0].ID.String()+"/handle", url.Values{},
		func(r *http.Request) *http.Request {
			return withChiURLParam(r, "id", inquiries[0].ID.String())
		})
	if hr.Code != http.StatusSeeOther {
		t.Fatalf("handle: got status %d, want 303", hr.Code)
	}

	n, _ := env.Inquiries.CountUnhandled()
	if n != 0 {
		t.Errorf("unhandled count: got %d, want 0", n)
	}
}

func TestContactSubmitRejectsBadEmail(t *testing.T) {
	env := newTestEnv(t)
	cleanCatalog(t, env.DB)

	rr := postForm(env.Public.ContactSubmit, "/contact", url.Values{
		"name":    {"Ana Pop"},
		"email":   {"not-an-email"},
		"message": {"Hello"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "valid email") {
		t.Error("expected email validation message")
	}

	inquiries, _ := env.Inquiries.List()
	if len(inquiries) != 0 {
		t.Error("invalid submission should not be stored")
	}
}
