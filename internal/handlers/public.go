// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ventra/internal/cache"
	"ventra/internal/catalog"
	"ventra/internal/markdown"
	"ventra/internal/models"
	"ventra/internal/render"
	"ventra/internal/store"
)

// homeFeaturedLimit caps how many recent products the homepage shows.
const homeFeaturedLimit = 8

// Public groups handlers for the public-facing site. Catalog pages are
// served through the L2 Valkey page cache: the cache is checked before
// rendering and populated on miss.
type Public struct {
	renderer   *render.Renderer
	catalog    *catalog.Service
	categories *store.CategoryStore
	products   *store.ProductStore
	news       *store.NewsStore
	jobs       *store.JobStore
	inquiries  *store.InquiryStore
	pageCache  *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, svc *catalog.Service, categories *store.CategoryStore, products *store.ProductStore, news *store.NewsStore, jobs *store.JobStore, inquiries *store.InquiryStore, pageCache *cache.PageCache) *Public {
	return &Public{
		renderer:   renderer,
		catalog:    svc,
		categories: categories,
		products:   products,
		news:       news,
		jobs:       jobs,
		inquiries:  inquiries,
		pageCache:  pageCache,
	}
}

// servePage renders a public page through the page cache.
func (p *Public) servePage(w http.ResponseWriter, r *http.Request, key, tmpl string, data *render.PageData) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	html, err := p.renderer.PublicHTML(r, tmpl, data)
	if err != nil {
		slog.Error("render public page failed", "template", tmpl, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, key, html)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// Home renders the homepage: root categories, recent products, recent news.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	if cached, ok := p.pageCache.Get(r.Context(), cache.HomeKey()); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	roots, err := p.categories.Roots()
	if err != nil {
		slog.Error("list root categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	featured, err := p.products.ListActive()
	if err != nil {
		slog.Error("list active products failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if len(featured) > homeFeaturedLimit {
		featured = featured[:homeFeaturedLimit]
	}

	posts, err := p.news.ListPublished()
	if err != nil {
		slog.Error("list published news failed", "error", err)
		posts = nil
	}
	if len(posts) > 3 {
		posts = posts[:3]
	}

	p.servePage(w, r, cache.HomeKey(), "home", &render.PageData{
		Title:   "Ventilation products",
		Section: "home",
		Data: map[string]any{
			"Categories": roots,
			"Featured":   featured,
			"News":       posts,
		},
	})
}

// Category renders a category page with its subcategories and active products.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	cat, err := p.categories.FindByID(id)
	if err != nil {
		slog.Error("find category failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if cat == nil {
		http.NotFound(w, r)
		return
	}

	children, err := p.categories.Children(id)
	if err != nil {
		slog.Error("list child categories failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	products, err := p.catalog.ActiveByCategory(id)
	if err != nil {
		slog.Error("list category products failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.servePage(w, r, cache.CategoryKey(id.String()), "category", &render.PageData{
		Title:   cat.Name,
		Section: "home",
		Data: map[string]any{
			"Category": cat,
			"Children": children,
			"Products": products,
		},
	})
}

// Product renders a product detail page, resolved by name-derived slug.
func (p *Public) Product(w http.ResponseWriter, r *http.Request) {
	seg := chi.URLParam(r, "slug")

	product, err := p.catalog.ProductBySlug(seg)
	if err != nil {
		var nf *catalog.NotFoundError
		if errors.As(err, &nf) {
			http.NotFound(w, r)
			return
		}
		slog.Error("resolve product slug failed", "error", err, "slug", seg)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	related, err := p.catalog.RelatedProducts(product, catalog.DefaultRelatedLimit)
	if err != nil {
		slog.Error("list related products failed", "error", err)
		related = nil
	}

	var category *models.Category
	if product.CategoryID != nil {
		category, err = p.categories.FindByID(*product.CategoryID)
		if err != nil {
			slog.Error("find product category failed", "error", err)
			category = nil
		}
	}

	data := map[string]any{
		"Product":     product,
		"SpecEntries": product.SpecEntries(),
		"Related":     related,
	}
	// A nil *models.Category must be stored as an untyped nil, or the
	// template's {{with}} would see a non-nil interface.
	if category != nil {
		data["Category"] = category
	} else {
		data["Category"] = nil
	}

	p.servePage(w, r, cache.ProductKey(seg), "product", &render.PageData{
		Title:   product.Name,
		Section: "home",
		Data:    data,
	})
}

// NewsList renders the published news index.
func (p *Public) NewsList(w http.ResponseWriter, r *http.Request) {
	posts, err := p.news.ListPublished()
	if err != nil {
		slog.Error("list published news failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.servePage(w, r, cache.ListKey("news"), "news_list", &render.PageData{
		Title:   "News",
		Section: "news",
		Data:    map[string]any{"Posts": posts},
	})
}

// NewsPost renders a single published news post with its Markdown body
// converted to HTML.
func (p *Public) NewsPost(w http.ResponseWriter, r *http.Request) {
	seg := chi.URLParam(r, "slug")

	post, err := p.news.FindPublishedBySlug(seg)
	if err != nil {
		slog.Error("find news post failed", "error", err, "slug", seg)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}

	body, err := markdown.ToHTML(post.Body)
	if err != nil {
		slog.Error("render news markdown failed", "error", err, "slug", seg)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.servePage(w, r, cache.NewsKey(seg), "news_post", &render.PageData{
		Title:   post.Title,
		Section: "news",
		Data: map[string]any{
			"Post": post,
			"HTML": body,
		},
	})
}

// Careers renders the open positions list. Not cached: the page is cheap
// and postings change rarely.
func (p *Public) Careers(w http.ResponseWriter, r *http.Request) {
	jobs, err := p.jobs.ListOpen()
	if err != nil {
		slog.Error("list open jobs failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.Public(w, r, "careers", &render.PageData{
		Title:   "Careers",
		Section: "careers",
		Data:    map[string]any{"Jobs": jobs},
	})
}

// Career renders a single open position with its application form.
func (p *Public) Career(w http.ResponseWriter, r *http.Request) {
	job, ok := p.openJob(w, r)
	if !ok {
		return
	}

	p.renderer.Public(w, r, "career", &render.PageData{
		Title:   job.Title,
		Section: "careers",
		Data:    map[string]any{"Job": job},
	})
}

// Apply accepts a job application submission.
func (p *Public) Apply(w http.ResponseWriter, r *http.Request) {
	job, ok := p.openJob(w, r)
	if !ok {
		return
	}

	form := parseApplicationForm(r)
	if err := valid.Struct(form); err != nil {
		p.renderer.Public(w, r, "career", &render.PageData{
			Title:   job.Title,
			Section: "careers",
			Flash:   &render.Flash{Type: "error", Message: formErrorMessage(err)},
			Data:    map[string]any{"Job": job},
		})
		return
	}

	_, err := p.jobs.AddApplication(&models.JobApplication{
		JobID:     job.ID,
		FullName:  form.FullName,
		Email:     form.Email,
		Phone:     optional(form.Phone),
		CoverNote: optional(form.CoverNote),
	})
	if err != nil {
		slog.Error("save job application failed", "error", err, "job_id", job.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.Public(w, r, "career", &render.PageData{
		Title:   job.Title,
		Section: "careers",
		Flash:   &render.Flash{Type: "success", Message: "Thank you for applying. We will be in touch."},
		Data:    map[string]any{"Job": job},
	})
}

func (p *Public) openJob(w http.ResponseWriter, r *http.Request) (*models.JobPosting, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	job, err := p.jobs.FindByID(id)
	if err != nil {
		slog.Error("find job failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if job == nil || !job.IsOpen {
		http.NotFound(w, r)
		return nil, false
	}
	return job, true
}

// ContactPage renders the contact form.
func (p *Public) ContactPage(w http.ResponseWriter, r *http.Request) {
	p.renderer.Public(w, r, "contact", &render.PageData{
		Title:   "Contact",
		Section: "contact",
	})
}

// ContactSubmit accepts a general contact inquiry.
func (p *Public) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	p.submitInquiry(w, r, models.InquiryContact, nil)
}

// QuoteSubmit accepts a product quote request. The product reference is
// optional: a missing or malformed product_id degrades to a general
// quote rather than rejecting the submission.
func (p *Public) QuoteSubmit(w http.ResponseWriter, r *http.Request) {
	var productID *uuid.UUID
	if raw := r.FormValue("product_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			productID = &id
		}
	}
	p.submitInquiry(w, r, models.InquiryQuote, productID)
}

func (p *Public) submitInquiry(w http.ResponseWriter, r *http.Request, kind models.InquiryKind, productID *uuid.UUID) {
	form := parseInquiryForm(r)
	if err := valid.Struct(form); err != nil {
		p.renderer.Public(w, r, "contact", &render.PageData{
			Title:   "Contact",
			Section: "contact",
			Flash:   &render.Flash{Type: "error", Message: formErrorMessage(err)},
		})
		return
	}

	_, err := p.inquiries.Create(&models.Inquiry{
		Kind:      kind,
		Name:      form.Name,
		Email:     form.Email,
		Phone:     optional(form.Phone),
		Company:   optional(form.Company),
		Message:   form.Message,
		ProductID: productID,
	})
	if err != nil {
		slog.Error("save inquiry failed", "error", err, "kind", kind)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.Public(w, r, "contact", &render.PageData{
		Title:   "Contact",
		Section: "contact",
		Flash:   &render.Flash{Type: "success", Message: "Your message has been sent. We will get back to you shortly."},
	})
}
