// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Ventra site.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ventra/internal/cache"
	"ventra/internal/catalog"
	"ventra/internal/models"
	"ventra/internal/render"
	"ventra/internal/storage"
	"ventra/internal/store"
)

// maxUploadSize caps product image uploads at 16 MB.
const maxUploadSize = 16 << 20

// CategoryOption is one entry of a hierarchical category <select>.
type CategoryOption struct {
	ID    uuid.UUID
	Name  string
	Depth int
}

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer      *render.Renderer
	catalog       *catalog.Service
	categories    *store.CategoryStore
	products      *store.ProductStore
	news          *store.NewsStore
	jobs          *store.JobStore
	inquiries     *store.InquiryStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// storageClient may be nil if S3 is not configured; image upload is then
// hidden from the product form.
func NewAdmin(renderer *render.Renderer, svc *catalog.Service, categories *store.CategoryStore, products *store.ProductStore, news *store.NewsStore, jobs *store.JobStore, inquiries *store.InquiryStore, storageClient *storage.Client, pageCache *cache.PageCache) *Admin {
	return &Admin{
		renderer:      renderer,
		catalog:       svc,
		categories:    categories,
		products:      products,
		news:          news,
		jobs:          jobs,
		inquiries:     inquiries,
		storageClient: storageClient,
		pageCache:     pageCache,
	}
}

// invalidatePages drops every cached public page. Catalog pages
// cross-reference each other (home lists products, product pages list
// related products), so invalidation is wholesale rather than targeted.
func (a *Admin) invalidatePages(r *http.Request) {
	a.pageCache.InvalidateAll(r.Context())
}

// Dashboard renders the admin dashboard with live counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	productCount, _ := a.products.Count()
	categoryCount, _ := a.categories.Count()
	unhandled, _ := a.inquiries.CountUnhandled()
	openJobs, _ := a.jobs.CountOpen()

	recent, err := a.inquiries.List()
	if err != nil {
		slog.Error("list inquiries failed", "error", err)
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"ProductCount":       productCount,
			"CategoryCount":      categoryCount,
			"UnhandledInquiries": unhandled,
			"OpenJobs":           openJobs,
			"RecentInquiries":    recent,
		},
	})
}

// --- Categories ---

// CategoriesList renders the category management page.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	a.categoriesPage(w, r, nil)
}

func (a *Admin) categoriesPage(w http.ResponseWriter, r *http.Request, flash *render.Flash) {
	categories, err := a.categories.ListWithHierarchy()
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	a.renderer.Page(w, r, "categories", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Flash:   flash,
		Data:    map[string]any{"Categories": categories},
	})
}

// CategoryNew renders the new category form.
func (a *Admin) CategoryNew(w http.ResponseWriter, r *http.Request) {
	a.categoryForm(w, r, nil, nil)
}

// CategoryEdit renders the edit form for an existing category.
func (a *Admin) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	cat, ok := a.findCategory(w, r)
	if !ok {
		return
	}
	a.categoryForm(w, r, cat, nil)
}

func (a *Admin) categoryForm(w http.ResponseWriter, r *http.Request, cat *models.Category, flash *render.Flash) {
	var exclude *uuid.UUID
	if cat != nil {
		exclude = &cat.ID
	}
	options, err := a.categoryOptions(exclude)
	if err != nil {
		slog.Error("build category options failed", "error", err)
	}

	title := "New category"
	if cat != nil {
		title = "Edit category"
	}
	data := map[string]any{"Options": options}
	if cat != nil {
		data["Category"] = cat
	} else {
		data["Category"] = nil
	}

	a.renderer.Page(w, r, "category_form", &render.PageData{
		Title:   title,
		Section: "categories",
		Flash:   flash,
		Data:    data,
	})
}

// CategoryCreate handles the new category form submission.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	description := optional(strings.TrimSpace(r.FormValue("description")))
	parentID, perr := parseOptionalUUID(r.FormValue("parent_id"))
	if perr != nil {
		a.categoryForm(w, r, nil, &render.Flash{Type: "error", Message: "Invalid parent category."})
		return
	}

	_, err := a.categories.Create(name, description, parentID)
	if err != nil {
		a.categoryForm(w, r, nil, &render.Flash{Type: "error", Message: categoryErrorMessage(err)})
		return
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryUpdate handles the edit category form submission.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	cat, ok := a.findCategory(w, r)
	if !ok {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	parentID, perr := parseOptionalUUID(r.FormValue("parent_id"))
	if perr != nil {
		a.categoryForm(w, r, cat, &render.Flash{Type: "error", Message: "Invalid parent category."})
		return
	}

	_, err := a.categories.Update(cat.ID, store.CategoryPatch{
		Name:        &name,
		Description: optional(description),
		ParentID:    parentID,
		SetParent:   true,
	})
	if err != nil {
		a.categoryForm(w, r, cat, &render.Flash{Type: "error", Message: categoryErrorMessage(err)})
		return
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryDelete removes a category. Deletion goes through the catalog
// service so the guard can deny categories that still hold products or
// subcategories.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := a.catalog.DeleteCategory(id); err != nil {
		var blocked *catalog.BlockedDeletionError
		if errors.As(err, &blocked) {
			msg := "This category still has subcategories. Move or delete them first."
			if blocked.Reason == catalog.ReasonHasProducts {
				msg = "This category still has products. Reassign or delete them first."
			}
			a.categoriesPage(w, r, &render.Flash{Type: "error", Message: msg})
			return
		}
		slog.Error("delete category failed", "error", err, "id", id)
		a.categoriesPage(w, r, &render.Flash{Type: "error", Message: "Could not delete the category."})
		return
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (a *Admin) findCategory(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	cat, err := a.categories.FindByID(id)
	if err != nil {
		slog.Error("find category failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if cat == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return cat, true
}

// categoryOptions flattens the category tree depth-first for the parent
// and category <select> controls. The category being edited is excluded
// as a first line of defense; the store's ancestry check remains the
// authority on cycles.
func (a *Admin) categoryOptions(exclude *uuid.UUID) ([]CategoryOption, error) {
	all, err := a.categories.ListWithHierarchy()
	if err != nil {
		return nil, err
	}

	children := make(map[uuid.UUID][]models.Category)
	var roots []models.Category
	for _, c := range all {
		if exclude != nil && c.ID == *exclude {
			continue
		}
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var options []CategoryOption
	var walk func(cat models.Category, depth int)
	walk = func(cat models.Category, depth int) {
		options = append(options, CategoryOption{ID: cat.ID, Name: cat.Name, Depth: depth})
		for _, child := range children[cat.ID] {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}
	return options, nil
}

func categoryErrorMessage(err error) string {
	var ve *catalog.ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("The %s field is invalid.", ve.Field)
	}
	var ce *catalog.CycleError
	if errors.As(err, &ce) {
		return "A category cannot be moved under itself or one of its descendants."
	}
	var nf *catalog.NotFoundError
	if errors.As(err, &nf) {
		return "The selected parent category no longer exists."
	}
	slog.Error("category operation failed", "error", err)
	return "An unexpected error occurred."
}

// --- Products ---

// ProductsList renders the product management page.
func (a *Admin) ProductsList(w http.ResponseWriter, r *http.Request) {
	products, err := a.products.List()
	if err != nil {
		slog.Error("list products failed", "error", err)
	}

	a.renderer.Page(w, r, "products", &render.PageData{
		Title:   "Products",
		Section: "products",
		Data:    map[string]any{"Products": products},
	})
}

// ProductNew renders the new product form.
func (a *Admin) ProductNew(w http.ResponseWriter, r *http.Request) {
	a.productForm(w, r, nil, nil)
}

// ProductEdit renders the edit form for an existing product.
func (a *Admin) ProductEdit(w http.ResponseWriter, r *http.Request) {
	product, ok := a.findProduct(w, r)
	if !ok {
		return
	}
	a.productForm(w, r, product, nil)
}

func (a *Admin) productForm(w http.ResponseWriter, r *http.Request, product *models.Product, flash *render.Flash) {
	options, err := a.categoryOptions(nil)
	if err != nil {
		slog.Error("build category options failed", "error", err)
	}

	title := "New product"
	if product != nil {
		title = "Edit product"
	}
	data := map[string]any{
		"Options":        options,
		"StorageEnabled": a.storageClient != nil,
	}
	if product != nil {
		data["Product"] = product
	} else {
		data["Product"] = nil
	}

	a.renderer.Page(w, r, "product_form", &render.PageData{
		Title:   title,
		Section: "products",
		Flash:   flash,
		Data:    data,
	})
}

// productFormInput is the parsed product form, shared by create and update.
type productFormInput struct {
	name           string
	description    string
	specifications string
	imageURLs      []string
	categoryID     *uuid.UUID
	isActive       bool
}

func (a *Admin) parseProductForm(r *http.Request) (*productFormInput, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
	}

	categoryID, err := parseOptionalUUID(r.FormValue("category_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid category")
	}

	in := &productFormInput{
		name:           strings.TrimSpace(r.FormValue("name")),
		description:    strings.TrimSpace(r.FormValue("description")),
		specifications: strings.TrimSpace(r.FormValue("specifications")),
		categoryID:     categoryID,
		isActive:       r.FormValue("is_active") == "1",
	}

	for _, line := range strings.Split(r.FormValue("image_urls"), "\n") {
		if url := strings.TrimSpace(line); url != "" {
			in.imageURLs = append(in.imageURLs, url)
		}
	}

	// An uploaded file becomes another image URL via S3.
	if a.storageClient != nil && r.MultipartForm != nil {
		file, header, err := r.FormFile("image_file")
		if err == nil {
			defer file.Close()
			key := "products/" + uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
			url, err := a.storageClient.Upload(r.Context(), key, header.Header.Get("Content-Type"), file, header.Size)
			if err != nil {
				return nil, fmt.Errorf("upload image: %w", err)
			}
			in.imageURLs = append(in.imageURLs, url)
		}
	}

	return in, nil
}

// ProductCreate handles the new product form submission.
func (a *Admin) ProductCreate(w http.ResponseWriter, r *http.Request) {
	in, err := a.parseProductForm(r)
	if err != nil {
		slog.Error("parse product form failed", "error", err)
		a.productForm(w, r, nil, &render.Flash{Type: "error", Message: "Could not process the form."})
		return
	}

	_, err = a.products.Create(&models.Product{
		Name:           in.name,
		Description:    in.description,
		Specifications: optional(in.specifications),
		ImageURLs:      in.imageURLs,
		CategoryID:     in.categoryID,
		IsActive:       in.isActive,
	})
	if err != nil {
		a.productForm(w, r, nil, &render.Flash{Type: "error", Message: productErrorMessage(err)})
		return
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// ProductUpdate handles the edit product form submission.
func (a *Admin) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	product, ok := a.findProduct(w, r)
	if !ok {
		return
	}

	in, err := a.parseProductForm(r)
	if err != nil {
		slog.Error("parse product form failed", "error", err)
		a.productForm(w, r, product, &render.Flash{Type: "error", Message: "Could not process the form."})
		return
	}

	_, err = a.products.Update(product.ID, store.ProductPatch{
		Name:           &in.name,
		Description:    optional(in.description),
		Specifications: optional(in.specifications),
		SetSpecs:       true,
		ImageURLs:      in.imageURLs,
		CategoryID:     in.categoryID,
		SetCategory:    true,
		IsActive:       &in.isActive,
	})
	if err != nil {
		a.productForm(w, r, product, &render.Flash{Type: "error", Message: productErrorMessage(err)})
		return
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// ProductDelete removes a product and any of its images held in storage.
func (a *Admin) ProductDelete(w http.ResponseWriter, r *http.Request) {
	product, ok := a.findProduct(w, r)
	if !ok {
		return
	}

	if err := a.catalog.DeleteProduct(product.ID); err != nil {
		slog.Error("delete product failed", "error", err, "id", product.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Best effort: externally hosted images are skipped, storage errors
	// only logged. The catalog row is already gone.
	if a.storageClient != nil {
		for _, url := range product.ImageURLs {
			if key, ok := a.storageClient.ExtractKey(url); ok {
				if err := a.storageClient.Delete(r.Context(), key); err != nil {
					slog.Warn("delete stored image failed", "error", err, "key", key)
				}
			}
		}
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

func (a *Admin) findProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	product, err := a.products.FindByID(id)
	if err != nil {
		slog.Error("find product failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if product == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return product, true
}

func productErrorMessage(err error) string {
	var ve *catalog.ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("The %s field is invalid.", ve.Field)
	}
	var nf *catalog.NotFoundError
	if errors.As(err, &nf) {
		return "The selected category no longer exists."
	}
	slog.Error("product operation failed", "error", err)
	return "An unexpected error occurred."
}

// parseOptionalUUID maps an empty form value to nil and anything else to
// a parsed UUID.
func parseOptionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
