package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"ventra/internal/catalog"
	"ventra/internal/models"
)

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

// productFixture returns a minimal valid product for integration tests.
func productFixture(name string, categoryID *uuid.UUID, active bool) *models.Product {
	return &models.Product{
		Name:        name,
		Description: "test product",
		CategoryID:  categoryID,
		IsActive:    active,
	}
}

func TestProductCreate_Validation(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	var verr *catalog.ValidationError
	if _, err := s.Create(&models.Product{Name: "", Description: "x"}); !errors.As(err, &verr) {
		t.Errorf("Create without name = %v, want *ValidationError", err)
	}
	if _, err := s.Create(&models.Product{Name: "x", Description: "  "}); !errors.As(err, &verr) {
		t.Errorf("Create without description = %v, want *ValidationError", err)
	}
}

func TestProductCreate_Defaults(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)
	t.Cleanup(func() { cleanProducts(t, db, "test-prod-defaults") })

	created, err := s.Create(&models.Product{Name: "test-prod-defaults", Description: "d", IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ImageURLs == nil || len(created.ImageURLs) != 0 {
		t.Errorf("image urls = %v, want empty slice", created.ImageURLs)
	}
	if created.CategoryID != nil {
		t.Errorf("category = %v, want uncategorized", created.CategoryID)
	}
	if !created.IsActive {
		t.Errorf("product not active after create")
	}
}

func TestProductUpdate_Partial(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)
	t.Cleanup(func() { cleanProducts(t, db, "test-prod-patch") })

	specs := `{"Diameter":"200 mm"}`
	created, err := s.Create(&models.Product{
		Name:           "test-prod-patch",
		Description:    "before",
		Specifications: &specs,
		ImageURLs:      []string{"https://cdn.test/one.webp"},
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Patch only the description; everything else must survive.
	desc := "after"
	updated, err := s.Update(created.ID, ProductPatch{Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Description != "after" {
		t.Errorf("description = %q, want %q", updated.Description, "after")
	}
	if updated.Specifications == nil || *updated.Specifications != specs {
		t.Errorf("specifications lost on partial update")
	}
	if len(updated.ImageURLs) != 1 || updated.ImageURLs[0] != "https://cdn.test/one.webp" {
		t.Errorf("image urls lost on partial update: %v", updated.ImageURLs)
	}

	// Blank patched fields are still rejected.
	blank := " "
	var verr *catalog.ValidationError
	if _, err := s.Update(created.ID, ProductPatch{Name: &blank}); !errors.As(err, &verr) {
		t.Errorf("Update with blank name = %v, want *ValidationError", err)
	}

	// Clearing the specifications blob requires the explicit flag.
	updated, err = s.Update(created.ID, ProductPatch{SetSpecs: true})
	if err != nil {
		t.Fatalf("Update clear specs: %v", err)
	}
	if updated.Specifications != nil {
		t.Errorf("specifications = %v, want cleared", *updated.Specifications)
	}
}

func TestProductUpdate_NotFound(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)

	var nf *catalog.NotFoundError
	if _, err := s.Update(newUUID(t), ProductPatch{}); !errors.As(err, &nf) {
		t.Errorf("Update of missing product = %v, want *NotFoundError", err)
	}
}

func TestProductActiveQueries_ExcludeInactive(t *testing.T) {
	db := testDB(t)
	cs := NewCategoryStore(db)
	s := NewProductStore(db)
	t.Cleanup(func() {
		cleanProducts(t, db, "test-prod-on", "test-prod-off")
		cleanCategories(t, db, "test-cat-active")
	})

	cat, err := cs.Create("test-cat-active", nil, nil)
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	if _, err := s.Create(productFixture("test-prod-on", &cat.ID, true)); err != nil {
		t.Fatalf("Create active: %v", err)
	}
	off, err := s.Create(productFixture("test-prod-off", &cat.ID, false))
	if err != nil {
		t.Fatalf("Create inactive: %v", err)
	}

	byCat, err := s.ListActiveByCategory(cat.ID)
	if err != nil {
		t.Fatalf("ListActiveByCategory: %v", err)
	}
	for _, p := range byCat {
		if p.ID == off.ID {
			t.Errorf("inactive product leaked into ListActiveByCategory")
		}
	}
	if len(byCat) != 1 {
		t.Errorf("ListActiveByCategory len = %d, want 1", len(byCat))
	}

	all, err := s.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	for _, p := range all {
		if p.ID == off.ID {
			t.Errorf("inactive product leaked into ListActive")
		}
	}

	// The admin list still sees it.
	adminList, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var sawOff bool
	for _, p := range adminList {
		if p.ID == off.ID {
			sawOff = true
			if p.CategoryName == nil || *p.CategoryName != "test-cat-active" {
				t.Errorf("admin list category name = %v, want resolved", p.CategoryName)
			}
		}
	}
	if !sawOff {
		t.Errorf("admin list hides inactive products")
	}
}

func TestProductListRelated(t *testing.T) {
	db := testDB(t)
	cs := NewCategoryStore(db)
	s := NewProductStore(db)
	names := []string{"test-prod-rel-0", "test-prod-rel-1", "test-prod-rel-2", "test-prod-rel-3", "test-prod-rel-4", "test-prod-rel-subject"}
	t.Cleanup(func() {
		cleanProducts(t, db, names...)
		cleanCategories(t, db, "test-cat-related")
	})

	cat, err := cs.Create("test-cat-related", nil, nil)
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}

	subject, err := s.Create(productFixture("test-prod-rel-subject", &cat.ID, true))
	if err != nil {
		t.Fatalf("Create subject: %v", err)
	}
	for _, name := range names[:5] {
		if _, err := s.Create(productFixture(name, &cat.ID, true)); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	related, err := s.ListRelated(cat.ID, subject.ID, 4)
	if err != nil {
		t.Fatalf("ListRelated: %v", err)
	}
	if len(related) != 4 {
		t.Fatalf("len = %d, want 4", len(related))
	}
	for _, p := range related {
		if p.ID == subject.ID {
			t.Errorf("related list includes the excluded product")
		}
	}
	// Deterministic newest-first ordering.
	for i := 1; i < len(related); i++ {
		if related[i].CreatedAt.After(related[i-1].CreatedAt) {
			t.Errorf("ListRelated not ordered newest-first")
		}
	}
}

func TestProductCountByCategory(t *testing.T) {
	db := testDB(t)
	cs := NewCategoryStore(db)
	s := NewProductStore(db)
	t.Cleanup(func() {
		cleanProducts(t, db, "test-prod-count-a", "test-prod-count-b", "test-prod-count-loose")
		cleanCategories(t, db, "test-cat-count")
	})

	cat, err := cs.Create("test-cat-count", nil, nil)
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	if _, err := s.Create(productFixture("test-prod-count-a", &cat.ID, true)); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	// Inactive products count too: the deletion guard cares about
	// attachment, not visibility.
	if _, err := s.Create(productFixture("test-prod-count-b", &cat.ID, false)); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	// Uncategorized products count against no category.
	if _, err := s.Create(productFixture("test-prod-count-loose", nil, true)); err != nil {
		t.Fatalf("Create loose: %v", err)
	}

	n, err := s.CountByCategory(cat.ID)
	if err != nil {
		t.Fatalf("CountByCategory: %v", err)
	}
	if n != 2 {
		t.Errorf("CountByCategory = %d, want 2", n)
	}
}

func TestProductDelete_Unconditional(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)
	t.Cleanup(func() { cleanProducts(t, db, "test-prod-del") })

	p, err := s.Create(productFixture("test-prod-del", nil, true))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := s.FindByID(p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != nil {
		t.Errorf("product still present after delete")
	}
}
