// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ventra/internal/cache"
	"ventra/internal/catalog"
	"ventra/internal/database"
	"ventra/internal/middleware"
	"ventra/internal/render"
	"ventra/internal/session"
	"ventra/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "ventra")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "ventra")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Valkey     *redis.Client
	Renderer   *render.Renderer
	Sessions   *session.Store
	Categories *store.CategoryStore
	Products   *store.ProductStore
	News       *store.NewsStore
	Jobs       *store.JobStore
	Inquiries  *store.InquiryStore
	Users      *store.UserStore
	Catalog    *catalog.Service
	PageCache  *cache.PageCache
	Admin      *Admin
	Auth       *Auth
	Public     *Public
}

// newTestEnv creates a complete test environment with all handler
// dependencies. S3 storage stays nil: upload paths are exercised only
// when object storage is configured.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	categories := store.NewCategoryStore(db)
	products := store.NewProductStore(db)
	news := store.NewNewsStore(db)
	jobs := store.NewJobStore(db)
	inquiries := store.NewInquiryStore(db)
	users := store.NewUserStore(db)
	pageCache := cache.NewPageCache(vk, 1*time.Minute)

	guard := catalog.NewGuard(products, categories)
	svc := catalog.NewService(products, categories, guard)

	admin := NewAdmin(renderer, svc, categories, products, news, jobs, inquiries, nil, pageCache)
	auth := NewAuth(renderer, sessions, users)
	public := NewPublic(renderer, svc, categories, products, news, jobs, inquiries, pageCache)

	return &testEnv{
		DB:         db,
		Valkey:     vk,
		Renderer:   renderer,
		Sessions:   sessions,
		Categories: categories,
		Products:   products,
		News:       news,
		Jobs:       jobs,
		Inquiries:  inquiries,
		Users:      users,
		Catalog:    svc,
		PageCache:  pageCache,
		Admin:      admin,
		Auth:       auth,
		Public:     public,
	}
}

// cleanCatalog removes all catalog rows between tests.
func cleanCatalog(t *testing.T, db *sql.DB) {
	t.Helper()
	db.Exec("DELETE FROM inquiries")
	db.Exec("DELETE FROM products")
	db.Exec("DELETE FROM categories")
	db.Exec("DELETE FROM job_applications")
	db.Exec("DELETE FROM job_postings")
	db.Exec("DELETE FROM news_posts")
}

// adminSession creates a session.Data with 2FA complete.
func adminSession() *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "admin@ventra.local",
		DisplayName: "Test Admin",
		TwoFADone:   true,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withSession adds session data to a request context.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
}
