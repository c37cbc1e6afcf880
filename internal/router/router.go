// Package router sets up all HTTP routes and middleware chains for the
// Ventra site. Routes are organized into public and admin groups with
// their own middleware stacks.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ventra/internal/handlers"
	"ventra/internal/middleware"
	"ventra/internal/session"
	"ventra/web"
)

// Options carries the router's tunables.
type Options struct {
	// SecureCookies marks the CSRF cookie Secure; enable behind TLS.
	SecureCookies bool
}

// New creates the configured chi router with all middleware and route
// groups wired up. The returned rate limiter must be stopped on shutdown.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, opts Options) (chi.Router, *middleware.RateLimiter) {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Embedded static assets.
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("static assets missing from build: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Public form endpoints share one limiter so a single client cannot
	// flood inquiries, applications, and logins in parallel.
	limiter := middleware.NewRateLimiter(10, time.Minute)

	// Admin routes.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		// Auth pages, accessible without a session.
		r.Get("/login", auth.LoginPage)
		r.With(limiter.Middleware).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// TOTP enrollment and verification: requires auth but not
		// completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Post("/2fa/setup", auth.TwoFASetupSubmit)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})

		// Authenticated, 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", admin.Dashboard)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Get("/new", admin.CategoryNew)
				r.Post("/", admin.CategoryCreate)
				r.Get("/{id}", admin.CategoryEdit)
				r.Post("/{id}", admin.CategoryUpdate)
				r.Post("/{id}/delete", admin.CategoryDelete)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", admin.ProductsList)
				r.Get("/new", admin.ProductNew)
				r.Post("/", admin.ProductCreate)
				r.Get("/{id}", admin.ProductEdit)
				r.Post("/{id}", admin.ProductUpdate)
				r.Post("/{id}/delete", admin.ProductDelete)
			})

			r.Route("/news", func(r chi.Router) {
				r.Get("/", admin.NewsList)
				r.Get("/new", admin.NewsNew)
				r.Post("/", admin.NewsCreate)
				r.Get("/{id}", admin.NewsEdit)
				r.Post("/{id}", admin.NewsUpdate)
				r.Post("/{id}/delete", admin.NewsDelete)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", admin.JobsList)
				r.Get("/new", admin.JobNew)
				r.Post("/", admin.JobCreate)
				r.Get("/{id}", admin.JobEdit)
				r.Post("/{id}", admin.JobUpdate)
				r.Post("/{id}/delete", admin.JobDelete)
				r.Get("/{id}/applications", admin.ApplicationsList)
			})

			r.Route("/inquiries", func(r chi.Router) {
				r.Get("/", admin.InquiriesList)
				r.Post("/{id}/handle", admin.InquiryHandle)
				r.Post("/{id}/delete", admin.InquiryDelete)
			})
		})
	})

	// Public site.
	r.Get("/", public.Home)
	r.Get("/categories/{id}", public.Category)
	r.Get("/products/{slug}", public.Product)
	r.Get("/news", public.NewsList)
	r.Get("/news/{slug}", public.NewsPost)
	r.Get("/careers", public.Careers)
	r.Get("/careers/{id}", public.Career)
	r.With(limiter.Middleware).Post("/careers/{id}/apply", public.Apply)
	r.Get("/contact", public.ContactPage)
	r.With(limiter.Middleware).Post("/contact", public.ContactSubmit)
	r.With(limiter.Middleware).Post("/quote", public.QuoteSubmit)

	return r, limiter
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
