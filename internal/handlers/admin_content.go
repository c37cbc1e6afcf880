// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ventra/internal/catalog"
	"ventra/internal/models"
	"ventra/internal/render"
	"ventra/internal/slug"
)

// --- News ---

// NewsList renders the news management page.
func (a *Admin) NewsList(w http.ResponseWriter, r *http.Request) {
	posts, err := a.news.List()
	if err != nil {
		slog.Error("list news posts failed", "error", err)
	}

	a.renderer.Page(w, r, "news", &render.PageData{
		Title:   "News",
		Section: "news",
		Data:    map[string]any{"Posts": posts},
	})
}

// NewsNew renders the new post form.
func (a *Admin) NewsNew(w http.ResponseWriter, r *http.Request) {
	a.newsForm(w, r, nil, nil)
}

// NewsEdit renders the edit form for an existing post.
func (a *Admin) NewsEdit(w http.ResponseWriter, r *http.Request) {
	post, ok := a.findNewsPost(w, r)
	if !ok {
		return
	}
	a.newsForm(w, r, post, nil)
}

func (a *Admin) newsForm(w http.ResponseWriter, r *http.Request, post *models.NewsPost, flash *render.Flash) {
	title := "New post"
	if post != nil {
		title = "Edit post"
	}
	data := map[string]any{}
	if post != nil {
		data["Post"] = post
	} else {
		data["Post"] = nil
	}

	a.renderer.Page(w, r, "news_form", &render.PageData{
		Title:   title,
		Section: "news",
		Flash:   flash,
		Data:    data,
	})
}

// NewsCreate handles the new post form submission. The URL slug is
// derived from the title and fixed at creation, so later retitling
// does not move published URLs.
func (a *Admin) NewsCreate(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.FormValue("title"))
	_, err := a.news.Create(&models.NewsPost{
		Title:       title,
		Slug:        slug.Derive(title),
		Body:        r.FormValue("body"),
		CoverURL:    optional(strings.TrimSpace(r.FormValue("cover_url"))),
		IsPublished: r.FormValue("is_published") == "1",
	})
	if err != nil {
		a.newsForm(w, r, nil, &render.Flash{Type: "error", Message: contentErrorMessage(err)})
		return
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/news", http.StatusSeeOther)
}

// NewsUpdate handles the edit post form submission.
func (a *Admin) NewsUpdate(w http.ResponseWriter, r *http.Request) {
	post, ok := a.findNewsPost(w, r)
	if !ok {
		return
	}

	post.Title = strings.TrimSpace(r.FormValue("title"))
	post.Body = r.FormValue("body")
	post.CoverURL = optional(strings.TrimSpace(r.FormValue("cover_url")))
	post.IsPublished = r.FormValue("is_published") == "1"

	if _, err := a.news.Update(post); err != nil {
		a.newsForm(w, r, post, &render.Flash{Type: "error", Message: contentErrorMessage(err)})
		return
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/news", http.StatusSeeOther)
}

// NewsDelete removes a post.
func (a *Admin) NewsDelete(w http.ResponseWriter, r *http.Request) {
	post, ok := a.findNewsPost(w, r)
	if !ok {
		return
	}

	if err := a.news.Delete(post.ID); err != nil {
		slog.Error("delete news post failed", "error", err, "id", post.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.invalidatePages(r)
	http.Redirect(w, r, "/admin/news", http.StatusSeeOther)
}

func (a *Admin) findNewsPost(w http.ResponseWriter, r *http.Request) (*models.NewsPost, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	post, err := a.news.FindByID(id)
	if err != nil {
		slog.Error("find news post failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if post == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return post, true
}

// --- Jobs ---

// JobsList renders the job posting management page.
func (a *Admin) JobsList(w http.ResponseWriter, r *http.Request) {
	jobs, err := a.jobs.List()
	if err != nil {
		slog.Error("list job postings failed", "error", err)
	}

	a.renderer.Page(w, r, "jobs", &render.PageData{
		Title:   "Jobs",
		Section: "jobs",
		Data:    map[string]any{"Jobs": jobs},
	})
}

// JobNew renders the new posting form.
func (a *Admin) JobNew(w http.ResponseWriter, r *http.Request) {
	a.jobForm(w, r, nil, nil)
}

// JobEdit renders the edit form for an existing posting.
func (a *Admin) JobEdit(w http.ResponseWriter, r *http.Request) {
	job, ok := a.findJob(w, r)
	if !ok {
		return
	}
	a.jobForm(w, r, job, nil)
}

func (a *Admin) jobForm(w http.ResponseWriter, r *http.Request, job *models.JobPosting, flash *render.Flash) {
	title := "New posting"
	if job != nil {
		title = "Edit posting"
	}
	data := map[string]any{}
	if job != nil {
		data["Job"] = job
	} else {
		data["Job"] = nil
	}

	a.renderer.Page(w, r, "job_form", &render.PageData{
		Title:   title,
		Section: "jobs",
		Flash:   flash,
		Data:    data,
	})
}

// JobCreate handles the new posting form submission.
func (a *Admin) JobCreate(w http.ResponseWriter, r *http.Request) {
	_, err := a.jobs.Create(&models.JobPosting{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Description: r.FormValue("description"),
		IsOpen:      r.FormValue("is_open") == "1",
	})
	if err != nil {
		a.jobForm(w, r, nil, &render.Flash{Type: "error", Message: contentErrorMessage(err)})
		return
	}

	http.Redirect(w, r, "/admin/jobs", http.StatusSeeOther)
}

// JobUpdate handles the edit posting form submission.
func (a *Admin) JobUpdate(w http.ResponseWriter, r *http.Request) {
	job, ok := a.findJob(w, r)
	if !ok {
		return
	}

	job.Title = strings.TrimSpace(r.FormValue("title"))
	job.Location = strings.TrimSpace(r.FormValue("location"))
	job.Description = r.FormValue("description")
	job.IsOpen = r.FormValue("is_open") == "1"

	if _, err := a.jobs.Update(job); err != nil {
		a.jobForm(w, r, job, &render.Flash{Type: "error", Message: contentErrorMessage(err)})
		return
	}

	http.Redirect(w, r, "/admin/jobs", http.StatusSeeOther)
}

// JobDelete removes a posting and, through the schema cascade, its
// applications.
func (a *Admin) JobDelete(w http.ResponseWriter, r *http.Request) {
	job, ok := a.findJob(w, r)
	if !ok {
		return
	}

	if err := a.jobs.Delete(job.ID); err != nil {
		slog.Error("delete job posting failed", "error", err, "id", job.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/jobs", http.StatusSeeOther)
}

// ApplicationsList renders the applications received for a posting.
func (a *Admin) ApplicationsList(w http.ResponseWriter, r *http.Request) {
	job, ok := a.findJob(w, r)
	if !ok {
		return
	}

	applications, err := a.jobs.ListApplications(job.ID)
	if err != nil {
		slog.Error("list applications failed", "error", err, "job_id", job.ID)
	}

	a.renderer.Page(w, r, "applications", &render.PageData{
		Title:   "Applications",
		Section: "jobs",
		Data: map[string]any{
			"Job":          job,
			"Applications": applications,
		},
	})
}

func (a *Admin) findJob(w http.ResponseWriter, r *http.Request) (*models.JobPosting, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	job, err := a.jobs.FindByID(id)
	if err != nil {
		slog.Error("find job posting failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if job == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return job, true
}

// --- Inquiries ---

// InquiriesList renders the inquiry inbox, unhandled entries first.
func (a *Admin) InquiriesList(w http.ResponseWriter, r *http.Request) {
	inquiries, err := a.inquiries.List()
	if err != nil {
		slog.Error("list inquiries failed", "error", err)
	}

	a.renderer.Page(w, r, "inquiries", &render.PageData{
		Title:   "Inquiries",
		Section: "inquiries",
		Data:    map[string]any{"Inquiries": inquiries},
	})
}

// InquiryHandle marks an inquiry as handled.
func (a *Admin) InquiryHandle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := a.inquiries.MarkHandled(id); err != nil {
		var nf *catalog.NotFoundError
		if errors.As(err, &nf) {
			http.NotFound(w, r)
			return
		}
		slog.Error("mark inquiry handled failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/inquiries", http.StatusSeeOther)
}

// InquiryDelete removes an inquiry.
func (a *Admin) InquiryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := a.inquiries.Delete(id); err != nil {
		slog.Error("delete inquiry failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/inquiries", http.StatusSeeOther)
}

func contentErrorMessage(err error) string {
	var ve *catalog.ValidationError
	if errors.As(err, &ve) {
		return "The " + ve.Field + " field is invalid."
	}
	slog.Error("content operation failed", "error", err)
	return "An unexpected error occurred."
}
