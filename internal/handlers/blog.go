// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"welog/internal/metrics"
	"welog/internal/middleware"
	"welog/internal/models"
	"welog/internal/render"
	"welog/internal/session"
	"welog/internal/store"
)

// Blog groups the authenticated browsing and authoring handlers.
type Blog struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
	profiles   *store.ProfileStore
	follows    *store.FollowStore
}

// NewBlog creates a new Blog handler group.
func NewBlog(renderer *render.Renderer, posts *store.PostStore, categories *store.CategoryStore, profiles *store.ProfileStore, follows *store.FollowStore) *Blog {
	return &Blog{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		profiles:   profiles,
		follows:    follows,
	}
}

// Home renders the paginated post listing with search and category
// filtering. Out-of-range page numbers clamp rather than 404.
func (b *Blog) Home(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))

	page, err := b.posts.List(store.ListOptions{
		Query:    query,
		Category: category,
		Page:     pageNum,
	})
	if err != nil {
		slog.Error("post listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	categories, err := b.categories.List()
	if err != nil {
		slog.Error("category listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	b.renderer.Page(w, r, "home", &render.PageData{
		Title: "Home",
		Data: map[string]any{
			"Page":       page,
			"Categories": categories,
			"Query":      query,
			"Category":   category,
		},
		Flashes: session.PopFlashes(w, r),
	})
}

// NewPostPage renders the empty post form.
func (b *Blog) NewPostPage(w http.ResponseWriter, r *http.Request) {
	b.renderPostForm(w, r, "/newblog/", "New Blog", postForm{}.values(), nil, http.StatusOK)
}

// NewPostSubmit creates a post for the logged-in author. The author is
// always the session user; the form cannot publish as someone else. A
// blank category lands the post in the shared default.
func (b *Blog) NewPostSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}

	form := parsePostForm(r)
	if errs := form.validate(); len(errs) > 0 {
		b.renderPostForm(w, r, "/newblog/", "New Blog", form.values(), errs, http.StatusUnprocessableEntity)
		return
	}

	category, err := b.resolveCategory(form.Category)
	if err != nil {
		slog.Error("category resolve failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	post, err := b.posts.Create(&models.Post{
		AuthorID:   sess.UserID,
		Title:      form.Title,
		Content:    form.Content,
		ImageRef:   optional(form.ImageRef),
		CategoryID: &category.ID,
	})
	if err != nil {
		slog.Error("post create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("post created", "post_id", post.ID, "author_id", sess.UserID)
	metrics.IncPostCreated()

	session.AddFlash(w, r, "success", "Blog published.")
	http.Redirect(w, r, "/home/", http.StatusSeeOther)
}

// Detail renders a single post. Reads are public; the edit and delete
// controls only show for the author.
func (b *Blog) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := b.posts.FindByID(id)
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}

	followers, err := b.follows.CountFollowers(post.AuthorID)
	if err != nil {
		slog.Error("follower count failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	editable := sess != nil && post.EditableBy(sess.UserID)

	b.renderer.Page(w, r, "post_detail", &render.PageData{
		Title: post.Title,
		Data: map[string]any{
			"Post":          post,
			"AuthorName":    post.AuthorName,
			"FollowerCount": followers,
			"Editable":      editable,
		},
		Flashes: session.PopFlashes(w, r),
	})
}

// Profile renders the logged-in user's profile and their posts.
func (b *Blog) Profile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}

	profile, err := b.profiles.FindByUserID(sess.UserID)
	if err != nil {
		slog.Error("profile lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.NotFound(w, r)
		return
	}

	posts, err := b.posts.ListByAuthor(sess.UserID)
	if err != nil {
		slog.Error("author post listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	followers, err := b.follows.CountFollowers(sess.UserID)
	if err != nil {
		slog.Error("follower count failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	b.renderer.Page(w, r, "profile", &render.PageData{
		Title: profile.FullName,
		Data: map[string]any{
			"Profile":       profile,
			"Posts":         posts,
			"FollowerCount": followers,
		},
		Flashes: session.PopFlashes(w, r),
	})
}

// MyBlogs lists the logged-in author's own posts with edit and delete
// controls.
func (b *Blog) MyBlogs(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}

	posts, err := b.posts.ListByAuthor(sess.UserID)
	if err != nil {
		slog.Error("author post listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	b.renderer.Page(w, r, "my_blogs", &render.PageData{
		Title:   "My Blogs",
		Data:    map[string]any{"Posts": posts},
		Flashes: session.PopFlashes(w, r),
	})
}

// EditPage renders the post form pre-filled with the author's post. A
// post owned by someone else 404s exactly like a missing one.
func (b *Blog) EditPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := b.posts.FindByIDAndAuthor(id, sess.UserID)
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}

	values := map[string]any{
		"Title":        post.Title,
		"Content":      post.Content,
		"CategoryName": post.CategoryName,
		"ImageRef":     deref(post.ImageRef),
	}
	b.renderPostForm(w, r, "/edit/"+post.ID.String()+"/", "Edit Blog", values, nil, http.StatusOK)
}

// EditSubmit updates the author's post in place. The author and creation
// time never change.
func (b *Blog) EditSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	form := parsePostForm(r)
	if errs := form.validate(); len(errs) > 0 {
		b.renderPostForm(w, r, "/edit/"+id.String()+"/", "Edit Blog", form.values(), errs, http.StatusUnprocessableEntity)
		return
	}

	category, err := b.resolveCategory(form.Category)
	if err != nil {
		slog.Error("category resolve failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	err = b.posts.Update(&models.Post{
		ID:         id,
		AuthorID:   sess.UserID,
		Title:      form.Title,
		Content:    form.Content,
		ImageRef:   optional(form.ImageRef),
		CategoryID: &category.ID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("post update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	session.AddFlash(w, r, "success", "Blog updated.")
	http.Redirect(w, r, "/post/"+id.String()+"/", http.StatusSeeOther)
}

// Delete removes the author's post. Missing and foreign-owned posts both
// 404.
func (b *Blog) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	deleted, err := b.posts.DeleteByAuthor(id, sess.UserID)
	if err != nil {
		slog.Error("post delete failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.NotFound(w, r)
		return
	}

	slog.Info("post deleted", "post_id", id, "author_id", sess.UserID)
	session.AddFlash(w, r, "success", "Blog deleted.")
	http.Redirect(w, r, "/my-blogs/", http.StatusSeeOther)
}

// renderPostForm renders the shared create/edit form.
func (b *Blog) renderPostForm(w http.ResponseWriter, r *http.Request, action, heading string, values map[string]any, errs map[string]string, status int) {
	categories, err := b.categories.List()
	if err != nil {
		slog.Error("category listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	values["Action"] = action
	values["Heading"] = heading
	values["Categories"] = categories

	b.renderer.PageStatus(w, r, "post_form", status, &render.PageData{
		Title:  heading,
		Data:   values,
		Errors: errs,
	})
}

// resolveCategory maps a form's category name to a row, creating it on
// first use. Blank names fall back to the shared default category.
func (b *Blog) resolveCategory(name string) (*models.Category, error) {
	if name == "" {
		name = models.DefaultCategoryName
	}
	return b.categories.GetOrCreate(name)
}

// optional returns nil for empty strings so blank inputs store as NULL.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref renders a nullable string for form values.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
