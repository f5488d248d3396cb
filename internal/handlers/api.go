// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"welog/internal/metrics"
	"welog/internal/middleware"
	"welog/internal/models"
	"welog/internal/session"
	"welog/internal/store"
	"welog/internal/token"
)

// API groups the JSON endpoints. Reads are public; writes require a
// bearer token or an existing browser session.
type API struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	users      *store.UserStore
	tokens     *token.Manager
	validate   *validator.Validate
}

// NewAPI creates a new API handler group.
func NewAPI(posts *store.PostStore, categories *store.CategoryStore, users *store.UserStore, tokens *token.Manager) *API {
	return &API{
		posts:      posts,
		categories: categories,
		users:      users,
		tokens:     tokens,
		validate:   validator.New(),
	}
}

// postResponse is the JSON shape of a post on the API surface.
type postResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Category  string    `json:"category,omitempty"`
	ImageRef  *string   `json:"image_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPostResponse(p *models.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.AuthorName,
		Category:  p.CategoryName,
		ImageRef:  p.ImageRef,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// tokenRequest is the credential payload for POST /api/token.
type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Token exchanges credentials for a bearer token. The error does not
// distinguish unknown accounts from wrong passwords.
func (a *API) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := a.users.FindByUsername(req.Username)
	if err != nil {
		slog.Error("token credential lookup failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		metrics.IncLogin("failure")
		writeJSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	signed, err := a.tokens.Issue(user.ID, user.Username)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	metrics.IncLogin("success")
	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}

// List returns every post, newest first.
func (a *API) List(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.ListAll()
	if err != nil {
		slog.Error("api post listing failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Retrieve returns a single post by id.
func (a *API) Retrieve(w http.ResponseWriter, r *http.Request) {
	post, ok := a.lookupPost(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// postRequest is the write payload for creating and replacing posts. The
// author never comes from the payload.
type postRequest struct {
	Title    string  `json:"title" validate:"required,max=300"`
	Content  string  `json:"content" validate:"required,max=100000"`
	Category string  `json:"category" validate:"max=50"`
	ImageRef *string `json:"image_ref" validate:"omitempty,max=500"`
}

// Create inserts a post authored by the authenticated caller.
func (a *API) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, validationDetail(err))
		return
	}

	category, err := a.resolveCategory(req.Category)
	if err != nil {
		slog.Error("category resolve failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	post, err := a.posts.Create(&models.Post{
		AuthorID:   sess.UserID,
		Title:      req.Title,
		Content:    req.Content,
		ImageRef:   req.ImageRef,
		CategoryID: &category.ID,
	})
	if err != nil {
		slog.Error("api post create failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	metrics.IncPostCreated()
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// Update replaces a post's editable fields. Only the author may write;
// everyone else gets 403 because the post is visibly there on the read
// surface.
func (a *API) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}
	post, ok := a.lookupPost(w, r)
	if !ok {
		return
	}
	if !post.EditableBy(sess.UserID) {
		writeJSONError(w, http.StatusForbidden, "you do not own this post")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, validationDetail(err))
		return
	}

	category, err := a.resolveCategory(req.Category)
	if err != nil {
		slog.Error("category resolve failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	post.Title = req.Title
	post.Content = req.Content
	post.ImageRef = req.ImageRef
	post.CategoryID = &category.ID

	a.applyUpdate(w, post)
}

// patchRequest is the partial-update payload. Absent fields keep their
// stored values.
type patchRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=300"`
	Content  *string `json:"content" validate:"omitempty,max=100000"`
	Category *string `json:"category" validate:"omitempty,max=50"`
	ImageRef *string `json:"image_ref" validate:"omitempty,max=500"`
}

// Patch updates only the fields present in the payload.
func (a *API) Patch(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}
	post, ok := a.lookupPost(w, r)
	if !ok {
		return
	}
	if !post.EditableBy(sess.UserID) {
		writeJSONError(w, http.StatusForbidden, "you do not own this post")
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, validationDetail(err))
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			writeJSONError(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		post.Title = *req.Title
	}
	if req.Content != nil {
		if *req.Content == "" {
			writeJSONError(w, http.StatusBadRequest, "content cannot be empty")
			return
		}
		post.Content = *req.Content
	}
	if req.ImageRef != nil {
		post.ImageRef = req.ImageRef
	}
	if req.Category != nil {
		category, err := a.resolveCategory(*req.Category)
		if err != nil {
			slog.Error("category resolve failed", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "internal error")
			return
		}
		post.CategoryID = &category.ID
	}

	a.applyUpdate(w, post)
}

// Delete removes the caller's post.
func (a *API) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}
	post, ok := a.lookupPost(w, r)
	if !ok {
		return
	}
	if !post.EditableBy(sess.UserID) {
		writeJSONError(w, http.StatusForbidden, "you do not own this post")
		return
	}

	if _, err := a.posts.DeleteByAuthor(post.ID, sess.UserID); err != nil {
		slog.Error("api post delete failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireIdentity resolves the caller's identity or writes a 401.
func (a *API) requireIdentity(w http.ResponseWriter, r *http.Request) (*session.Data, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return sess, true
}

// lookupPost parses the id route param and loads the post, writing 404
// or 500 as appropriate.
func (a *API) lookupPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "post not found")
		return nil, false
	}

	post, err := a.posts.FindByID(id)
	if err != nil {
		slog.Error("api post lookup failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if post == nil {
		writeJSONError(w, http.StatusNotFound, "post not found")
		return nil, false
	}
	return post, true
}

// applyUpdate persists a modified post and writes the response.
func (a *API) applyUpdate(w http.ResponseWriter, post *models.Post) {
	err := a.posts.Update(post)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		slog.Error("api post update failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	updated, err := a.posts.FindByID(post.ID)
	if err != nil || updated == nil {
		slog.Error("api post reload failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(updated))
}

// resolveCategory maps a payload's category name to a row, creating it
// on first use. Blank names fall back to the shared default category.
func (a *API) resolveCategory(name string) (*models.Category, error) {
	if name == "" {
		name = models.DefaultCategoryName
	}
	return a.categories.GetOrCreate(name)
}

// validationDetail flattens a validator error into a readable message.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		switch f.Tag() {
		case "required":
			return f.Field() + " is required"
		case "max":
			return f.Field() + " is too long"
		}
		return f.Field() + " is invalid"
	}
	return "invalid payload"
}
