// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handler groups for the public site
// and the JSON API. Each group is constructed with the stores and
// services it needs and exposes methods matching one route each.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"welog/internal/metrics"
	"welog/internal/middleware"
	"welog/internal/render"
	"welog/internal/session"
	"welog/internal/store"
)

// Auth groups registration, login and the AJAX availability checks.
type Auth struct {
	renderer  *render.Renderer
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		renderer:  renderer,
		sessions:  sessions,
		userStore: userStore,
	}
}

// RegisterPage renders the registration form.
func (a *Auth) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/home/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "register", &render.PageData{
		Title:   "Register",
		Data:    registerForm{}.values(),
		Flashes: session.PopFlashes(w, r),
	})
}

// RegisterSubmit processes the registration form. The account and its
// profile are created in one step; a failed registration leaves nothing
// behind.
func (a *Auth) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	form := parseRegisterForm(r)
	errs := form.validate()

	// Uniqueness checks give friendlier errors than the DB constraint
	// violation would.
	if errs["username"] == "" {
		if taken, err := a.userStore.UsernameTaken(form.Username); err == nil && taken {
			errs["username"] = "Username is already taken."
		}
	}
	if errs["email"] == "" {
		if taken, err := a.userStore.EmailTaken(form.Email); err == nil && taken {
			errs["email"] = "Email is already registered."
		}
	}

	if len(errs) > 0 {
		metrics.IncRegistration("invalid")
		a.renderer.PageStatus(w, r, "register", http.StatusUnprocessableEntity, &render.PageData{
			Title:  "Register",
			Data:   form.values(),
			Errors: errs,
		})
		return
	}

	user, err := a.userStore.Register(form.params())
	if err != nil {
		// The pre-checks race with concurrent registrations; the unique
		// constraints are the authority.
		slog.Error("registration failed", "username", form.Username, "error", err)
		metrics.IncRegistration("error")
		a.renderer.PageStatus(w, r, "register", http.StatusUnprocessableEntity, &render.PageData{
			Title:  "Register",
			Data:   form.values(),
			Errors: map[string]string{nonFieldKey: "Could not create the account. The username or email may already be in use."},
		})
		return
	}

	slog.Info("account registered", "user_id", user.ID, "username", user.Username)
	metrics.IncRegistration("success")

	session.AddFlash(w, r, "success", "Account created. Log in below.")
	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/home/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title:   "Log in",
		Data:    map[string]any{"Username": ""},
		Flashes: session.PopFlashes(w, r),
	})
}

// LoginSubmit processes the login form. The same message covers unknown
// usernames and wrong passwords so the form does not leak which accounts
// exist.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := a.userStore.FindByUsername(username)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user == nil || !a.userStore.CheckPassword(user, password) {
		metrics.IncLogin("failure")
		a.renderer.PageStatus(w, r, "login", http.StatusUnauthorized, &render.PageData{
			Title:  "Log in",
			Data:   map[string]any{"Username": username},
			Errors: map[string]string{nonFieldKey: "Invalid username or password."},
		})
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:   user.ID,
		Username: user.Username,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("login", "user_id", user.ID, "username", user.Username)
	metrics.IncLogin("success")
	http.Redirect(w, r, "/home/", http.StatusSeeOther)
}

// Logout destroys the session and returns to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	session.AddFlash(w, r, "success", "You have been logged out.")
	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

// ValidateUsername answers the registration form's live availability
// check. An empty parameter is a bad request, not an available name.
func (a *Auth) ValidateUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeJSONError(w, http.StatusBadRequest, "username parameter is required")
		return
	}

	taken, err := a.userStore.UsernameTaken(username)
	if err != nil {
		slog.Error("username availability check failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "availability check failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"is_taken": taken})
}

// ValidateEmail answers the registration form's live email availability
// check.
func (a *Auth) ValidateEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSONError(w, http.StatusBadRequest, "email parameter is required")
		return
	}

	taken, err := a.userStore.EmailTaken(email)
	if err != nil {
		slog.Error("email availability check failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "availability check failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"is_taken": taken})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error body in the API's error shape.
func writeJSONError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
