// Package router sets up all HTTP routes and middleware chains for the
// Welog server. It organizes routes into the public site, the
// authenticated authoring pages and the JSON API, each with its own
// middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"welog/internal/handlers"
	"welog/internal/middleware"
	"welog/internal/session"
	"welog/internal/token"
	"welog/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, tokens *token.Manager, auth *handlers.Auth, blog *handlers.Blog, landing *handlers.Landing, api *handlers.API) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Operational endpoints. No auth, no CSRF.
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	// Embedded static assets.
	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))

	// Browser-facing pages share the CSRF cookie.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Public pages.
		r.Get("/", landing.Page)
		r.Get("/post/{id}/", blog.Detail)

		// Account pages, reachable without a session.
		r.Get("/register/", auth.RegisterPage)
		r.Post("/register/", auth.RegisterSubmit)
		r.Get("/login/", auth.LoginPage)
		r.Post("/login/", auth.LoginSubmit)
		r.Post("/logout/", auth.Logout)

		// Live availability checks for the registration form.
		r.Get("/ajax/validate-username/", auth.ValidateUsername)
		r.Get("/ajax/validate-email/", auth.ValidateEmail)

		// Authenticated browsing and authoring.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/home/", blog.Home)
			r.Get("/newblog/", blog.NewPostPage)
			r.Post("/newblog/", blog.NewPostSubmit)
			r.Get("/profile/", blog.Profile)
			r.Get("/my-blogs/", blog.MyBlogs)
			r.Get("/edit/{id}/", blog.EditPage)
			r.Post("/edit/{id}/", blog.EditSubmit)
			r.Post("/delete/{id}/", blog.Delete)
		})
	})

	// JSON API. Bearer tokens resolve into the same identity browser
	// sessions use; reads stay public.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.BearerAuth(tokens))

		r.Post("/token", api.Token)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", api.List)
			r.Post("/", api.Create)
			r.Get("/{id}/", api.Retrieve)
			r.Put("/{id}/", api.Update)
			r.Patch("/{id}/", api.Patch)
			r.Delete("/{id}/", api.Delete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
