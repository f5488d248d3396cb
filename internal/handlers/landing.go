// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"welog/internal/models"
	"welog/internal/render"
	"welog/internal/session"
	"welog/internal/store"
)

// Landing page tuning. Authors need more than minTopBloggerPosts posts
// to appear in the top blogger grid; each category section shows at most
// latestPerCategory posts.
const (
	minTopBloggerPosts = 2
	topBloggerLimit    = 9
	latestPerCategory  = 3
)

// Landing serves the public landing page.
type Landing struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
	profiles   *store.ProfileStore
}

// NewLanding creates a new Landing handler group.
func NewLanding(renderer *render.Renderer, posts *store.PostStore, categories *store.CategoryStore, profiles *store.ProfileStore) *Landing {
	return &Landing{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		profiles:   profiles,
	}
}

// landingSection pairs a category with its latest posts for the landing
// template.
type landingSection struct {
	Category models.Category
	Posts    []models.Post
}

// Page renders the landing aggregation: the most active authors and a
// preview of the newest posts per category. Categories without posts are
// omitted entirely.
func (l *Landing) Page(w http.ResponseWriter, r *http.Request) {
	top, err := l.profiles.TopBloggers(minTopBloggerPosts, topBloggerLimit)
	if err != nil {
		slog.Error("top bloggers lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	categories, err := l.categories.List()
	if err != nil {
		slog.Error("category listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var sections []landingSection
	for _, cat := range categories {
		if cat.PostCount == 0 {
			continue
		}
		posts, err := l.posts.LatestByCategory(cat.ID, latestPerCategory)
		if err != nil {
			slog.Error("latest posts lookup failed", "category", cat.Name, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if len(posts) == 0 {
			continue
		}
		sections = append(sections, landingSection{Category: cat, Posts: posts})
	}

	l.renderer.Page(w, r, "landing", &render.PageData{
		Title: "Welcome",
		Data: map[string]any{
			"TopBloggers": top,
			"Sections":    sections,
		},
		Flashes: session.PopFlashes(w, r),
	})
}
