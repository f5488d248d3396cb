// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"welog/internal/database"
	"welog/internal/middleware"
	"welog/internal/models"
	"welog/internal/render"
	"welog/internal/session"
	"welog/internal/store"
	"welog/internal/token"
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
	user := envOr("POSTGRES_USER", "welog")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "welog")
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
	goose.SetBaseFS(nil)

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
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
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
	Tokens     *token.Manager
	Users      *store.UserStore
	Posts      *store.PostStore
	Categories *store.CategoryStore
	Profiles   *store.ProfileStore
	Follows    *store.FollowStore
	Auth       *Auth
	Blog       *Blog
	Landing    *Landing
	API        *API
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	tokens := token.NewManager("handler-test-secret")
	users := store.NewUserStore(db)
	posts := store.NewPostStore(db)
	categories := store.NewCategoryStore(db)
	profiles := store.NewProfileStore(db)
	follows := store.NewFollowStore(db)

	return &testEnv{
		DB:         db,
		Valkey:     vk,
		Renderer:   renderer,
		Sessions:   sessions,
		Tokens:     tokens,
		Users:      users,
		Posts:      posts,
		Categories: categories,
		Profiles:   profiles,
		Follows:    follows,
		Auth:       NewAuth(renderer, sessions, users),
		Blog:       NewBlog(renderer, posts, categories, profiles, follows),
		Landing:    NewLanding(renderer, posts, categories, profiles),
		API:        NewAPI(posts, categories, users, tokens),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withSession attaches a session to a request.
func withSession(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(ctxWithSession(r.Context(), &session.Data{
		UserID:   user.ID,
		Username: user.Username,
	}))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// registerTestUser creates a user + profile pair for handler tests.
func registerTestUser(t *testing.T, users *store.UserStore, username string) *models.User {
	t.Helper()
	u, err := users.Register(store.RegisterParams{
		Username: username,
		Email:    username + "@handler-test.local",
		Password: "testpass123",
		FullName: "Handler Test",
		Gender:   models.GenderOther,
	})
	if err != nil {
		t.Fatalf("register test user %q: %v", username, err)
	}
	return u
}

// createTestPost inserts a post for the given author.
func createTestPost(t *testing.T, posts *store.PostStore, authorID uuid.UUID, title string) *models.Post {
	t.Helper()
	p, err := posts.Create(&models.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  "handler test content",
	})
	if err != nil {
		t.Fatalf("create test post %q: %v", title, err)
	}
	return p
}

// cleanUsers removes test users by username. Posts, profiles and follow
// rows cascade.
func cleanUsers(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, username := range usernames {
		db.Exec("DELETE FROM users WHERE username = $1", username)
	}
}

// cleanCategories removes test categories by name.
func cleanCategories(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec("DELETE FROM categories WHERE name = $1", name)
	}
}
