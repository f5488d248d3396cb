package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"welog/internal/middleware"
	"welog/internal/session"
	"welog/internal/store"
)

// helperSession returns a session.Data suitable for rendering pages.
func helperSession() *session.Data {
	return &session.Data{
		UserID:   uuid.New(),
		Username: "renderer",
	}
}

// helperRequestWithContext builds an *http.Request whose context carries
// a session, which the embedded templates expect.
func helperRequestWithContext(method, target string, sess *session.Data) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if sess != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.SessionKey, sess))
	}
	return req
}

func TestNew(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if len(rn.templates) == 0 {
		t.Fatal("renderer has no parsed templates")
	}

	for _, name := range []string{"landing", "home", "login", "register", "post_form", "post_detail", "profile", "my_blogs"} {
		if _, ok := rn.templates[name]; !ok {
			t.Errorf("expected template %q to be parsed", name)
		}
	}

	// base.html should NOT appear as a standalone template key.
	if _, ok := rn.templates["base"]; ok {
		t.Error("base.html should not be registered as a separate template")
	}
}

func TestPageRendering(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	sess := helperSession()
	req := helperRequestWithContext(http.MethodGet, "/my-blogs/", sess)
	w := httptest.NewRecorder()

	rn.Page(w, req, "my_blogs", &PageData{
		Title:   "My Blogs",
		Session: sess,
		Data:    map[string]any{"Posts": nil},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("full page render should contain <!DOCTYPE html>")
	}
	if !strings.Contains(body, "Welog") {
		t.Error("full page render should contain site branding")
	}
	// The logged-in nav shows the session username.
	if !strings.Contains(body, "renderer") {
		t.Error("full page render should contain session username")
	}

	ct := w.Header().Get("Content-Type")
	if ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type: got %q, want %q", ct, "text/html; charset=utf-8")
	}
}

func TestStandaloneTemplates(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for _, name := range []string{"login", "register"} {
		t.Run(name, func(t *testing.T) {
			req := helperRequestWithContext(http.MethodGet, "/"+name+"/", nil)
			w := httptest.NewRecorder()

			rn.Page(w, req, name, &PageData{
				Title: name,
				Data:  map[string]any{"Gender": ""},
			})

			if w.Code != http.StatusOK {
				t.Fatalf("template %q: expected 200, got %d; body: %s", name, w.Code, w.Body.String())
			}

			body := w.Body.String()
			if !strings.Contains(body, "<!DOCTYPE html>") {
				t.Errorf("template %q: expected standalone HTML with <!DOCTYPE html>", name)
			}
			// Standalone templates should NOT contain the shared nav header.
			if strings.Contains(body, "site-header") {
				t.Errorf("template %q: should NOT contain base layout header", name)
			}
		})
	}
}

func TestPageStatus(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	req := helperRequestWithContext(http.MethodGet, "/register/", nil)
	w := httptest.NewRecorder()

	rn.PageStatus(w, req, "register", http.StatusUnprocessableEntity, &PageData{
		Title:  "Register",
		Data:   map[string]any{"Gender": "other"},
		Errors: map[string]string{"username": "Username is already taken"},
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Username is already taken") {
		t.Error("rendered output should contain the field error")
	}
}

func TestMissingTemplate(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	req := helperRequestWithContext(http.MethodGet, "/nonexistent", nil)
	w := httptest.NewRecorder()

	rn.Page(w, req, "nonexistent_template", &PageData{Title: "Not Found"})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not found") {
		t.Error("error response should mention template not found")
	}
}

func TestPageDataCSRFInjection(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	req := helperRequestWithContext(http.MethodGet, "/login/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: "csrf-token-value"})

	w := httptest.NewRecorder()
	data := &PageData{Title: "Login", Data: map[string]any{}}
	rn.Page(w, req, "login", data)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "csrf-token-value") {
		t.Error("rendered output should contain the CSRF token from the cookie")
	}
	if data.CSRFToken != "csrf-token-value" {
		t.Errorf("PageData.CSRFToken: got %q", data.CSRFToken)
	}
}

func TestSessionInjectionFromContext(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	sess := helperSession()
	req := helperRequestWithContext(http.MethodGet, "/home/", sess)
	w := httptest.NewRecorder()

	// Pass PageData WITHOUT setting Session; it should be injected from context.
	data := &PageData{
		Title: "Home",
		Data: map[string]any{
			"Page":       &store.Page{Number: 1, TotalPages: 1},
			"Categories": nil,
			"Query":      "",
			"Category":   "",
		},
	}
	rn.Page(w, req, "home", data)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	if data.Session == nil {
		t.Fatal("expected Session to be injected from context")
	}
	if data.Session.Username != "renderer" {
		t.Errorf("Session.Username: got %q", data.Session.Username)
	}
	if !strings.Contains(w.Body.String(), "renderer") {
		t.Error("rendered output should contain session username")
	}
}

func TestFlashesRendered(t *testing.T) {
	rn, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	req := helperRequestWithContext(http.MethodGet, "/login/", nil)
	w := httptest.NewRecorder()

	rn.Page(w, req, "login", &PageData{
		Title:   "Login",
		Data:    map[string]any{},
		Flashes: []session.Flash{{Type: "success", Message: "Account created, log in below"}},
	})

	body := w.Body.String()
	if !strings.Contains(body, "Account created, log in below") {
		t.Error("rendered output should contain the flash message")
	}
	if !strings.Contains(body, "flash-success") {
		t.Error("flash should carry its type class")
	}
}
