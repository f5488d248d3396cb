// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"welog/internal/models"
	"welog/internal/store"
)

// Validation limits for account and post form fields.
const (
	minUsernameLen = 3
	maxUsernameLen = 30
	minPasswordLen = 8
	maxFullNameLen = 100
	maxTitleLen    = 300
	maxContentLen  = 100_000
	maxCategoryLen = 50
	maxImageRefLen = 500
)

// nonFieldKey collects errors that belong to the form as a whole rather
// than a single input.
const nonFieldKey = "__all__"

// registerForm carries the registration form inputs through validation.
type registerForm struct {
	Username        string
	Email           string
	FullName        string
	Gender          string
	DateOfBirth     string
	ImageRef        string
	Password        string
	ConfirmPassword string
}

// parseRegisterForm reads the registration inputs from the request.
func parseRegisterForm(r *http.Request) registerForm {
	return registerForm{
		Username:        strings.TrimSpace(r.FormValue("username")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		FullName:        strings.TrimSpace(r.FormValue("full_name")),
		Gender:          r.FormValue("gender"),
		DateOfBirth:     strings.TrimSpace(r.FormValue("date_of_birth")),
		ImageRef:        strings.TrimSpace(r.FormValue("image_ref")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
}

// validate checks the form and returns per-field error messages. An empty
// map means the form is acceptable.
func (f registerForm) validate() map[string]string {
	errs := make(map[string]string)

	switch n := utf8.RuneCountInString(f.Username); {
	case f.Username == "":
		errs["username"] = "Username is required."
	case n < minUsernameLen:
		errs["username"] = "Username must be at least 3 characters."
	case n > maxUsernameLen:
		errs["username"] = "Username is too long (max 30 characters)."
	}

	if f.Email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		errs["email"] = "Enter a valid email address."
	}

	if f.FullName == "" {
		errs["full_name"] = "Full name is required."
	} else if utf8.RuneCountInString(f.FullName) > maxFullNameLen {
		errs["full_name"] = "Full name is too long (max 100 characters)."
	}

	if !models.Gender(f.Gender).Valid() {
		errs["gender"] = "Select a gender."
	}

	if f.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", f.DateOfBirth); err != nil {
			errs["date_of_birth"] = "Enter the date as YYYY-MM-DD."
		}
	}

	if utf8.RuneCountInString(f.ImageRef) > maxImageRefLen {
		errs["image_ref"] = "Image reference is too long (max 500 characters)."
	}

	if utf8.RuneCountInString(f.Password) < minPasswordLen {
		errs["password"] = "Password must be at least 8 characters."
	} else if f.Password != f.ConfirmPassword {
		errs["confirm_password"] = "Passwords do not match."
	}

	return errs
}

// params converts a validated form into registration parameters.
func (f registerForm) params() store.RegisterParams {
	p := store.RegisterParams{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
		FullName: f.FullName,
		Gender:   models.Gender(f.Gender),
	}
	if f.DateOfBirth != "" {
		if dob, err := time.Parse("2006-01-02", f.DateOfBirth); err == nil {
			p.DateOfBirth = &dob
		}
	}
	if f.ImageRef != "" {
		p.ImageRef = &f.ImageRef
	}
	return p
}

// values returns the form inputs for re-rendering after a validation
// failure. Passwords never round-trip.
func (f registerForm) values() map[string]any {
	return map[string]any{
		"Username":    f.Username,
		"Email":       f.Email,
		"FullName":    f.FullName,
		"Gender":      f.Gender,
		"DateOfBirth": f.DateOfBirth,
		"ImageRef":    f.ImageRef,
	}
}

// postForm carries the blog post form inputs through validation.
type postForm struct {
	Title    string
	Content  string
	Category string
	ImageRef string
}

// parsePostForm reads the post inputs from the request.
func parsePostForm(r *http.Request) postForm {
	return postForm{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Content:  strings.TrimSpace(r.FormValue("content")),
		Category: strings.TrimSpace(r.FormValue("category")),
		ImageRef: strings.TrimSpace(r.FormValue("image_ref")),
	}
}

// validate checks the post form and returns per-field error messages.
func (f postForm) validate() map[string]string {
	errs := make(map[string]string)

	if f.Title == "" {
		errs["title"] = "Title is required."
	} else if utf8.RuneCountInString(f.Title) > maxTitleLen {
		errs["title"] = "Title is too long (max 300 characters)."
	}

	if f.Content == "" {
		errs["content"] = "Content is required."
	} else if utf8.RuneCountInString(f.Content) > maxContentLen {
		errs["content"] = "Content is too long (max 100,000 characters)."
	}

	if utf8.RuneCountInString(f.Category) > maxCategoryLen {
		errs["category"] = "Category name is too long (max 50 characters)."
	}

	if utf8.RuneCountInString(f.ImageRef) > maxImageRefLen {
		errs["image_ref"] = "Image reference is too long (max 500 characters)."
	}

	return errs
}

// values returns the form inputs for re-rendering after a validation failure.
func (f postForm) values() map[string]any {
	return map[string]any{
		"Title":        f.Title,
		"Content":      f.Content,
		"CategoryName": f.Category,
		"ImageRef":     f.ImageRef,
	}
}
