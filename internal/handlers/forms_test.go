package handlers

import (
	"strings"
	"testing"
)

func validRegisterForm() registerForm {
	return registerForm{
		Username:        "formtester",
		Email:           "formtester@example.com",
		FullName:        "Form Tester",
		Gender:          "female",
		DateOfBirth:     "1991-07-20",
		Password:        "longenough1",
		ConfirmPassword: "longenough1",
	}
}

func TestRegisterFormValid(t *testing.T) {
	if errs := validRegisterForm().validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestRegisterFormValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*registerForm)
		field  string
	}{
		{"missing username", func(f *registerForm) { f.Username = "" }, "username"},
		{"short username", func(f *registerForm) { f.Username = "ab" }, "username"},
		{"long username", func(f *registerForm) { f.Username = strings.Repeat("x", 31) }, "username"},
		{"missing email", func(f *registerForm) { f.Email = "" }, "email"},
		{"bad email", func(f *registerForm) { f.Email = "not-an-email" }, "email"},
		{"missing full name", func(f *registerForm) { f.FullName = "" }, "full_name"},
		{"bad gender", func(f *registerForm) { f.Gender = "unknown" }, "gender"},
		{"bad date", func(f *registerForm) { f.DateOfBirth = "20-07-1991" }, "date_of_birth"},
		{"short password", func(f *registerForm) { f.Password = "short"; f.ConfirmPassword = "short" }, "password"},
		{"mismatched passwords", func(f *registerForm) { f.ConfirmPassword = "different1" }, "confirm_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validRegisterForm()
			tt.mutate(&f)
			errs := f.validate()
			if errs[tt.field] == "" {
				t.Errorf("expected an error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestRegisterFormParams(t *testing.T) {
	f := validRegisterForm()
	f.ImageRef = "https://example.com/pic.png"
	p := f.params()

	if p.Username != "formtester" || p.Email != "formtester@example.com" {
		t.Errorf("identity fields: %+v", p)
	}
	if p.DateOfBirth == nil || p.DateOfBirth.Format("2006-01-02") != "1991-07-20" {
		t.Errorf("date of birth: %v", p.DateOfBirth)
	}
	if p.ImageRef == nil || *p.ImageRef != "https://example.com/pic.png" {
		t.Errorf("image ref: %v", p.ImageRef)
	}

	// Blank optional fields store as nil.
	f.DateOfBirth = ""
	f.ImageRef = ""
	p = f.params()
	if p.DateOfBirth != nil || p.ImageRef != nil {
		t.Error("blank optionals should be nil")
	}
}

func TestRegisterFormValuesOmitPassword(t *testing.T) {
	f := validRegisterForm()
	values := f.values()

	if _, ok := values["Password"]; ok {
		t.Error("password must not appear in re-render values")
	}
	if values["Username"] != "formtester" {
		t.Errorf("username: got %v", values["Username"])
	}
}

func TestPostFormValidation(t *testing.T) {
	tests := []struct {
		name  string
		form  postForm
		field string
	}{
		{"missing title", postForm{Content: "body"}, "title"},
		{"missing content", postForm{Title: "t"}, "content"},
		{"long title", postForm{Title: strings.Repeat("x", 301), Content: "body"}, "title"},
		{"long category", postForm{Title: "t", Content: "body", Category: strings.Repeat("x", 51)}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.form.validate()
			if errs[tt.field] == "" {
				t.Errorf("expected an error on %q, got %v", tt.field, errs)
			}
		})
	}

	ok := postForm{Title: "fine", Content: "fine body"}
	if errs := ok.validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}
