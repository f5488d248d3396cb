package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestPostEditableBy(t *testing.T) {
	author := uuid.New()
	other := uuid.New()
	p := &Post{ID: uuid.New(), AuthorID: author}

	if !p.EditableBy(author) {
		t.Error("expected author to be able to edit own post")
	}
	if p.EditableBy(other) {
		t.Error("expected non-author to be denied")
	}
	if p.EditableBy(uuid.Nil) {
		t.Error("expected zero UUID to be denied")
	}
}

func TestGenderValid(t *testing.T) {
	valid := []Gender{GenderMale, GenderFemale, GenderOther}
	for _, g := range valid {
		if !g.Valid() {
			t.Errorf("expected %q to be valid", g)
		}
	}

	invalid := []Gender{"", "unknown", "Male", "MALE"}
	for _, g := range invalid {
		if g.Valid() {
			t.Errorf("expected %q to be invalid", g)
		}
	}
}
