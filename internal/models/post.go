// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is an author-owned content item. The author is fixed at creation;
// only the author may edit or delete the post. Deleting a post's category
// clears CategoryID rather than removing the post.
type Post struct {
	ID         uuid.UUID  `json:"id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	ImageRef   *string    `json:"image_ref,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Virtual fields populated by list/detail queries.
	AuthorName   string `json:"author_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
}

// EditableBy reports whether the given account may mutate or delete this
// post. Both the form surface and the REST surface evaluate this single
// predicate so the ownership rule cannot diverge between them.
func (p *Post) EditableBy(userID uuid.UUID) bool {
	return p.AuthorID == userID
}
