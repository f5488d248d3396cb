// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"welog/internal/models"
)

// PageSize is the fixed number of posts per listing page.
const PageSize = 3

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns selects a post with its author username and category name
// resolved. Every read goes through the same joins so virtual fields are
// always populated.
const postColumns = `
	p.id, p.author_id, p.title, p.content, p.image_ref, p.category_id,
	p.created_at, p.updated_at, u.username, COALESCE(c.name, '')`

const postFrom = `
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id`

// scanPost scans a joined post row.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.ImageRef, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt, &p.AuthorName, &p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListOptions narrows and pages the main post listing.
type ListOptions struct {
	// Query keeps posts whose title, content or author username contains
	// it, case-insensitively. Empty means no text filter.
	Query string

	// Category keeps posts whose category name equals it exactly
	// (case-sensitive). Empty means no category filter.
	Category string

	// Page is the 1-based page number. Out-of-range values clamp to the
	// nearest valid page instead of erroring.
	Page int
}

// Page is one page of the post listing plus the metadata templates need
// to render pagination controls.
type Page struct {
	Items      []models.Post
	Number     int
	TotalPages int
	TotalItems int
}

// HasPrev reports whether a previous page exists.
func (p *Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a further page exists.
func (p *Page) HasNext() bool { return p.Number < p.TotalPages }

// List returns one page of posts, newest first (creation time descending,
// id descending as a stable tie-break), filtered per opts.
func (s *PostStore) List(opts ListOptions) (*Page, error) {
	var where []string
	var args []any

	if opts.Query != "" {
		args = append(args, "%"+escapeLike(opts.Query)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(p.title ILIKE $%d OR p.content ILIKE $%d OR u.username ILIKE $%d)", n, n, n))
	}
	if opts.Category != "" {
		args = append(args, opts.Category)
		where = append(where, fmt.Sprintf("c.name = $%d", len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := s.db.QueryRow(`SELECT COUNT(*)`+postFrom+clause, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	// Clamp the requested page into [1, totalPages]. An empty result set
	// still has one (empty) page.
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	number := opts.Page
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	args = append(args, PageSize, (number-1)*PageSize)
	rows, err := s.db.Query(
		`SELECT `+postColumns+postFrom+clause+
			fmt.Sprintf(" ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	page := &Page{Number: number, TotalPages: totalPages, TotalItems: total}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		page.Items = append(page.Items, *p)
	}
	return page, rows.Err()
}

// ListAll returns every post, newest first. Used by the JSON API surface,
// which exposes the collection unpaginated.
func (s *PostStore) ListAll() ([]models.Post, error) {
	rows, err := s.db.Query(`SELECT ` + postColumns + postFrom + ` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ListByAuthor returns an account's own posts, newest first.
func (s *PostStore) ListByAuthor(authorID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.Query(
		`SELECT `+postColumns+postFrom+` WHERE p.author_id = $1 ORDER BY p.created_at DESC, p.id DESC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// LatestByCategory returns the newest posts in a category, capped at limit.
func (s *PostStore) LatestByCategory(categoryID uuid.UUID, limit int) ([]models.Post, error) {
	rows, err := s.db.Query(
		`SELECT `+postColumns+postFrom+` WHERE p.category_id = $1 ORDER BY p.created_at DESC, p.id DESC LIMIT $2`,
		categoryID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("latest posts by category: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+postFrom+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindByIDAndAuthor retrieves a post only when both the id and the author
// match. A post owned by someone else reads exactly like a missing post,
// so callers cannot probe for other accounts' post ids.
func (s *PostStore) FindByIDAndAuthor(id, authorID uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(
		`SELECT `+postColumns+postFrom+` WHERE p.id = $1 AND p.author_id = $2`,
		id, authorID,
	)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id and author: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with generated fields populated.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO posts (author_id, title, content, image_ref, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.AuthorID, p.Title, p.Content, p.ImageRef, p.CategoryID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies a post's editable fields. The author and creation time
// never change; updated_at refreshes. The author guard in the WHERE clause
// backs up the caller's ownership lookup.
func (s *PostStore) Update(p *models.Post) error {
	res, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, content = $2, image_ref = $3, category_id = $4,
			updated_at = NOW()
		WHERE id = $5 AND author_id = $6
	`, p.Title, p.Content, p.ImageRef, p.CategoryID, p.ID, p.AuthorID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByAuthor removes a post keyed by both id and author. Returns false
// when nothing was deleted; missing and foreign-owned posts are
// indistinguishable to the caller.
func (s *PostStore) DeleteByAuthor(id, authorID uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post rows affected: %w", err)
	}
	return n > 0, nil
}

// escapeLike neutralizes LIKE wildcards in user-supplied search text so a
// query of "50%" matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
