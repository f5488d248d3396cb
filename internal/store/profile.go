// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"welog/internal/models"
)

// ProfileStore handles profile lookups and the landing-page aggregation.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// FindByUserID retrieves the profile belonging to an account.
// Returns nil if not found.
func (s *ProfileStore) FindByUserID(userID uuid.UUID) (*models.Profile, error) {
	p := &models.Profile{}
	err := s.db.QueryRow(`
		SELECT p.id, p.user_id, p.full_name, p.gender, p.date_of_birth, p.image_ref,
		       p.created_at, p.updated_at, u.username
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`, userID).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Gender, &p.DateOfBirth, &p.ImageRef,
		&p.CreatedAt, &p.UpdatedAt, &p.Username,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by user id: %w", err)
	}
	return p, nil
}

// TopBloggers returns up to limit profiles whose account has strictly more
// than minPosts posts, most prolific first with the account id as a stable
// tie-break. Post and follower counts are populated as virtual fields.
func (s *ProfileStore) TopBloggers(minPosts, limit int) ([]models.Profile, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.user_id, p.full_name, p.gender, p.date_of_birth, p.image_ref,
		       p.created_at, p.updated_at, u.username,
		       COUNT(DISTINCT po.id) AS post_count,
		       COUNT(DISTINCT f.follower_id) AS follower_count
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN posts po ON po.author_id = p.user_id
		LEFT JOIN follows f ON f.followed_id = p.user_id
		GROUP BY p.id, u.username
		HAVING COUNT(DISTINCT po.id) > $1
		ORDER BY COUNT(DISTINCT po.id) DESC, p.user_id
		LIMIT $2
	`, minPosts, limit)
	if err != nil {
		return nil, fmt.Errorf("top bloggers: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.FullName, &p.Gender, &p.DateOfBirth, &p.ImageRef,
			&p.CreatedAt, &p.UpdatedAt, &p.Username, &p.PostCount, &p.FollowerCount,
		); err != nil {
			return nil, fmt.Errorf("scan blogger: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
