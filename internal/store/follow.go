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

// FollowStore reads the follower relation between accounts. The relation
// is populated out-of-band; the web surfaces only ever read it.
type FollowStore struct {
	db *sql.DB
}

// NewFollowStore creates a new FollowStore with the given database connection.
func NewFollowStore(db *sql.DB) *FollowStore {
	return &FollowStore{db: db}
}

// CountFollowers returns how many accounts follow the given account.
func (s *FollowStore) CountFollowers(userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM follows WHERE followed_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return count, nil
}

// ListFollowers returns the follow rows pointing at the given account,
// newest first.
func (s *FollowStore) ListFollowers(userID uuid.UUID) ([]models.Follow, error) {
	rows, err := s.db.Query(`
		SELECT follower_id, followed_id, created_at
		FROM follows
		WHERE followed_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	defer rows.Close()

	var follows []models.Follow
	for rows.Next() {
		var f models.Follow
		if err := rows.Scan(&f.FollowerID, &f.FollowedID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan follow: %w", err)
		}
		follows = append(follows, f)
	}
	return follows, rows.Err()
}
