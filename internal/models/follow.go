package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow records that one account follows another. The relation is read
// only: follower counts surface on the landing page, but no handler
// currently mutates it.
type Follow struct {
	FollowerID uuid.UUID `json:"follower_id"`
	FollowedID uuid.UUID `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
