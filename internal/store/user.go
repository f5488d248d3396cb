// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all Welog entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"welog/internal/models"
)

// UserStore handles all account-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// RegisterParams carries everything needed to create an account with its
// profile in one step.
type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	Gender      models.Gender
	DateOfBirth *time.Time
	ImageRef    *string
}

// Register creates the account and its profile in a single transaction.
// If the profile insert fails, the account insert rolls back with it, so
// registration is all-or-nothing. Username/email uniqueness is enforced
// authoritatively by the database constraints; callers racing past the
// advisory availability checks still get an error here.
func (s *UserStore) Register(p RegisterParams) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("register begin tx: %w", err)
	}
	defer tx.Rollback()

	u := &models.User{}
	err = tx.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		p.Username, p.Email, string(hash),
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("register insert user: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO profiles (user_id, full_name, gender, date_of_birth, image_ref)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, p.FullName, p.Gender, p.DateOfBirth, p.ImageRef)
	if err != nil {
		return nil, fmt.Errorf("register insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("register commit: %w", err)
	}
	return u, nil
}

// FindByUsername retrieves an account by username. Returns nil if not found.
func (s *UserStore) FindByUsername(username string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// FindByID retrieves an account by its UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// UsernameTaken reports whether an account already uses the given username.
// Advisory only; the unique constraint remains the authority under races.
func (s *UserStore) UsernameTaken(username string) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
	`, username).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("username taken: %w", err)
	}
	return taken, nil
}

// EmailTaken reports whether an account already uses the given email.
func (s *UserStore) EmailTaken(email string) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("email taken: %w", err)
	}
	return taken, nil
}

// Delete removes an account by ID. The profile, posts and follow rows go
// with it via ON DELETE CASCADE.
func (s *UserStore) Delete(userID uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the account's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
