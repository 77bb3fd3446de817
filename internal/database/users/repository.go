// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByUsername("alice")
package users

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookmarks/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user with an already-hashed password.
func (r *Repository) CreateUser(username, email, passwordHash string, role entities.UserRole) (*entities.User, error) {
	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username, or (nil, nil) when absent.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, or (nil, nil) when absent.
func (r *Repository) GetUserByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CountUsers returns the number of registered users.
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

// RecordFailedLogin increments the failure counter and optionally locks the
// account until the given time.
func (r *Repository) RecordFailedLogin(userID uint, lockedUntil *time.Time) error {
	updates := map[string]interface{}{
		"failed_logins": gorm.Expr("failed_logins + 1"),
	}
	if lockedUntil != nil {
		updates["locked_until"] = *lockedUntil
	}
	return r.db.Model(&entities.User{}).Where("id = ?", userID).Updates(updates).Error
}

// ResetFailedLogins clears the failure counter and any lockout.
func (r *Repository) ResetFailedLogins(userID uint) error {
	return r.db.Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"failed_logins": 0,
		"locked_until":  nil,
	}).Error
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(userID uint, passwordHash string) error {
	return r.db.Model(&entities.User{}).Where("id = ?", userID).Update("password_hash", passwordHash).Error
}
