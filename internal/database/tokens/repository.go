// Package tokens provides database operations for API token management.
//
// Only token hashes are stored; the plaintext token is shown once at
// creation and never persisted.
package tokens

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookmarks/internal/entities"
)

// Repository handles all API token database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tokens repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateToken persists a named token hash for a user.
func (r *Repository) CreateToken(userID uint, name, tokenHash string, expiresAt *time.Time) (*entities.APIToken, error) {
	token := &entities.APIToken{
		UserID:    userID,
		Name:      name,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}
	if err := r.db.Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// GetTokenByHash retrieves a token by its hash, or (nil, nil) when absent.
func (r *Repository) GetTokenByHash(tokenHash string) (*entities.APIToken, error) {
	var token entities.APIToken
	err := r.db.Where("token_hash = ?", tokenHash).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetTokensForUser lists a user's tokens, newest first.
func (r *Repository) GetTokensForUser(userID uint) ([]entities.APIToken, error) {
	var tokens []entities.APIToken
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tokens).Error
	return tokens, err
}

// TouchToken records when a token was last used.
func (r *Repository) TouchToken(tokenID uint, when time.Time) error {
	return r.db.Model(&entities.APIToken{}).Where("id = ?", tokenID).Update("last_used_at", when).Error
}

// DeleteToken revokes a token. Deleting a missing or foreign token returns
// gorm.ErrRecordNotFound.
func (r *Repository) DeleteToken(id, userID uint) error {
	result := r.db.Where("user_id = ?", userID).Delete(&entities.APIToken{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteExpiredTokens removes tokens whose expiry has passed.
func (r *Repository) DeleteExpiredTokens(now time.Time) (int64, error) {
	result := r.db.Where("expires_at IS NOT NULL AND expires_at < ?", now).Delete(&entities.APIToken{})
	return result.RowsAffected, result.Error
}
