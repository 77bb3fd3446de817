package entities

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string         `gorm:"size:100" json:"-"`
	Role         UserRole       `gorm:"size:20;default:'user'" json:"role"`
	FailedLogins int            `gorm:"default:0" json:"-"`
	LockedUntil  *time.Time     `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type Bookmark struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	Path        string    `gorm:"index;size:2000" json:"path"`
	Title       string    `gorm:"index;size:200" json:"title"`
	Description string    `gorm:"size:1000" json:"description,omitempty"`
	IsFavorite  bool      `gorm:"default:false" json:"is_favorite"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	Tags        []Tag     `gorm:"many2many:bookmark_tags;" json:"tags,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Note: (UserID, Path) is deliberately NOT a unique index. Import with
// mode=duplicate creates a second bookmark with the same path; dedup is a
// reconciliation convention, not a schema constraint.

type Tag struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index:idx_tags_user_name,unique" json:"user_id"`
	Name       string     `gorm:"index:idx_tags_user_name,unique;size:50" json:"name"`
	IsFavorite bool       `gorm:"default:false" json:"is_favorite"`
	User       User       `gorm:"foreignKey:UserID" json:"-"`
	Bookmarks  []Bookmark `gorm:"many2many:bookmark_tags;" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}

type APIToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index" json:"user_id"`
	Name       string     `gorm:"size:100" json:"name"`
	TokenHash  string     `gorm:"uniqueIndex;size:64" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	User       User       `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

func (Tag) TableName() string {
	return "tags"
}

func (APIToken) TableName() string {
	return "api_tokens"
}
