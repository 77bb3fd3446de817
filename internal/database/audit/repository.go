package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookmarks/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEntry saves an audit log entry to the database.
func (r *Repository) LogEntry(entry *entities.AuditLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.Create(entry).Error
}

// Filter narrows an audit log listing. Zero values mean "no filter".
// UserID 0 spans all users, which only admin callers may request.
type Filter struct {
	UserID   uint
	Action   string
	Severity entities.AuditSeverity
	Since    time.Time
	Until    time.Time
}

// GetLogs retrieves paginated audit entries, most recent first.
func (r *Repository) GetLogs(filter Filter, limit, offset int) ([]entities.AuditLog, int64, error) {
	var logs []entities.AuditLog
	var total int64

	query := r.db.Model(&entities.AuditLog{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		query = query.Where("created_at <= ?", filter.Until)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, total, err
}

// GetLogByID retrieves a single audit entry by ID.
func (r *Repository) GetLogByID(id uint) (*entities.AuditLog, error) {
	var entry entities.AuditLog
	err := r.db.First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteOldEntries removes audit entries older than the specified time.
// Returns the number of deleted entries.
func (r *Repository) DeleteOldEntries(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.AuditLog{})
	return result.RowsAffected, result.Error
}
