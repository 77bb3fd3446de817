package entities

import "time"

type AuditSeverity string

const (
	AuditSeverityInfo  AuditSeverity = "info"
	AuditSeverityWarn  AuditSeverity = "warn"
	AuditSeverityError AuditSeverity = "error"
)

type AuditOutcome string

const (
	AuditOutcomeSuccess AuditOutcome = "success"
	AuditOutcomeFailed  AuditOutcome = "failed"
)

type AuditLog struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	UserID       uint          `gorm:"index" json:"user_id"`
	Action       string        `gorm:"index;size:100" json:"action"` // e.g., "bookmark_import", "login"
	ResourceType string        `gorm:"size:50" json:"resource_type,omitempty"`
	ResourceID   *uint         `gorm:"index" json:"resource_id,omitempty"`
	Severity     AuditSeverity `gorm:"size:20;default:'info'" json:"severity"`
	Outcome      AuditOutcome  `gorm:"size:20" json:"outcome"`
	Details      string        `gorm:"type:text" json:"details,omitempty"` // JSON for extra data
	IPAddress    string        `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent    string        `gorm:"size:500" json:"user_agent,omitempty"`
	ErrorMsg     string        `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt    time.Time     `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
