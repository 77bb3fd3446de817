package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/mrlokans/bookmarks/internal/database/audit"
	"github.com/mrlokans/bookmarks/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit entry.
func (s *Service) Log(entry *entities.AuditLog) error {
	return s.repo.LogEntry(entry)
}

// LogAsync records an audit entry in the background (non-blocking).
func (s *Service) LogAsync(entry *entities.AuditLog) {
	go func() {
		if err := s.repo.LogEntry(entry); err != nil {
			log.Printf("Failed to log audit entry: %v", err)
		}
	}()
}

// LogImport records a CSV import. Counts land in the details column as JSON.
func (s *Service) LogImport(userID uint, kind string, imported, updated, skipped, failed int, err error) {
	entry := &entities.AuditLog{
		UserID:       userID,
		Action:       kind + "_import",
		ResourceType: kind,
		Severity:     entities.AuditSeverityInfo,
		Outcome:      entities.AuditOutcomeSuccess,
	}

	details := map[string]any{
		"imported": imported,
		"updated":  updated,
		"skipped":  skipped,
		"failed":   failed,
	}
	if raw, e := json.Marshal(details); e == nil {
		entry.Details = string(raw)
	}

	if err != nil {
		entry.Severity = entities.AuditSeverityError
		entry.Outcome = entities.AuditOutcomeFailed
		entry.ErrorMsg = truncate(err.Error(), 500)
	} else if failed > 0 {
		entry.Severity = entities.AuditSeverityWarn
	}

	s.LogAsync(entry)
}

// LogExport records a CSV export.
func (s *Service) LogExport(userID uint, kind string, rows int, err error) {
	entry := &entities.AuditLog{
		UserID:       userID,
		Action:       kind + "_export",
		ResourceType: kind,
		Severity:     entities.AuditSeverityInfo,
		Outcome:      entities.AuditOutcomeSuccess,
	}

	if raw, e := json.Marshal(map[string]any{"rows": rows}); e == nil {
		entry.Details = string(raw)
	}

	if err != nil {
		entry.Severity = entities.AuditSeverityError
		entry.Outcome = entities.AuditOutcomeFailed
		entry.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(entry)
}

// LogAuth records an authentication event (login, logout, register,
// token_auth). Failed logins are warnings so lockout probes stand out.
func (s *Service) LogAuth(userID uint, action, ipAddr, userAgent string, success bool) {
	entry := &entities.AuditLog{
		UserID:    userID,
		Action:    action,
		Severity:  entities.AuditSeverityInfo,
		Outcome:   entities.AuditOutcomeSuccess,
		IPAddress: ipAddr,
		UserAgent: truncate(userAgent, 500),
	}

	if !success {
		entry.Severity = entities.AuditSeverityWarn
		entry.Outcome = entities.AuditOutcomeFailed
	}

	s.LogAsync(entry)
}

// LogChange records a create, update, or delete of a resource.
func (s *Service) LogChange(userID uint, action, resourceType string, resourceID uint, err error) {
	entry := &entities.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   &resourceID,
		Severity:     entities.AuditSeverityInfo,
		Outcome:      entities.AuditOutcomeSuccess,
	}

	if err != nil {
		entry.Severity = entities.AuditSeverityError
		entry.Outcome = entities.AuditOutcomeFailed
		entry.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(entry)
}

// GetLogs retrieves paginated audit entries.
func (s *Service) GetLogs(filter audit.Filter, limit, offset int) ([]entities.AuditLog, int64, error) {
	return s.repo.GetLogs(filter, limit, offset)
}

// DeleteOldEntries removes entries older than the specified duration.
func (s *Service) DeleteOldEntries(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEntries(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
