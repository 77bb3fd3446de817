package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookmarks/internal/audit"
	auditdb "github.com/mrlokans/bookmarks/internal/database/audit"
	"github.com/mrlokans/bookmarks/internal/entities"
	"github.com/mrlokans/bookmarks/internal/transfer"
)

// AuditLogsController serves the audit trail. Regular users see their own
// entries; the admin endpoints span all users.
type AuditLogsController struct {
	service *audit.Service
}

func NewAuditLogsController(service *audit.Service) *AuditLogsController {
	return &AuditLogsController{service: service}
}

func parseAuditFilter(c *gin.Context) auditdb.Filter {
	filter := auditdb.Filter{
		Action:   c.Query("action"),
		Severity: entities.AuditSeverity(c.Query("severity")),
	}
	if since := c.Query("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			filter.Since = t
		}
	}
	if until := c.Query("until"); until != "" {
		if t, err := time.Parse(time.RFC3339, until); err == nil {
			filter.Until = t
		}
	}
	return filter
}

func (a *AuditLogsController) respondLogs(c *gin.Context, filter auditdb.Filter) {
	page, limit := parsePagination(c, 50)

	logs, total, err := a.service.GetLogs(filter, limit, (page-1)*limit)
	if err != nil {
		respondInternalError(c, err, "list audit logs")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       logs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	})
}

// GetLogs handles GET /api/audit-logs, scoped to the calling user.
func (a *AuditLogsController) GetLogs(c *gin.Context) {
	filter := parseAuditFilter(c)
	filter.UserID = GetUserID(c)
	a.respondLogs(c, filter)
}

// GetAllLogs handles GET /api/admin/audit-logs. Admin only; a user_id query
// parameter narrows the listing to one user.
func (a *AuditLogsController) GetAllLogs(c *gin.Context) {
	filter := parseAuditFilter(c)
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		if userID, err := strconv.ParseUint(userIDStr, 10, 32); err == nil {
			filter.UserID = uint(userID)
		}
	}
	a.respondLogs(c, filter)
}

// ExportLogs handles GET /api/admin/audit-logs/export as CSV. Admin only.
func (a *AuditLogsController) ExportLogs(c *gin.Context) {
	filter := parseAuditFilter(c)

	// Large fixed page: log exports are an operator affordance, not a data pipeline
	logs, _, err := a.service.GetLogs(filter, 10000, 0)
	if err != nil {
		respondInternalError(c, err, "export audit logs")
		return
	}

	var b strings.Builder
	b.WriteString("id,user_id,action,resource_type,severity,outcome,ip_address,created_at\n")
	for _, entry := range logs {
		fields := []string{
			strconv.FormatUint(uint64(entry.ID), 10),
			strconv.FormatUint(uint64(entry.UserID), 10),
			transfer.EscapeCSV(entry.Action),
			transfer.EscapeCSV(entry.ResourceType),
			string(entry.Severity),
			string(entry.Outcome),
			transfer.EscapeCSV(entry.IPAddress),
			entry.CreatedAt.UTC().Format(time.RFC3339),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}

	writeCSVAttachment(c, "audit-logs.csv", b.String())
}
