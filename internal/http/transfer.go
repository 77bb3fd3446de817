package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookmarks/internal/audit"
	"github.com/mrlokans/bookmarks/internal/transfer"
)

// TransferController serves CSV import and export for bookmarks and tags.
type TransferController struct {
	service  *transfer.Service
	auditSvc *audit.Service
}

func NewTransferController(service *transfer.Service, auditSvc *audit.Service) *TransferController {
	return &TransferController{
		service:  service,
		auditSvc: auditSvc,
	}
}

type importRequest struct {
	CSVData string `json:"csv_data" binding:"required"`
	Mode    string `json:"mode"`
	Preview bool   `json:"preview"`
}

func (t *TransferController) parseImportRequest(c *gin.Context) (string, transfer.Options, bool) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "csv_data is required")
		return "", transfer.Options{}, false
	}

	mode := transfer.Mode(req.Mode)
	if mode == "" {
		mode = transfer.ModeSkip
	}

	return req.CSVData, transfer.Options{Preview: req.Preview, Mode: mode}, true
}

// ImportBookmarks handles POST /api/bookmarks/import.
func (t *TransferController) ImportBookmarks(c *gin.Context) {
	userID := GetUserID(c)

	csvData, opts, ok := t.parseImportRequest(c)
	if !ok {
		return
	}

	result, err := t.service.ImportBookmarks(userID, csvData, opts)
	if err != nil {
		if errors.Is(err, transfer.ErrInvalidMode) || errors.Is(err, transfer.ErrEmptyCSV) {
			respondBadRequest(c, err.Error())
			return
		}
		t.auditSvc.LogImport(userID, "bookmark", 0, 0, 0, 0, err)
		respondInternalError(c, err, "import bookmarks")
		return
	}

	if !opts.Preview {
		t.auditSvc.LogImport(userID, "bookmark", result.Imported, result.Updated, result.Skipped, len(result.Errors), nil)
	}
	c.JSON(http.StatusOK, result)
}

// ImportTags handles POST /api/tags/import.
func (t *TransferController) ImportTags(c *gin.Context) {
	userID := GetUserID(c)

	csvData, opts, ok := t.parseImportRequest(c)
	if !ok {
		return
	}

	result, err := t.service.ImportTags(userID, csvData, opts)
	if err != nil {
		if errors.Is(err, transfer.ErrInvalidMode) || errors.Is(err, transfer.ErrEmptyCSV) {
			respondBadRequest(c, err.Error())
			return
		}
		t.auditSvc.LogImport(userID, "tag", 0, 0, 0, 0, err)
		respondInternalError(c, err, "import tags")
		return
	}

	if !opts.Preview {
		t.auditSvc.LogImport(userID, "tag", result.Imported, result.Updated, result.Skipped, len(result.Errors), nil)
	}
	c.JSON(http.StatusOK, result)
}

// ExportBookmarks handles GET /api/bookmarks/export.
func (t *TransferController) ExportBookmarks(c *gin.Context) {
	userID := GetUserID(c)

	csvData, err := t.service.ExportBookmarks(userID)
	if err != nil {
		t.auditSvc.LogExport(userID, "bookmark", 0, err)
		respondInternalError(c, err, "export bookmarks")
		return
	}

	t.auditSvc.LogExport(userID, "bookmark", csvRowCount(csvData), nil)
	writeCSVAttachment(c, "bookmarks.csv", csvData)
}

// ExportTags handles GET /api/tags/export.
func (t *TransferController) ExportTags(c *gin.Context) {
	userID := GetUserID(c)

	csvData, err := t.service.ExportTags(userID)
	if err != nil {
		t.auditSvc.LogExport(userID, "tag", 0, err)
		respondInternalError(c, err, "export tags")
		return
	}

	t.auditSvc.LogExport(userID, "tag", csvRowCount(csvData), nil)
	writeCSVAttachment(c, "tags.csv", csvData)
}

func writeCSVAttachment(c *gin.Context, filename, data string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(data))
}

// csvRowCount counts data rows, excluding the header line.
func csvRowCount(data string) int {
	lines := strings.Count(strings.TrimSpace(data), "\n")
	if lines < 0 {
		return 0
	}
	return lines
}
