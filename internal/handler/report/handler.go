package report

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/ledger-api/internal/handler"
	"github.com/jwalitptl/ledger-api/internal/service/backup"
	"github.com/jwalitptl/ledger-api/internal/service/report"
	"github.com/jwalitptl/ledger-api/pkg/dateutil"
)

// Import payloads are whole-collection backups; photos inline as data
// URLs, so allow a generous body.
const maxImportBytes = 32 << 20

type Handler struct {
	reports *report.Service
	backups *backup.Service
}

func NewHandler(reports *report.Service, backups *backup.Service) *Handler {
	return &Handler{reports: reports, backups: backups}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/reports", h.BuildReport)
	r.GET("/reports/csv", h.ExportCSV)
	r.GET("/backup", h.ExportJSON)
	r.POST("/backup", h.ImportJSON)
}

func (h *Handler) BuildReport(c *gin.Context) {
	from, to, ok := h.window(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.reports.Build(c.Request.Context(), from, to)))
}

func (h *Handler) ExportCSV(c *gin.Context) {
	from, to, ok := h.window(c)
	if !ok {
		return
	}

	data, err := h.backups.ExportCSV(c.Request.Context(), from, to)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="clinic-report.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *Handler) ExportJSON(c *gin.Context) {
	data, err := h.backups.ExportJSON(c.Request.Context())
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="clinic-backup.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

func (h *Handler) ImportJSON(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read import payload"))
		return
	}

	if err := h.backups.ImportJSON(c.Request.Context(), data); err != nil {
		handler.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// window reads the optional from/to query bounds, rejecting malformed
// dates before they reach the comparison logic.
func (h *Handler) window(c *gin.Context) (string, string, bool) {
	from := c.Query("from")
	to := c.Query("to")
	if from != "" && !dateutil.Valid(from) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid from date, want YYYY-MM-DD"))
		return "", "", false
	}
	if to != "" && !dateutil.Valid(to) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid to date, want YYYY-MM-DD"))
		return "", "", false
	}
	return from, to, true
}
