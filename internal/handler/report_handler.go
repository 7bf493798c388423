package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"insureport/internal/domain"
	"insureport/internal/report"
)

// ReportHandler renders validated records as downloadable spreadsheets.
type ReportHandler struct{}

func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

// Export handles POST /api/v1/reports/export. The body is a ValidatedRecord;
// the response streams an .xlsx workbook.
func (h *ReportHandler) Export(c *gin.Context) {
	var rec domain.ValidatedRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body is not a valid record")
		return
	}

	filename := fmt.Sprintf("coverage-report-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	if err := report.Write(c.Writer, &rec); err != nil {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] EXPORT_FAILED: %v", requestID, err)
		c.Header("Content-Disposition", "")
		RespondError(c, http.StatusInternalServerError, "EXPORT_FAILED", "report rendering failed")
		return
	}
}
