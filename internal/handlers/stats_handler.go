package handlers

import (
	"bytes"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/apperr"
	"taskmanager/internal/pdf"
	"taskmanager/internal/services"
)

type StatsHandler struct {
	service services.TaskService
	report  pdf.Generator
	now     func() time.Time
}

func NewStatsHandler(service services.TaskService, report pdf.Generator) *StatsHandler {
	return &StatsHandler{service: service, report: report, now: time.Now}
}

// @Summary      Task statistics
// @Description  Total, per-status and overdue task counts. Administrators only.
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.TaskStats
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /tasks/stats/ [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	userID := caller(c).UserID

	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		log.Printf("[stats][get][err] %v", err)
		apperr.Abort(c, err)
		return
	}
	log.Printf("[stats][get][ok] userID=%d total=%d overdue=%d", userID, stats.TotalTasks, stats.OverdueTasks)
	c.JSON(http.StatusOK, stats)
}

// @Summary      Task statistics as PDF
// @Tags         Tasks
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /tasks/stats/report [get]
func (h *StatsHandler) GetReport(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		log.Printf("[stats][report][err] %v", err)
		apperr.Abort(c, err)
		return
	}

	// rendered fully before the status line goes out
	var buf bytes.Buffer
	now := h.now()
	if err := h.report.RenderStats(&buf, pdf.StatsReportData{Stats: *stats, GeneratedAt: now}); err != nil {
		log.Printf("[stats][report][err] render: %v", err)
		apperr.Abort(c, err)
		return
	}

	filename := "task_stats_" + now.UTC().Format("20060102_150405") + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
