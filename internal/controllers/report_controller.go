package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"recolecta/internal/latency"
	"recolecta/internal/middleware"
	"recolecta/internal/models"
	"recolecta/internal/reports"
)

// reportRows builds and filters the rows visible to the caller. Plain users
// only see their own requests.
func (h *Handler) reportRows(c *gin.Context) ([]reports.Row, bool) {
	filter, err := reports.ParseFilter(c.Query("user"), c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	requests := h.Requests.Requests()
	if middleware.RoleFrom(c) == models.RoleUser {
		uid := middleware.UserIDFrom(c)
		own := requests[:0]
		for _, r := range requests {
			if r.UserID == uid {
				own = append(own, r)
			}
		}
		requests = own
	}
	return reports.Apply(reports.Build(requests, h.Users.Users()), filter), true
}

func (h *Handler) Report(c *gin.Context) {
	rows, ok := h.reportRows(c)
	if !ok {
		return
	}
	if !h.wait(c, latency.OpReport) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":   rows,
		"totals": reports.Sum(rows),
	})
}

// ExportReport streams the filtered rows as CSV.
func (h *Handler) ExportReport(c *gin.Context) {
	rows, ok := h.reportRows(c)
	if !ok {
		return
	}
	if !h.wait(c, latency.OpReportGenerate) {
		return
	}

	filename := fmt.Sprintf("report-%s.csv", h.now().Format("20060102-150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := reports.WriteCSV(c.Writer, rows); err != nil {
		logrus.WithError(err).Error("Failed to write report export")
	}
}
