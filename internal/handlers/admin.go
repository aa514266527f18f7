package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AdminListDetections lists all detections with their derived validity, the
// review queue for epidemiological staff.
func (h HandlerSet) AdminListDetections(c *gin.Context) {
	limit, offset := pagination(c)

	views, err := h.detectionService.List(c.Request.Context(), limit, offset, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]map[string]interface{}, 0, len(views))
	for _, view := range views {
		d := view.Detection
		items = append(items, map[string]interface{}{
			"id":            d.ID,
			"reporterId":    d.ReporterID,
			"siteType":      d.SiteType,
			"riskLevel":     d.RiskLevel,
			"confidence":    d.Confidence,
			"isValidated":   d.IsValidated,
			"status":        d.Status,
			"duplicateOfId": d.DuplicateOfID,
			"sizeBytes":     d.SizeBytes,
			"detectedAt":    d.DetectedAt,
			"expiresAt":     view.Validity.ExpiresAt,
			"validity":      view.Validity.Status,
			"remainingDays": view.Validity.RemainingDays,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
