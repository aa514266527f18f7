package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"larvatrack/internal/lifecycle"
	"larvatrack/internal/models"
	"larvatrack/internal/repository"
	"larvatrack/internal/service"
)

type detectionResponse struct {
	ID            string   `json:"id"`
	ReporterID    string   `json:"reporterId"`
	ImageURL      string   `json:"imageUrl"`
	DuplicateOfID *string  `json:"duplicateOfId,omitempty"`
	SiteType      string   `json:"siteType"`
	RiskLevel     string   `json:"riskLevel"`
	Weather       *string  `json:"weather,omitempty"`
	Confidence    float64  `json:"confidence"`
	IsValidated   bool     `json:"isValidated"`
	Status        string   `json:"status"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`

	DetectedAt time.Time                    `json:"detectedAt"`
	Validity   lifecycle.ValidityAssessment `json:"validity"`
}

func toDetectionResponse(view service.DetectionView) detectionResponse {
	d := view.Detection
	resp := detectionResponse{
		ID:            d.ID,
		ReporterID:    d.ReporterID,
		ImageURL:      d.ImageURL,
		DuplicateOfID: d.DuplicateOfID,
		SiteType:      string(d.SiteType),
		RiskLevel:     string(d.RiskLevel),
		Confidence:    d.Confidence,
		IsValidated:   d.IsValidated,
		Status:        string(d.Status),
		Latitude:      d.Latitude,
		Longitude:     d.Longitude,
		DetectedAt:    d.DetectedAt,
		Validity:      view.Validity,
	}
	if d.Weather != nil {
		w := string(*d.Weather)
		resp.Weather = &w
	}
	return resp
}

func (h HandlerSet) IngestDetection(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo_required"})
		return
	}
	defer file.Close()

	confidence, err := strconv.ParseFloat(c.PostForm("confidence"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confidence_required"})
		return
	}

	input := service.IngestInput{
		Reporter:    user,
		File:        file,
		Header:      header,
		SiteType:    lifecycle.BreedingSiteType(c.PostForm("siteType")),
		RiskLevel:   lifecycle.RiskLevel(c.DefaultPostForm("riskLevel", string(lifecycle.RiskMedium))),
		Confidence:  confidence,
		CameraMake:  c.PostForm("cameraMake"),
		CameraModel: c.PostForm("cameraModel"),
	}

	if w := c.PostForm("weather"); w != "" {
		weather := lifecycle.WeatherCondition(w)
		input.Weather = &weather
	}
	if lat, err := strconv.ParseFloat(c.PostForm("latitude"), 64); err == nil {
		if lon, err := strconv.ParseFloat(c.PostForm("longitude"), 64); err == nil {
			input.Latitude = &lat
			input.Longitude = &lon
		}
	}
	if detected := c.PostForm("detectedAt"); detected != "" {
		if parsed, err := time.Parse(time.RFC3339, detected); err == nil {
			input.DetectedAt = parsed
		}
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, lifecycle.ErrConfidenceOutOfRange) || errors.Is(err, lifecycle.ErrUnknownRiskLevel) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("ingest failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.detectionService.Get(c.Request.Context(), result.Detection.ID, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"detection": toDetectionResponse(view),
		"duplicate": result.Duplicate,
	})
}

func (h HandlerSet) GetDetection(c *gin.Context) {
	view, err := h.detectionService.Get(c.Request.Context(), c.Param("id"), time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrDetectionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "detection_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detection": toDetectionResponse(view)})
}

func (h HandlerSet) ListDetections(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	now := time.Now().UTC()

	var (
		views []service.DetectionView
		err   error
	)
	if user.Role == models.UserRoleReporter {
		views, err = h.detectionService.ListByReporter(c.Request.Context(), user.ID, limit, offset, now)
	} else {
		views, err = h.detectionService.List(c.Request.Context(), limit, offset, now)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]detectionResponse, 0, len(views))
	for _, view := range views {
		items = append(items, toDetectionResponse(view))
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) ValidateDetection(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.detectionService.Validate(c.Request.Context(), c.Param("id"), user.ID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrDetectionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "detection_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detection": toDetectionResponse(view)})
}

func (h HandlerSet) ResolveDetection(c *gin.Context) {
	if err := h.detectionService.Resolve(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrDetectionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "detection_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}
	return limit, offset
}
