package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"prefslots/internal/models"
	"prefslots/internal/service"

	"github.com/gin-gonic/gin"
)

// ProjectHandler places coordinates on a prefecture layout
type ProjectHandler struct {
	service ProjectionService
}

// ProjectionService interface for dependency injection
type ProjectionService interface {
	Project(context.Context, string, float64, float64) (*models.Position, error)
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(svc ProjectionService) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// Project handles GET /project requests
//
//	@Summary	Place a coordinate on a prefecture layout
//	@Tags		project
//	@Produce	json
//	@Param		prefecture	query		string	true	"Prefecture name"
//	@Param		lat			query		number	true	"Latitude"
//	@Param		lng			query		number	true	"Longitude"
//	@Success	200			{object}	models.Position
//	@Failure	400			{object}	map[string]string
//	@Failure	404			{object}	map[string]string
//	@Failure	500			{object}	map[string]string
//	@Router		/project [get]
func (h *ProjectHandler) Project(c *gin.Context) {
	prefecture := c.Query("prefecture")
	latStr := c.Query("lat")
	lngStr := c.Query("lng")

	if prefecture == "" || latStr == "" || lngStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'prefecture', 'lat' and 'lng'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	position, err := h.service.Project(c.Request.Context(), prefecture, lat, lng)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCoordinate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		case errors.Is(err, service.ErrInvalidPrefecture):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prefecture"})
		case errors.Is(err, models.ErrPrefectureNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "prefecture not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, position)
}
