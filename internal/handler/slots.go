package handler

import (
	"context"
	"errors"
	"net/http"

	"prefslots/internal/models"
	"prefslots/internal/service"

	"github.com/gin-gonic/gin"
)

// SlotHandler serves the published slot table
type SlotHandler struct {
	service SlotService
}

// SlotService interface for dependency injection
type SlotService interface {
	Table(context.Context) (map[string][]models.Slot, error)
	Slots(context.Context, string) ([]models.Slot, error)
}

// NewSlotHandler creates a new slot handler
func NewSlotHandler(svc SlotService) *SlotHandler {
	return &SlotHandler{service: svc}
}

// Table handles GET /slots requests
//
//	@Summary	List every prefecture layout
//	@Tags		slots
//	@Produce	json
//	@Success	200	{object}	map[string][]models.Slot
//	@Failure	500	{object}	map[string]string
//	@Router		/slots [get]
func (h *SlotHandler) Table(c *gin.Context) {
	table, err := h.service.Table(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, table)
}

// Slots handles GET /slots/:prefecture requests
//
//	@Summary	Slots of one prefecture
//	@Tags		slots
//	@Produce	json
//	@Param		prefecture	path		string	true	"Prefecture name"
//	@Success	200			{array}		models.Slot
//	@Failure	400			{object}	map[string]string
//	@Failure	404			{object}	map[string]string
//	@Failure	500			{object}	map[string]string
//	@Router		/slots/{prefecture} [get]
func (h *SlotHandler) Slots(c *gin.Context) {
	prefecture := c.Param("prefecture")
	if prefecture == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing prefecture"})
		return
	}

	slots, err := h.service.Slots(c.Request.Context(), prefecture)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPrefecture):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prefecture"})
		case errors.Is(err, models.ErrPrefectureNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "prefecture not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, slots)
}
