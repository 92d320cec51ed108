package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dodwmd/mediahost/internal/models"
	"github.com/dodwmd/mediahost/pkg/response"
)

type engagementService interface {
	EventEngagement(ctx context.Context, eventID int64) (*models.EventEngagement, error)
}

// EngagementHandler exposes per-event engagement statistics.
type EngagementHandler struct {
	engagement engagementService
}

// NewEngagementHandler constructs EngagementHandler.
func NewEngagementHandler(engagement engagementService) *EngagementHandler {
	return &EngagementHandler{engagement: engagement}
}

// Engagement godoc
// @Summary Engagement snapshot for an event
// @Description Returns distinct access grants, view count, and aggregate rating for one event.
// @Tags Catalog
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/engagement [get]
func (h *EngagementHandler) Engagement(c *gin.Context) {
	eventID, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	stats, err := h.engagement.EventEngagement(c.Request.Context(), eventID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
