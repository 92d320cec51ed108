package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dodwmd/mediahost/internal/models"
	appErrors "github.com/dodwmd/mediahost/pkg/errors"
	"github.com/dodwmd/mediahost/pkg/response"
)

type recommendationService interface {
	Recommend(ctx context.Context, userID int64, limit int) ([]models.Event, error)
	Similar(ctx context.Context, eventID int64, limit int) ([]models.Event, error)
}

// RecommendationHandler exposes personalization endpoints.
type RecommendationHandler struct {
	recommendations recommendationService
}

// NewRecommendationHandler constructs RecommendationHandler.
func NewRecommendationHandler(recommendations recommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// Recommend godoc
// @Summary Recommend events for a user
// @Tags Recommendations
// @Produce json
// @Param id path int true "User ID"
// @Param limit query int false "Maximum number of events"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/recommendations [get]
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	userID, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	limit, ok := parseIntParam(c, "limit")
	if !ok {
		return
	}

	events, err := h.recommendations.Recommend(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Similar godoc
// @Summary Events similar to an event
// @Tags Recommendations
// @Produce json
// @Param id path int true "Event ID"
// @Param limit query int false "Maximum number of events"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/similar [get]
func (h *RecommendationHandler) Similar(c *gin.Context) {
	eventID, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	limit, ok := parseIntParam(c, "limit")
	if !ok {
		return
	}

	events, err := h.recommendations.Similar(c.Request.Context(), eventID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

func parsePathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}
