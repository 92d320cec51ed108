package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dodwmd/mediahost/internal/middleware"
	"github.com/dodwmd/mediahost/internal/service"
	appErrors "github.com/dodwmd/mediahost/pkg/errors"
	"github.com/dodwmd/mediahost/pkg/response"
)

// SearchHandler exposes catalog search endpoints.
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler constructs SearchHandler.
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search godoc
// @Summary Search published events
// @Tags Search
// @Produce json
// @Param q query string false "Free-text term matched against title and description"
// @Param start_date query string false "Earliest start time (YYYY-MM-DD or RFC3339), inclusive"
// @Param end_date query string false "Latest end time (YYYY-MM-DD or RFC3339), inclusive"
// @Param min_price query number false "Minimum price, inclusive"
// @Param max_price query number false "Maximum price, inclusive"
// @Param categories query string false "Comma-separated category ids (ANY-match)"
// @Param tags query string false "Comma-separated tag ids (ANY-match)"
// @Param provider query string false "Provider name substring"
// @Param sort query string false "Sort field: start_time, price, avg_rating, rating_count"
// @Param order query string false "Sort direction: asc or desc"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /events/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	req := service.SearchRequest{
		Query:     strings.TrimSpace(c.Query("q")),
		Provider:  strings.TrimSpace(c.Query("provider")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}

	if t, ok := parseDateParam(c, "start_date"); !ok {
		return
	} else if t != nil {
		req.StartDate = t
	}
	if t, ok := parseDateParam(c, "end_date"); !ok {
		return
	} else if t != nil {
		req.EndDate = t
	}
	if f, ok := parseFloatParam(c, "min_price"); !ok {
		return
	} else if f != nil {
		req.MinPrice = f
	}
	if f, ok := parseFloatParam(c, "max_price"); !ok {
		return
	} else if f != nil {
		req.MaxPrice = f
	}
	if ids, ok := parseIDListParam(c, "categories"); !ok {
		return
	} else {
		req.CategoryIDs = ids
	}
	if ids, ok := parseIDListParam(c, "tags"); !ok {
		return
	} else {
		req.TagIDs = ids
	}
	if n, ok := parseIntParam(c, "page"); !ok {
		return
	} else {
		req.Page = n
	}
	if n, ok := parseIntParam(c, "per_page"); !ok {
		return
	} else {
		req.PerPage = n
	}

	items, pagination, substituted, err := h.search.Search(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if substituted {
		middleware.SetMeta(c, "sort_substituted", true)
	}
	response.JSON(c, http.StatusOK, items, pagination, middleware.ExtractMeta(c))
}

func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, name+" must be YYYY-MM-DD or RFC3339"))
	return nil, false
}

func parseFloatParam(c *gin.Context, name string) (*float64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, name+" must be a number"))
		return nil, false
	}
	return &f, true
}

func parseIntParam(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, name+" must be an integer"))
		return 0, false
	}
	return n, true
}

func parseIDListParam(c *gin.Context, name string) ([]int64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		id, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, name+" must be a comma-separated list of ids"))
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
