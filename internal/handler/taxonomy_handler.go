package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dodwmd/mediahost/internal/models"
	"github.com/dodwmd/mediahost/pkg/response"
)

type taxonomyService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Tags(ctx context.Context) ([]models.Tag, error)
	Providers(ctx context.Context) ([]models.Provider, error)
}

// TaxonomyHandler exposes the search reference data endpoints.
type TaxonomyHandler struct {
	taxonomy taxonomyService
}

// NewTaxonomyHandler constructs TaxonomyHandler.
func NewTaxonomyHandler(taxonomy taxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: taxonomy}
}

// Categories godoc
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/categories [get]
func (h *TaxonomyHandler) Categories(c *gin.Context) {
	categories, err := h.taxonomy.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// Tags godoc
// @Summary List tags
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/tags [get]
func (h *TaxonomyHandler) Tags(c *gin.Context) {
	tags, err := h.taxonomy.Tags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tags, nil)
}

// Providers godoc
// @Summary List content providers with published events
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/providers [get]
func (h *TaxonomyHandler) Providers(c *gin.Context) {
	providers, err := h.taxonomy.Providers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, providers, nil)
}
