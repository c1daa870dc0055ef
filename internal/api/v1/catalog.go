package v1

import (
	"net/http"

	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/service"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *logger.Logger
}

func NewCatalogHandler(catalogService service.CatalogService, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// @Summary Get event catalog
// @Description Returns the ticket types, add-ons and custom fields of an event
// @Tags Catalog
// @Produce json
// @Param route path string true "Event route"
// @Param locale query string false "Locale for formatted prices"
// @Success 200 {object} dto.CatalogResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /events/{route}/catalog [get]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	resp, err := h.catalogService.GetCatalogResponse(c.Request.Context(), c.Param("route"), c.Query("locale"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Refresh event catalog
// @Description Reloads the cached catalog of an event from the database
// @Tags Catalog
// @Produce json
// @Param route path string true "Event route"
// @Success 200 {object} dto.CatalogResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /events/{route}/catalog/refresh [post]
func (h *CatalogHandler) RefreshCatalog(c *gin.Context) {
	ctx := c.Request.Context()
	route := c.Param("route")

	if _, err := h.catalogService.RefreshCatalog(ctx, route); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.catalogService.GetCatalogResponse(ctx, route, c.Query("locale"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
