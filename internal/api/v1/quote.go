package v1

import (
	"net/http"

	"github.com/buzzhq/buzz/internal/api/dto"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/service"
	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quoteService service.QuoteService
	logger       *logger.Logger
}

func NewQuoteHandler(quoteService service.QuoteService, logger *logger.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// @Summary Quote a booking
// @Description Prices attendees, add-ons and an optional coupon without storing anything.
// @Description An inapplicable coupon is reported on the breakdown and does not fail the request.
// @Tags Quote
// @Accept json
// @Produce json
// @Param route path string true "Event route"
// @Param request body dto.QuoteRequest true "Quote request"
// @Success 200 {object} dto.BreakdownResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Failure 429 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /events/{route}/quote [post]
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.quoteService.Quote(c.Request.Context(), c.Param("route"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
