package v1

import (
	"net/http"

	"github.com/buzzhq/buzz/internal/api/dto"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/service"
	"github.com/gin-gonic/gin"
)

// DraftHandler serves the booking draft of the caller's session. The session
// comes from the X-Session-ID header.
type DraftHandler struct {
	draftService service.DraftService
	logger       *logger.Logger
}

func NewDraftHandler(draftService service.DraftService, logger *logger.Logger) *DraftHandler {
	return &DraftHandler{
		draftService: draftService,
		logger:       logger,
	}
}

// @Summary Get booking draft
// @Description Returns the session's draft for an event with its current breakdown
// @Tags Drafts
// @Produce json
// @Param route path string true "Event route"
// @Param locale query string false "Locale for formatted prices"
// @Param X-Session-ID header string false "Session ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /events/{route}/draft [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	resp, err := h.draftService.GetDraft(c.Request.Context(), c.Param("route"), c.Query("locale"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Apply a draft event
// @Description Applies one action to the session's draft and reprices it. The draft is only stored when it prices.
// @Tags Drafts
// @Accept json
// @Produce json
// @Param route path string true "Event route"
// @Param X-Session-ID header string false "Session ID"
// @Param event body dto.DraftEventRequest true "Draft event"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /events/{route}/draft/events [post]
func (h *DraftHandler) ApplyEvent(c *gin.Context) {
	var req dto.DraftEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.draftService.ApplyEvent(c.Request.Context(), c.Param("route"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Clear booking draft
// @Tags Drafts
// @Param route path string true "Event route"
// @Param X-Session-ID header string false "Session ID"
// @Success 204
// @Failure 400 {object} ierr.ErrorResponse
// @Router /events/{route}/draft [delete]
func (h *DraftHandler) ClearDraft(c *gin.Context) {
	if err := h.draftService.ClearDraft(c.Request.Context(), c.Param("route")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
