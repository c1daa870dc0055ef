package v1

import (
	"net/http"

	"github.com/buzzhq/buzz/internal/api/dto"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/service"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService service.BookingService
	logger         *logger.Logger
}

func NewBookingHandler(bookingService service.BookingService, logger *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// @Summary Submit a booking
// @Description Books the session's draft. The server reprices the draft and rejects the booking with 409 when the total differs from expected_total.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param route path string true "Event route"
// @Param X-Session-ID header string false "Session ID"
// @Param booking body dto.CreateBookingRequest true "Booking request"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /events/{route}/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.bookingService.Submit(c.Request.Context(), c.Param("route"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	resp, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
