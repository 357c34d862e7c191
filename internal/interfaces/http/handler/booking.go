package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	bookingapp "github.com/vetclinic/backend/internal/application/booking"
)

// FingerprintHeader carries the device fingerprint when the form omits it
const FingerprintHeader = "X-Device-Fingerprint"

// BookingHandler serves the public appointment form
type BookingHandler struct {
	BaseHandler
	booking *bookingapp.Service
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(booking *bookingapp.Service) *BookingHandler {
	return &BookingHandler{booking: booking}
}

// Book godoc
// @Summary      Book an appointment
// @Description  Public form. Creates the client and patient when new. Repeated bookings from one IP address or device are refused with 429.
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body bookingapp.BookingRequest true "Request body"
// @Success      201 {object} dto.Response{data=bookingapp.BookingResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /public/book-appointment [post]
func (h *BookingHandler) Book(c *gin.Context) {
	var req bookingapp.BookingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.IPAddress = c.ClientIP()
	if strings.TrimSpace(req.Fingerprint) == "" {
		req.Fingerprint = c.GetHeader(FingerprintHeader)
	}

	result, err := h.booking.Book(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
