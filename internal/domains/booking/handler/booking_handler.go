package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"petcare-backend/internal/domains/booking/model"
	"petcare-backend/internal/domains/booking/service"
	"petcare-backend/internal/shared/middleware"
	"petcare-backend/internal/shared/response"
)

type BookingHandler struct {
	bookingService service.ServiceInterface
}

func NewBookingHandler(bookingService service.ServiceInterface) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	bookings := rg.Group("/booking", auth)
	bookings.POST("", h.CreateBooking)
	bookings.GET("", h.ListBookings)
	bookings.GET("/:id", h.GetBooking)
	bookings.PUT("/:id", h.UpdateBooking)
	bookings.PUT("/:id/cancel", h.CancelBooking)
}

// CreateBooking godoc
// POST /api/v1/booking
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, model.ToBookingResponse(booking))
}

// UpdateBooking godoc
// PUT /api/v1/booking/:id
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req model.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), actor, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.ToBookingResponse(booking))
}

// CancelBooking godoc
// PUT /api/v1/booking/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	id, ok := bookingID(c)
	if !ok {
		return
	}

	cancelled, err := h.bookingService.CancelBooking(c.Request.Context(), actor, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cancelled": cancelled})
}

// GetBooking godoc
// GET /api/v1/booking/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	id, ok := bookingID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if booking == nil {
		response.FromError(c, model.NewBookingNotFoundError(id))
		return
	}

	response.Success(c, http.StatusOK, model.ToBookingResponse(booking))
}

// ListBookings godoc
// GET /api/v1/booking?status=&page=&limit=
func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, fmt.Sprintf("invalid query: %v", err))
		return
	}
	req.Normalize()

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), actor, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	items := make([]model.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, model.ToBookingResponse(b))
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

func bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid booking ID")
		return uuid.Nil, false
	}
	return id, true
}
