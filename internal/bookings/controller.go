package bookings

import (
	"errors"
	"net/http"
	"strconv"

	"eventhub/internal/inventory"
	"eventhub/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller handles HTTP requests for bookings
type Controller struct {
	service Service
}

// NewController creates a new booking controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Create handles POST /bookings
func (ctrl *Controller) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := ctrl.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		status, msg := createErrorStatus(err)
		response.Error(c, status, msg, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Booking created successfully", booking.ToResponse())
}

// Get handles GET /bookings/:id
func (ctrl *Controller) Get(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", err.Error())
		return
	}

	booking, err := ctrl.service.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch booking", err.Error())
		return
	}

	if !canAccessBooking(c, booking) {
		response.Error(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	response.Success(c, http.StatusOK, "Booking fetched successfully", booking.ToResponse())
}

// GetByTicket handles GET /bookings/ticket/:ticketId
func (ctrl *Controller) GetByTicket(c *gin.Context) {
	booking, err := ctrl.service.GetByTicketID(c.Request.Context(), c.Param("ticketId"))
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch booking", err.Error())
		return
	}

	if !canAccessBooking(c, booking) {
		response.Error(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	response.Success(c, http.StatusOK, "Booking fetched successfully", booking.ToResponse())
}

// ListMine handles GET /bookings
func (ctrl *Controller) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := ctrl.service.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch bookings", err.Error())
		return
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, bookings[i].ToResponse())
	}

	response.Success(c, http.StatusOK, "Bookings fetched successfully", responses)
}

// Cancel handles POST /bookings/:id/cancel
func (ctrl *Controller) Cancel(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", err.Error())
		return
	}

	booking, err := ctrl.service.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch booking", err.Error())
		return
	}
	if !canAccessBooking(c, booking) {
		response.Error(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	if err := ctrl.service.Cancel(c.Request.Context(), bookingID); err != nil {
		switch {
		case errors.Is(err, ErrPastEvent):
			response.Error(c, http.StatusConflict, "Cannot cancel a booking for a past event", err.Error())
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusConflict, "Booking cannot be cancelled in its current state", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to cancel booking", err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, "Booking cancelled successfully", nil)
}

// Complete handles POST /bookings/:id/complete (admin only)
func (ctrl *Controller) Complete(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", err.Error())
		return
	}

	if err := ctrl.service.Complete(c.Request.Context(), bookingID); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(c, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrEventNotOver):
			response.Error(c, http.StatusConflict, "Event has not taken place yet", err.Error())
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusConflict, "Booking cannot be completed in its current state", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to complete booking", err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, "Booking completed successfully", nil)
}

func createErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrDuplicateBooking):
		return http.StatusConflict, "An active booking already exists for this event"
	case errors.Is(err, inventory.ErrEventNotFound):
		return http.StatusNotFound, "Event not found"
	case errors.Is(err, inventory.ErrEventInactive):
		return http.StatusConflict, "Event is not open for booking"
	case errors.Is(err, inventory.ErrEventPast):
		return http.StatusConflict, "Event has already taken place"
	case errors.Is(err, inventory.ErrInsufficientSeats):
		return http.StatusConflict, "Not enough seats available"
	case errors.Is(err, inventory.ErrInvalidQuantity):
		return http.StatusBadRequest, "Invalid ticket quantity"
	default:
		return http.StatusInternalServerError, "Failed to create booking"
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := raw.(uuid.UUID)
	return userID, ok
}

func canAccessBooking(c *gin.Context, booking *Booking) bool {
	if role, _ := c.Get("user_role"); role == "ADMIN" {
		return true
	}
	userID, ok := currentUserID(c)
	return ok && booking.UserID == userID
}
