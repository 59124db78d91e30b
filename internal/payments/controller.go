package payments

import (
	"errors"
	"net/http"

	"eventhub/internal/bookings"
	"eventhub/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller handles HTTP requests for payments
type Controller struct {
	service Service
}

// NewController creates a new payment controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Initiate handles POST /payments
func (ctrl *Controller) Initiate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	payment, err := ctrl.service.Initiate(c.Request.Context(), userID, req)
	if err != nil {
		status, msg := initiateErrorStatus(err)
		response.Error(c, status, msg, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Payment processed", payment.ToResponse())
}

// Get handles GET /payments/:transactionId
func (ctrl *Controller) Get(c *gin.Context) {
	payment, err := ctrl.service.GetByTransactionID(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			response.Error(c, http.StatusNotFound, "Payment not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch payment", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Payment fetched successfully", payment.ToResponse())
}

// Verify handles GET /payments/:transactionId/verify
func (ctrl *Controller) Verify(c *gin.Context) {
	verified, err := ctrl.service.Verify(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to verify payment", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Payment verification result", gin.H{"verified": verified})
}

// ListByBooking handles GET /payments/booking/:bookingId
func (ctrl *Controller) ListByBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", err.Error())
		return
	}

	payments, err := ctrl.service.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch payments", err.Error())
		return
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	response.Success(c, http.StatusOK, "Payments fetched successfully", responses)
}

func initiateErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		return http.StatusNotFound, "Booking not found"
	case errors.Is(err, ErrNotBookingOwner):
		return http.StatusForbidden, "Booking belongs to a different user"
	case errors.Is(err, ErrDuplicatePayment):
		return http.StatusConflict, "A payment already exists for this booking"
	case errors.Is(err, ErrInvalidBookingState):
		return http.StatusConflict, "Booking is not awaiting payment"
	case errors.Is(err, ErrAmountMismatch):
		return http.StatusUnprocessableEntity, "Amount does not match the booking total"
	case errors.Is(err, ErrUnknownMethod):
		return http.StatusBadRequest, "Unknown payment method"
	default:
		return http.StatusInternalServerError, "Failed to process payment"
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
