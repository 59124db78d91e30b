package refunds

import (
	"errors"
	"net/http"

	"eventhub/internal/payments"
	"eventhub/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RefundRequest is the inbound shape for issuing a refund
type RefundRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Reason        string `json:"reason" binding:"required"`
}

// Controller handles HTTP requests for refunds
type Controller struct {
	coordinator *Coordinator
}

// NewController creates a new refund controller
func NewController(coordinator *Coordinator) *Controller {
	return &Controller{coordinator: coordinator}
}

// Create handles POST /refunds (admin only)
func (ctrl *Controller) Create(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid refund amount", err.Error())
		return
	}

	refund, err := ctrl.coordinator.Refund(c.Request.Context(), req.TransactionID, amount, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrPaymentNotFound):
			response.Error(c, http.StatusNotFound, "Payment not found", nil)
		case errors.Is(err, payments.ErrNotRefundable):
			response.Error(c, http.StatusConflict, "Payment is not refundable", err.Error())
		case errors.Is(err, payments.ErrRefundExceedsPayment):
			response.Error(c, http.StatusUnprocessableEntity, "Refund amount exceeds the original payment", err.Error())
		case errors.Is(err, payments.ErrInvalidRefundAmount):
			response.Error(c, http.StatusBadRequest, "Refund amount must be positive", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to process refund", err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, "Refund processed", refund.ToResponse())
}
