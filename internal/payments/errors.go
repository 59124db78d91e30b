package payments

import "errors"

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrDuplicatePayment     = errors.New("a payment already exists for this booking")
	ErrInvalidBookingState  = errors.New("booking is not in a payable state")
	ErrAmountMismatch       = errors.New("payment amount does not match the booking total")
	ErrUnknownMethod        = errors.New("unknown payment method")
	ErrAlreadyResolved      = errors.New("payment has already been resolved")
	ErrNotBookingOwner      = errors.New("booking belongs to a different user")
	ErrNotRefundable        = errors.New("payment is not refundable")
	ErrInvalidRefundAmount  = errors.New("refund amount must be positive")
	ErrRefundExceedsPayment = errors.New("refund amount exceeds the original payment")
)
