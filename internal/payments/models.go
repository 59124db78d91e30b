package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Method is the payment instrument
type Method string

const (
	MethodCard       Method = "CARD"
	MethodUPI        Method = "UPI"
	MethodNetBanking Method = "NET_BANKING"
	MethodWallet     Method = "WALLET"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodCard, MethodUPI, MethodNetBanking, MethodWallet:
		return true
	}
	return false
}

// Payment is one ledger entry against a booking. A booking carries at
// most one non-refund payment; refunds are separate rows with a negated
// amount so the original charge stays auditable.
type Payment struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TransactionID   string          `gorm:"uniqueIndex;not null;size:40" json:"transaction_id"`
	BookingID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"booking_id"`
	Amount          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Method          Method          `gorm:"type:varchar(20);not null;check:method IN ('CARD', 'UPI', 'NET_BANKING', 'WALLET')" json:"method"`
	Status          Status          `gorm:"type:varchar(20);not null;check:status IN ('PENDING', 'SUCCESS', 'FAILED', 'REFUNDED')" json:"status"`
	GatewayResponse string          `gorm:"type:text" json:"gateway_response"`
	IsRefund        bool            `gorm:"not null;default:false" json:"is_refund"`
	ProcessedAt     *time.Time      `json:"processed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// MethodDetails carries the instrument-specific fields; which ones are
// required depends on the method.
type MethodDetails struct {
	CardNumber string `json:"card_number,omitempty"`
	CardExpiry string `json:"card_expiry,omitempty" binding:"omitempty,cardexpiry"`
	CardCVV    string `json:"card_cvv,omitempty"`
	UpiID      string `json:"upi_id,omitempty"`
	BankCode   string `json:"bank_code,omitempty"`
	WalletID   string `json:"wallet_id,omitempty"`
}

// InitiatePaymentRequest is the inbound shape for starting a payment
type InitiatePaymentRequest struct {
	BookingID string        `json:"booking_id" binding:"required,uuid"`
	Method    Method        `json:"method" binding:"required,oneof=CARD UPI NET_BANKING WALLET"`
	Amount    string        `json:"amount" binding:"required"`
	Details   MethodDetails `json:"details"`
}

// PaymentResponse is the wire representation of a payment
type PaymentResponse struct {
	ID              uuid.UUID  `json:"id"`
	TransactionID   string     `json:"transaction_id"`
	BookingID       uuid.UUID  `json:"booking_id"`
	Amount          string     `json:"amount"`
	Method          Method     `json:"method"`
	Status          Status     `json:"status"`
	GatewayResponse string     `json:"gateway_response,omitempty"`
	IsRefund        bool       `json:"is_refund"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToResponse converts a Payment to its response shape
func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		TransactionID:   p.TransactionID,
		BookingID:       p.BookingID,
		Amount:          p.Amount.StringFixed(2),
		Method:          p.Method,
		Status:          p.Status,
		GatewayResponse: p.GatewayResponse,
		IsRefund:        p.IsRefund,
		ProcessedAt:     p.ProcessedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
