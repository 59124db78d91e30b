package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking is one user's claim on seats for one event. Seats are already
// reserved by the time the row exists; the status tracks the lifecycle
// from PENDING through payment to a terminal state.
type Booking struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TicketID        string          `gorm:"uniqueIndex;not null;size:40" json:"ticket_id"`
	EventID         uuid.UUID       `gorm:"type:uuid;index;not null" json:"event_id"`
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	NumberOfTickets int             `gorm:"not null;check:number_of_tickets >= 1" json:"number_of_tickets"`
	ServiceFee      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"service_fee"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Status          Status          `gorm:"type:varchar(20);not null;check:status IN ('PENDING', 'CONFIRMED', 'CANCELLED', 'COMPLETED')" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// IsCancelled reports whether the booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CreateBookingRequest is the inbound shape for creating a booking
type CreateBookingRequest struct {
	EventID         string `json:"event_id" binding:"required,uuid"`
	NumberOfTickets int    `json:"number_of_tickets" binding:"required,min=1"`
}

// BookingResponse is the wire representation of a booking
type BookingResponse struct {
	ID              string     `json:"id"`
	TicketID        string     `json:"ticket_id"`
	EventID         string     `json:"event_id"`
	UserID          string     `json:"user_id"`
	NumberOfTickets int        `json:"number_of_tickets"`
	ServiceFee      string     `json:"service_fee"`
	TotalAmount     string     `json:"total_amount"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

// ToResponse converts the model to its wire representation
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		TicketID:        b.TicketID,
		EventID:         b.EventID.String(),
		UserID:          b.UserID.String(),
		NumberOfTickets: b.NumberOfTickets,
		ServiceFee:      b.ServiceFee.StringFixed(2),
		TotalAmount:     b.TotalAmount.StringFixed(2),
		Status:          b.Status.String(),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		CancelledAt:     b.CancelledAt,
	}
}
