package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventInventory is the seat counter for one scheduled event. It is the
// only entity whose available_seats field the engine mutates, and only
// through the Manager's reserve/release operations.
type EventInventory struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string          `gorm:"not null;size:255" json:"name"`
	Venue          string          `gorm:"size:255" json:"venue"`
	EventDateTime  time.Time       `gorm:"not null;index" json:"event_date_time"`
	TotalSeats     int             `gorm:"not null;check:total_seats > 0" json:"total_seats"`
	AvailableSeats int             `gorm:"not null;check:available_seats >= 0" json:"available_seats"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	IsActive       bool            `gorm:"not null;default:false" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName sets the table name for EventInventory
func (EventInventory) TableName() string {
	return "event_inventories"
}

// IsUpcoming reports whether the event has not started yet
func (e *EventInventory) IsUpcoming(now time.Time) bool {
	return e.EventDateTime.After(now)
}

// HasSeats reports whether the requested quantity is currently available
func (e *EventInventory) HasSeats(quantity int) bool {
	return e.AvailableSeats >= quantity
}

// Reservation is the handle returned by a successful atomic seat
// reservation. It carries what the booking layer needs to price the
// booking and to release the seats again on compensation.
type Reservation struct {
	EventID   uuid.UUID       `json:"event_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateInventoryRequest creates a new event inventory (admin)
type CreateInventoryRequest struct {
	Name          string    `json:"name" binding:"required,min=3,max=255"`
	Venue         string    `json:"venue" binding:"max=255"`
	EventDateTime time.Time `json:"event_date_time" binding:"required"`
	TotalSeats    int       `json:"total_seats" binding:"required,min=1,max=100000"`
	UnitPrice     string    `json:"unit_price" binding:"required"`
}

// InventoryResponse is the wire representation of an event inventory
type InventoryResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Venue          string    `json:"venue"`
	EventDateTime  time.Time `json:"event_date_time"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	UnitPrice      string    `json:"unit_price"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToResponse converts the model to its wire representation
func (e *EventInventory) ToResponse() InventoryResponse {
	return InventoryResponse{
		ID:             e.ID.String(),
		Name:           e.Name,
		Venue:          e.Venue,
		EventDateTime:  e.EventDateTime,
		TotalSeats:     e.TotalSeats,
		AvailableSeats: e.AvailableSeats,
		UnitPrice:      e.UnitPrice.StringFixed(2),
		IsActive:       e.IsActive,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
