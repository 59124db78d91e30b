// Package pricing computes service fees and booking totals. All money
// arithmetic happens on decimals; float64 never enters the calculation.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity is returned for a ticket quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrNegativePrice is returned for a negative unit price.
	ErrNegativePrice = errors.New("unit price must not be negative")
)

var (
	serviceFeeRate    = decimal.RequireFromString("0.05")
	minimumServiceFee = decimal.RequireFromString("10.00")
	maximumServiceFee = decimal.RequireFromString("500.00")
)

// ServiceFee returns the fee charged on top of unitPrice*quantity:
// 5% of the subtotal, clamped to [10.00, 500.00], rounded half-up to
// two decimal places.
func ServiceFee(unitPrice decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}

	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	fee := subtotal.Mul(serviceFeeRate)

	if fee.LessThan(minimumServiceFee) {
		fee = minimumServiceFee
	} else if fee.GreaterThan(maximumServiceFee) {
		fee = maximumServiceFee
	}

	// Round half-up; fees are never negative so away-from-zero equals half-up
	return fee.Round(2), nil
}

// TotalAmount returns unitPrice*quantity plus the service fee.
func TotalAmount(unitPrice decimal.Decimal, quantity int) (decimal.Decimal, error) {
	fee, err := ServiceFee(unitPrice, quantity)
	if err != nil {
		return decimal.Zero, err
	}
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return subtotal.Add(fee).Round(2), nil
}

// Breakdown carries both parts of a priced booking.
type Breakdown struct {
	ServiceFee  decimal.Decimal
	TotalAmount decimal.Decimal
}

// Quote computes the fee and total in one call.
func Quote(unitPrice decimal.Decimal, quantity int) (Breakdown, error) {
	fee, err := ServiceFee(unitPrice, quantity)
	if err != nil {
		return Breakdown{}, err
	}
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return Breakdown{
		ServiceFee:  fee,
		TotalAmount: subtotal.Add(fee).Round(2),
	}, nil
}
