package payments

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ChargeRequest is what a gateway needs to attempt a charge
type ChargeRequest struct {
	TransactionID string
	BookingID     string
	Amount        decimal.Decimal
	Method        Method
	Details       MethodDetails
}

// Outcome is a gateway's verdict on a charge. Status is SUCCESS or
// FAILED; GatewayResponse carries the provider's message verbatim.
type Outcome struct {
	Status          Status
	GatewayResponse string
}

// Gateway abstracts the payment provider. A synchronous provider returns
// the outcome from Charge; an asynchronous one returns (nil, nil) and
// delivers the outcome later through Service.Resolve with the same
// transaction id.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Outcome, error)
}

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16,19}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// RegisterValidations installs the custom binding rules used by the
// payment request shapes.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("cardexpiry", func(fl validator.FieldLevel) bool {
		return cardExpiryPattern.MatchString(fl.Field().String())
	})
}

// SimulatedGateway resolves every charge inline by checking the shape of
// the method details. It never returns a transport error.
type SimulatedGateway struct{}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*Outcome, error) {
	if err := validateMethodDetails(req.Method, req.Details); err != nil {
		return &Outcome{Status: StatusFailed, GatewayResponse: err.Error()}, nil
	}
	return &Outcome{
		Status:          StatusSuccess,
		GatewayResponse: fmt.Sprintf("approved via %s", req.Method),
	}, nil
}

func validateMethodDetails(method Method, details MethodDetails) error {
	switch method {
	case MethodCard:
		if !cardNumberPattern.MatchString(details.CardNumber) {
			return fmt.Errorf("card number must be 16 to 19 digits")
		}
		if !cardExpiryPattern.MatchString(details.CardExpiry) {
			return fmt.Errorf("card expiry must be in MM/YY format")
		}
		if !cardCVVPattern.MatchString(details.CardCVV) {
			return fmt.Errorf("card cvv must be 3 or 4 digits")
		}
	case MethodUPI:
		if !strings.Contains(details.UpiID, "@") {
			return fmt.Errorf("upi id must contain @")
		}
	case MethodNetBanking:
		if strings.TrimSpace(details.BankCode) == "" {
			return fmt.Errorf("bank code is required")
		}
	case MethodWallet:
		if strings.TrimSpace(details.WalletID) == "" {
			return fmt.Errorf("wallet id is required")
		}
	default:
		return ErrUnknownMethod
	}
	return nil
}
