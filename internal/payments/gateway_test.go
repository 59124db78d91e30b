package payments

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGatewayCharge(t *testing.T) {
	cases := []struct {
		name    string
		method  Method
		details MethodDetails
		want    Status
	}{
		{
			name:    "valid card",
			method:  MethodCard,
			details: MethodDetails{CardNumber: "4111111111111111", CardExpiry: "12/27", CardCVV: "123"},
			want:    StatusSuccess,
		},
		{
			name:    "valid 19 digit card with 4 digit cvv",
			method:  MethodCard,
			details: MethodDetails{CardNumber: "4111111111111111012", CardExpiry: "01/30", CardCVV: "1234"},
			want:    StatusSuccess,
		},
		{
			name:    "card number too short",
			method:  MethodCard,
			details: MethodDetails{CardNumber: "411111111111111", CardExpiry: "12/27", CardCVV: "123"},
			want:    StatusFailed,
		},
		{
			name:    "card number with separators",
			method:  MethodCard,
			details: MethodDetails{CardNumber: "4111-1111-1111-1111", CardExpiry: "12/27", CardCVV: "123"},
			want:    StatusFailed,
		},
		{
			name:    "expiry month out of range",
			method:  MethodCard,
			details: MethodDetails{CardNumber: "4111111111111111", CardExpiry: "13/27", CardCVV: "123"},
			want:    StatusFailed,
		},
		{
			name:    "expiry missing slash",
			method:  MethodCard,
			details: MethodDetails{CardNumber: "4111111111111111", CardExpiry: "1227", CardCVV: "123"},
			want:    StatusFailed,
		},
		{
			name:    "cvv too long",
			method:  MethodCard,
			details: MethodDetails{CardNumber: "4111111111111111", CardExpiry: "12/27", CardCVV: "12345"},
			want:    StatusFailed,
		},
		{
			name:    "valid upi",
			method:  MethodUPI,
			details: MethodDetails{UpiID: "alice@okbank"},
			want:    StatusSuccess,
		},
		{
			name:    "upi without at sign",
			method:  MethodUPI,
			details: MethodDetails{UpiID: "alice.okbank"},
			want:    StatusFailed,
		},
		{
			name:    "net banking with bank code",
			method:  MethodNetBanking,
			details: MethodDetails{BankCode: "HDFC0001"},
			want:    StatusSuccess,
		},
		{
			name:    "net banking blank bank code",
			method:  MethodNetBanking,
			details: MethodDetails{BankCode: "   "},
			want:    StatusFailed,
		},
		{
			name:    "wallet with id",
			method:  MethodWallet,
			details: MethodDetails{WalletID: "wallet-42"},
			want:    StatusSuccess,
		},
		{
			name:    "wallet without id",
			method:  MethodWallet,
			details: MethodDetails{},
			want:    StatusFailed,
		},
	}

	gateway := NewSimulatedGateway()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, err := gateway.Charge(context.Background(), ChargeRequest{
				TransactionID: "TXN-1756000000000-AB12CD34",
				Amount:        decimal.RequireFromString("100.00"),
				Method:        tc.method,
				Details:       tc.details,
			})
			require.NoError(t, err)
			require.NotNil(t, outcome)
			assert.Equal(t, tc.want, outcome.Status)
			if tc.want == StatusFailed {
				assert.NotEmpty(t, outcome.GatewayResponse)
			}
		})
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusSuccess, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusRefunded, false},
		{StatusSuccess, StatusRefunded, true},
		{StatusSuccess, StatusFailed, false},
		{StatusFailed, StatusSuccess, false},
		{StatusRefunded, StatusSuccess, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
