package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestServiceFee(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		quantity  int
		want      string
	}{
		{"percentage applies", "100.00", 4, "20.00"},
		{"floor applies", "1.00", 1, "10.00"},
		{"cap applies", "20000.00", 10, "500.00"},
		{"exactly at floor", "200.00", 1, "10.00"},
		{"exactly at cap", "10000.00", 1, "500.00"},
		{"rounds half up", "10.25", 21, "10.76"}, // 215.25 * 0.05 = 10.7625
		{"free event still charges floor", "0.00", 3, "10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := ServiceFee(dec(tt.unitPrice), tt.quantity)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(fee), "want %s got %s", tt.want, fee)
		})
	}
}

func TestServiceFeeRejectsInvalidInput(t *testing.T) {
	_, err := ServiceFee(dec("100.00"), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ServiceFee(dec("100.00"), -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ServiceFee(dec("-1.00"), 2)
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestTotalAmount(t *testing.T) {
	total, err := TotalAmount(dec("100.00"), 4)
	require.NoError(t, err)
	assert.True(t, dec("420.00").Equal(total), "got %s", total)

	total, err = TotalAmount(dec("1.00"), 1)
	require.NoError(t, err)
	assert.True(t, dec("11.00").Equal(total), "got %s", total)
}

func TestQuoteIsDeterministic(t *testing.T) {
	first, err := Quote(dec("123.45"), 7)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		again, err := Quote(dec("123.45"), 7)
		require.NoError(t, err)
		assert.True(t, first.ServiceFee.Equal(again.ServiceFee))
		assert.True(t, first.TotalAmount.Equal(again.TotalAmount))
	}
}
