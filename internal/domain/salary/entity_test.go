package salary

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from PaymentStatus
		to   PaymentStatus
		want bool
	}{
		{StatusPending, StatusPending, true},
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusFailed, true},
		{StatusPaid, StatusPaid, true},
		{StatusPaid, StatusFailed, true},
		{StatusPaid, StatusPending, false},
		{StatusFailed, StatusFailed, true},
		{StatusFailed, StatusPending, true},
		{StatusFailed, StatusPaid, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestPaymentGrossAvailable(t *testing.T) {
	hours := decimal.NewFromInt(10)
	rate := decimal.NewFromInt(15)

	p := Payment{
		BaseAmount:      decimal.NewFromInt(200),
		HoursWorked:     &hours,
		HourlyRate:      &rate,
		BonusAmount:     decimal.NewFromInt(20),
		DeductionAmount: decimal.NewFromInt(5),
	}
	assert.True(t, p.GrossAvailable().Equal(decimal.NewFromInt(365)))
	assert.True(t, p.DisbursedAmount().Equal(p.GrossAvailable()))

	// Hours without a rate contribute nothing.
	p.HourlyRate = nil
	assert.True(t, p.GrossAvailable().Equal(decimal.NewFromInt(215)))
}

func TestPaymentStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusPaid.IsValid())
	assert.True(t, StatusFailed.IsValid())
	assert.False(t, PaymentStatus("cancelled").IsValid())
	assert.False(t, PaymentStatus("").IsValid())
}
