package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryType enum
type SalaryType string

const (
	SalaryTypeFixed  SalaryType = "fixed"
	SalaryTypeHourly SalaryType = "hourly"
	SalaryTypeMixed  SalaryType = "mixed"
)

// PaymentFrequency enum
type PaymentFrequency string

const (
	FrequencyWeekly   PaymentFrequency = "weekly"
	FrequencyBiweekly PaymentFrequency = "biweekly"
	FrequencyMonthly  PaymentFrequency = "monthly"
)

// PaymentStatus enum shared by advances and salary payments.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "pending"
	StatusPaid    PaymentStatus = "paid"
	StatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed:
		return true
	}
	return false
}

// DefaultCurrency applies when a staff member has no salary configuration.
const DefaultCurrency = "USD"

// Configuration - pay-rate configuration for one staff member. At most one
// row per staff carries IsActive=true at any instant; SetActive enforces
// that with a conditional deactivate + insert in one transaction.
type Configuration struct {
	ID               string
	StaffID          string
	RestaurantID     string
	SalaryType       SalaryType
	BaseSalary       *decimal.Decimal
	HourlyRate       *decimal.Decimal
	Currency         string
	PaymentFrequency PaymentFrequency
	EffectiveDate    time.Time
	IsActive         bool
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Advance - a cash advance owed back by a staff member. Once settled the
// record is frozen: it can only change through settlement reversal on its
// owning payment. SettledByPaymentID is a weak back-reference; the payment
// never owns or cascade-deletes the advance.
type Advance struct {
	ID                 string
	StaffID            string
	RestaurantID       string
	Amount             decimal.Decimal
	AdvanceDate        time.Time
	PaymentStatus      PaymentStatus
	PaymentMethod      *string
	Notes              *string
	IsSettled          bool
	SettledAt          *time.Time
	SettledByPaymentID *string
	CreatedBy          *string
	CreatedByID        *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Payment - one payroll disbursement for a staff member over a period.
//
// Invariants:
//
//	grossAvailable = baseAmount + hoursWorked*hourlyRate (if both set) + bonus - deduction
//	0 <= advanceDeduction <= max(0, grossAvailable)
//	totalAmount = max(0, grossAvailable - advanceDeduction)
type Payment struct {
	ID                   string
	StaffID              string
	RestaurantID         string
	PeriodStart          time.Time
	PeriodEnd            time.Time
	BaseAmount           decimal.Decimal
	HoursWorked          *decimal.Decimal
	HourlyRate           *decimal.Decimal
	BonusAmount          decimal.Decimal
	DeductionAmount      decimal.Decimal
	AdvanceDeduction     decimal.Decimal
	TotalAmount          decimal.Decimal
	PaymentStatus        PaymentStatus
	PaymentMethod        *string
	PaymentTransactionID *string
	PaidAt               *time.Time
	Notes                *string
	CreatedBy            *string
	CreatedByID          *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// GrossAvailable is the salary amount before the advance deduction. It may
// be negative; the deduction cap floors the final total, not this value.
func (p Payment) GrossAvailable() decimal.Decimal {
	gross := p.BaseAmount
	if p.HoursWorked != nil && p.HourlyRate != nil {
		gross = gross.Add(p.HoursWorked.Mul(*p.HourlyRate))
	}
	return gross.Add(p.BonusAmount).Sub(p.DeductionAmount)
}

// DisbursedAmount is what actually reached the staff member:
// base + hourly + bonus - deduction. The advance deduction is excluded on
// purpose; it nets a prior liability, not a current cost.
func (p Payment) DisbursedAmount() decimal.Decimal {
	return p.GrossAvailable()
}

// CanTransition reports whether the payment status may move from -> to.
// Setting the same status again is a no-op, not an error.
func CanTransition(from, to PaymentStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusPaid || to == StatusFailed
	case StatusPaid:
		return to == StatusFailed
	case StatusFailed:
		return to == StatusPending || to == StatusPaid
	default:
		return false
	}
}
