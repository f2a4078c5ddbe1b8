package salary

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tablewise/restopay-backend-go/internal/pkg/validator"
)

var (
	salaryTypes  = []string{string(SalaryTypeFixed), string(SalaryTypeHourly), string(SalaryTypeMixed)}
	frequencies  = []string{string(FrequencyWeekly), string(FrequencyBiweekly), string(FrequencyMonthly)}
	statusValues = []string{string(StatusPending), string(StatusPaid), string(StatusFailed)}
)

// ========== CONFIGURATION DTOs ==========

type SetConfigRequest struct {
	StaffID          string           `json:"-"`
	RestaurantID     string           `json:"restaurant_id"`
	SalaryType       string           `json:"salary_type"`
	BaseSalary       *decimal.Decimal `json:"base_salary,omitempty"`
	HourlyRate       *decimal.Decimal `json:"hourly_rate,omitempty"`
	Currency         string           `json:"currency"`
	PaymentFrequency string           `json:"payment_frequency"`
	EffectiveDate    string           `json:"effective_date"`
	Notes            *string          `json:"notes,omitempty"`
}

func (r *SetConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RestaurantID) {
		errs = append(errs, validator.ValidationError{Field: "restaurant_id", Message: "is required"})
	}
	if !validator.IsInSlice(r.SalaryType, salaryTypes) {
		errs = append(errs, validator.ValidationError{Field: "salary_type", Message: "must be 'fixed', 'hourly' or 'mixed'"})
	}
	if r.SalaryType == string(SalaryTypeFixed) || r.SalaryType == string(SalaryTypeMixed) {
		if r.BaseSalary == nil {
			errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "is required for fixed and mixed salary types"})
		} else if r.BaseSalary.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
		}
	}
	if r.SalaryType == string(SalaryTypeHourly) || r.SalaryType == string(SalaryTypeMixed) {
		if r.HourlyRate == nil {
			errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "is required for hourly and mixed salary types"})
		} else if r.HourlyRate.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be non-negative"})
		}
	}
	if !validator.IsInSlice(r.PaymentFrequency, frequencies) {
		errs = append(errs, validator.ValidationError{Field: "payment_frequency", Message: "must be 'weekly', 'biweekly' or 'monthly'"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateConfigRequest struct {
	ID               string           `json:"-"`
	BaseSalary       *decimal.Decimal `json:"base_salary,omitempty"`
	HourlyRate       *decimal.Decimal `json:"hourly_rate,omitempty"`
	Currency         *string          `json:"currency,omitempty"`
	PaymentFrequency *string          `json:"payment_frequency,omitempty"`
	EffectiveDate    *string          `json:"effective_date,omitempty"`
	IsActive         *bool            `json:"is_active,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
}

func (r *UpdateConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be non-negative"})
	}
	if r.PaymentFrequency != nil && !validator.IsInSlice(*r.PaymentFrequency, frequencies) {
		errs = append(errs, validator.ValidationError{Field: "payment_frequency", Message: "must be 'weekly', 'biweekly' or 'monthly'"})
	}
	if r.EffectiveDate != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ConfigResponse struct {
	ID               string           `json:"id"`
	StaffID          string           `json:"staff_id"`
	RestaurantID     string           `json:"restaurant_id"`
	SalaryType       string           `json:"salary_type"`
	BaseSalary       *decimal.Decimal `json:"base_salary,omitempty"`
	HourlyRate       *decimal.Decimal `json:"hourly_rate,omitempty"`
	Currency         string           `json:"currency"`
	PaymentFrequency string           `json:"payment_frequency"`
	EffectiveDate    string           `json:"effective_date"`
	IsActive         bool             `json:"is_active"`
	Notes            *string          `json:"notes,omitempty"`
}

// ========== SALARY PAYMENT DTOs ==========

type CreatePaymentRequest struct {
	StaffID              string           `json:"-"`
	RestaurantID         string           `json:"restaurant_id"`
	PeriodStart          string           `json:"period_start"`
	PeriodEnd            string           `json:"period_end"`
	BaseAmount           decimal.Decimal  `json:"base_amount"`
	HoursWorked          *decimal.Decimal `json:"hours_worked,omitempty"`
	HourlyRate           *decimal.Decimal `json:"hourly_rate,omitempty"`
	BonusAmount          *decimal.Decimal `json:"bonus_amount,omitempty"`
	DeductionAmount      *decimal.Decimal `json:"deduction_amount,omitempty"`
	AdvanceDeduction     *decimal.Decimal `json:"advance_deduction,omitempty"`
	PaymentStatus        *string          `json:"payment_status,omitempty"`
	PaymentMethod        *string          `json:"payment_method,omitempty"`
	PaymentTransactionID *string          `json:"payment_transaction_id,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
}

func (r *CreatePaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RestaurantID) {
		errs = append(errs, validator.ValidationError{Field: "restaurant_id", Message: "is required"})
	}
	start, startOK := validator.IsValidDate(r.PeriodStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, endOK := validator.IsValidDate(r.PeriodEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}
	if r.BaseAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_amount", Message: "must be non-negative"})
	}
	if r.HoursWorked != nil && r.HoursWorked.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hours_worked", Message: "must be non-negative"})
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be non-negative"})
	}
	if r.BonusAmount != nil && r.BonusAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus_amount", Message: "must be non-negative"})
	}
	if r.DeductionAmount != nil && r.DeductionAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deduction_amount", Message: "must be non-negative"})
	}
	if r.AdvanceDeduction != nil && r.AdvanceDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "advance_deduction", Message: "must be non-negative"})
	}
	if r.PaymentStatus != nil && !validator.IsInSlice(*r.PaymentStatus, statusValues) {
		errs = append(errs, validator.ValidationError{Field: "payment_status", Message: "must be 'pending', 'paid' or 'failed'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePaymentRequest struct {
	ID                   string           `json:"-"`
	PeriodStart          *string          `json:"period_start,omitempty"`
	PeriodEnd            *string          `json:"period_end,omitempty"`
	BaseAmount           *decimal.Decimal `json:"base_amount,omitempty"`
	HoursWorked          *decimal.Decimal `json:"hours_worked,omitempty"`
	HourlyRate           *decimal.Decimal `json:"hourly_rate,omitempty"`
	BonusAmount          *decimal.Decimal `json:"bonus_amount,omitempty"`
	DeductionAmount      *decimal.Decimal `json:"deduction_amount,omitempty"`
	AdvanceDeduction     *decimal.Decimal `json:"advance_deduction,omitempty"`
	PaymentStatus        *string          `json:"payment_status,omitempty"`
	PaymentMethod        *string          `json:"payment_method,omitempty"`
	PaymentTransactionID *string          `json:"payment_transaction_id,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
}

func (r *UpdatePaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodStart != nil {
		if _, ok := validator.IsValidDate(*r.PeriodStart); !ok {
			errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	if r.PeriodEnd != nil {
		if _, ok := validator.IsValidDate(*r.PeriodEnd); !ok {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	if r.BaseAmount != nil && r.BaseAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_amount", Message: "must be non-negative"})
	}
	if r.HoursWorked != nil && r.HoursWorked.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hours_worked", Message: "must be non-negative"})
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be non-negative"})
	}
	if r.BonusAmount != nil && r.BonusAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus_amount", Message: "must be non-negative"})
	}
	if r.DeductionAmount != nil && r.DeductionAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deduction_amount", Message: "must be non-negative"})
	}
	if r.AdvanceDeduction != nil && r.AdvanceDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "advance_deduction", Message: "must be non-negative"})
	}
	if r.PaymentStatus != nil && !validator.IsInSlice(*r.PaymentStatus, statusValues) {
		errs = append(errs, validator.ValidationError{Field: "payment_status", Message: "must be 'pending', 'paid' or 'failed'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PaymentResponse struct {
	ID                   string           `json:"id"`
	StaffID              string           `json:"staff_id"`
	RestaurantID         string           `json:"restaurant_id"`
	PeriodStart          string           `json:"period_start"`
	PeriodEnd            string           `json:"period_end"`
	BaseAmount           decimal.Decimal  `json:"base_amount"`
	HoursWorked          *decimal.Decimal `json:"hours_worked,omitempty"`
	HourlyRate           *decimal.Decimal `json:"hourly_rate,omitempty"`
	BonusAmount          decimal.Decimal  `json:"bonus_amount"`
	DeductionAmount      decimal.Decimal  `json:"deduction_amount"`
	AdvanceDeduction     decimal.Decimal  `json:"advance_deduction"`
	TotalAmount          decimal.Decimal  `json:"total_amount"`
	PaymentStatus        string           `json:"payment_status"`
	PaymentMethod        *string          `json:"payment_method,omitempty"`
	PaymentTransactionID *string          `json:"payment_transaction_id,omitempty"`
	PaidAt               *string          `json:"paid_at,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
}

type ListPaymentsResponse struct {
	Data       []PaymentResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

// PaymentFilter scopes restaurant-wide payment listings.
type PaymentFilter struct {
	StaffID *string
	Status  *PaymentStatus
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// PaymentSummary aggregates per-staff totals on the actual-disbursed amount
// (base + hourly + bonus - deduction), excluding the advance deduction.
type PaymentSummary struct {
	StaffID      string          `json:"staff_id"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPending decimal.Decimal `json:"total_pending"`
	TotalFailed  decimal.Decimal `json:"total_failed"`
	Currency     string          `json:"currency"`
}

// ========== ADVANCE DTOs ==========

type CreateAdvanceRequest struct {
	StaffID       string          `json:"-"`
	RestaurantID  string          `json:"restaurant_id"`
	Amount        decimal.Decimal `json:"amount"`
	AdvanceDate   string          `json:"advance_date"`
	PaymentStatus *string         `json:"payment_status,omitempty"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
}

func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RestaurantID) {
		errs = append(errs, validator.ValidationError{Field: "restaurant_id", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}
	if _, ok := validator.IsValidDate(r.AdvanceDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "advance_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if r.PaymentStatus != nil && !validator.IsInSlice(*r.PaymentStatus, statusValues) {
		errs = append(errs, validator.ValidationError{Field: "payment_status", Message: "must be 'pending', 'paid' or 'failed'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAdvanceRequest struct {
	ID            string           `json:"-"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	AdvanceDate   *string          `json:"advance_date,omitempty"`
	PaymentStatus *string          `json:"payment_status,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func (r *UpdateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Amount != nil && !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}
	if r.AdvanceDate != nil {
		if _, ok := validator.IsValidDate(*r.AdvanceDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "advance_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	if r.PaymentStatus != nil && !validator.IsInSlice(*r.PaymentStatus, statusValues) {
		errs = append(errs, validator.ValidationError{Field: "payment_status", Message: "must be 'pending', 'paid' or 'failed'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdvanceResponse struct {
	ID                 string          `json:"id"`
	StaffID            string          `json:"staff_id"`
	RestaurantID       string          `json:"restaurant_id"`
	Amount             decimal.Decimal `json:"amount"`
	AdvanceDate        string          `json:"advance_date"`
	PaymentStatus      string          `json:"payment_status"`
	PaymentMethod      *string         `json:"payment_method,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
	IsSettled          bool            `json:"is_settled"`
	SettledAt          *string         `json:"settled_at,omitempty"`
	SettledByPaymentID *string         `json:"settled_by_payment_id,omitempty"`
}

// AdvanceFilter scopes advance listings for one staff member.
type AdvanceFilter struct {
	Status  *PaymentStatus
	Settled *bool
}

type AdvanceSummary struct {
	StaffID           string          `json:"staff_id"`
	TotalAdvance      decimal.Decimal `json:"total_advance"`
	TotalSettled      decimal.Decimal `json:"total_settled"`
	PendingSettlement decimal.Decimal `json:"pending_settlement"`
	UnsettledCount    int             `json:"unsettled_count"`
}
