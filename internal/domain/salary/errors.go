package salary

import "errors"

var (
	ErrConfigNotFound          = errors.New("salary configuration not found")
	ErrAdvanceNotFound         = errors.New("advance payment not found")
	ErrPaymentNotFound         = errors.New("salary payment not found")
	ErrAdvanceSettled          = errors.New("advance payment is settled and cannot be modified")
	ErrPaymentNotPending       = errors.New("only pending salary payments can be deleted")
	ErrInvalidStatusTransition = errors.New("invalid payment status transition")
	ErrStaffRestaurantMismatch = errors.New("staff member does not belong to this restaurant")
)
