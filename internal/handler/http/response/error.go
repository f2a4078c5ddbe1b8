package response

import (
	"errors"
	"net/http"

	"github.com/tablewise/restopay-backend-go/internal/domain/auth"
	"github.com/tablewise/restopay-backend-go/internal/domain/salary"
	"github.com/tablewise/restopay-backend-go/internal/domain/staff"
	"github.com/tablewise/restopay-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")

	// Staff / capability errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, staff.ErrRestaurantNotFound):
		NotFound(w, "Restaurant not found")
	case errors.Is(err, staff.ErrNotPermitted):
		Forbidden(w, "Not permitted to act on this staff member")
	case errors.Is(err, staff.ErrInvalidActor):
		Unauthorized(w, "Actor claims are missing or malformed")

	// Salary domain errors
	case errors.Is(err, salary.ErrConfigNotFound):
		NotFound(w, "Salary configuration not found")
	case errors.Is(err, salary.ErrPaymentNotFound):
		NotFound(w, "Salary payment not found")
	case errors.Is(err, salary.ErrAdvanceNotFound):
		NotFound(w, "Advance payment not found")
	case errors.Is(err, salary.ErrAdvanceSettled):
		Unprocessable(w, "ADVANCE_SETTLED", "Settled advances cannot be modified or deleted")
	case errors.Is(err, salary.ErrPaymentNotPending):
		Unprocessable(w, "PAYMENT_NOT_PENDING", "Only pending salary payments can be deleted")
	case errors.Is(err, salary.ErrStaffRestaurantMismatch):
		Unprocessable(w, "RESTAURANT_MISMATCH", "Staff member does not belong to this restaurant")
	case errors.Is(err, salary.ErrInvalidStatusTransition):
		Conflict(w, "Payment status transition not allowed")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
