package salary

import "context"

// Service is the full salary surface: configuration, payments, advances and
// their read models. The actor is resolved from JWT claims on the context.
type Service interface {
	// Configuration
	SetConfig(ctx context.Context, req SetConfigRequest) (ConfigResponse, error)
	UpdateConfig(ctx context.Context, req UpdateConfigRequest) (ConfigResponse, error)
	GetStaffConfig(ctx context.Context, staffID string) (ConfigResponse, error)

	// Salary payments
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (PaymentResponse, error)
	UpdatePayment(ctx context.Context, req UpdatePaymentRequest) (PaymentResponse, error)
	DeletePayment(ctx context.Context, id string) error
	ListStaffPayments(ctx context.Context, staffID string, limit, offset int) (ListPaymentsResponse, error)
	ListRestaurantPayments(ctx context.Context, restaurantID string, filter PaymentFilter) ([]PaymentResponse, error)
	GetStaffPaymentSummary(ctx context.Context, staffID string) (PaymentSummary, error)

	// Advances
	CreateAdvance(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	UpdateAdvance(ctx context.Context, req UpdateAdvanceRequest) (AdvanceResponse, error)
	DeleteAdvance(ctx context.Context, id string) error
	ListStaffAdvances(ctx context.Context, staffID string, filter AdvanceFilter) ([]AdvanceResponse, error)
	GetStaffAdvanceSummary(ctx context.Context, staffID string) (AdvanceSummary, error)
}
