package salary

import "context"

type ConfigRepository interface {
	Create(ctx context.Context, cfg Configuration) (Configuration, error)
	GetByID(ctx context.Context, id string) (Configuration, error)
	GetActiveByStaffID(ctx context.Context, staffID string) (Configuration, error)
	// DeactivateActiveByStaffID flips the active row, if any, for staffID.
	// The update is conditional on is_active so a lost race cannot leave two
	// active configurations behind.
	DeactivateActiveByStaffID(ctx context.Context, staffID string) error
	Update(ctx context.Context, cfg Configuration) (Configuration, error)
}

type AdvanceRepository interface {
	Create(ctx context.Context, adv Advance) (Advance, error)
	GetByID(ctx context.Context, id string) (Advance, error)
	Update(ctx context.Context, adv Advance) (Advance, error)
	Delete(ctx context.Context, id string) error
	// ListUnsettled returns paid, unsettled advances for staffID ordered
	// oldest-created-first (created_at, then id). This is the allocation
	// order contract.
	ListUnsettled(ctx context.Context, staffID string) ([]Advance, error)
	// ListSettledBy returns advances settled by paymentID ordered
	// most-recently-settled-first (settled_at desc, then id desc). This is
	// the reversal order contract.
	ListSettledBy(ctx context.Context, paymentID string) ([]Advance, error)
	ListByStaff(ctx context.Context, staffID string, filter AdvanceFilter) ([]Advance, error)
	SummaryByStaff(ctx context.Context, staffID string) (AdvanceSummary, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p Payment) (Payment, error)
	GetByID(ctx context.Context, id string) (Payment, error)
	Update(ctx context.Context, p Payment) (Payment, error)
	Delete(ctx context.Context, id string) error
	ListByStaff(ctx context.Context, staffID string, limit, offset int) ([]Payment, int64, error)
	ListByRestaurant(ctx context.Context, restaurantID string, filter PaymentFilter) ([]Payment, error)
	SummaryByStaff(ctx context.Context, staffID string) (PaymentSummary, error)
}
