// Package settlement computes salary payment amounts and allocates cash
// advances against them. Allocation consumes unsettled advances
// oldest-first; reversal releases settled advances most-recent-first.
// Corrections never edit history blindly: a partially consumed advance is
// split so the settled and leftover parts always sum to the original.
package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablewise/restopay-backend-go/internal/domain/salary"
)

type Engine struct {
	advances salary.AdvanceRepository
	now      func() time.Time
}

func NewEngine(advances salary.AdvanceRepository) *Engine {
	return &Engine{advances: advances, now: time.Now}
}

// WithClock overrides the engine clock. Test helper.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// GrossAvailable is the salary amount before the advance deduction:
// base + hoursWorked*hourlyRate (only when both are present) + bonus - deduction.
// No flooring happens here; a negative gross only means the deduction cap
// will clamp to zero.
func GrossAvailable(base decimal.Decimal, hoursWorked, hourlyRate *decimal.Decimal, bonus, deduction decimal.Decimal) decimal.Decimal {
	gross := base
	if hoursWorked != nil && hourlyRate != nil {
		gross = gross.Add(hoursWorked.Mul(*hourlyRate))
	}
	return gross.Add(bonus).Sub(deduction)
}

// ResolveDeduction returns the advance deduction for a payment. An explicit
// request is capped at max(0, gross); with no request the sum of the staff
// member's unsettled advances is capped the same way. The result is always
// non-negative and never exceeds max(0, gross).
func (e *Engine) ResolveDeduction(ctx context.Context, staffID string, requested *decimal.Decimal, gross decimal.Decimal) (decimal.Decimal, error) {
	cap := gross
	if cap.IsNegative() {
		cap = decimal.Zero
	}

	if requested != nil {
		if requested.GreaterThan(cap) {
			return cap, nil
		}
		return *requested, nil
	}

	unsettled, err := e.advances.ListUnsettled(ctx, staffID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list unsettled advances: %w", err)
	}
	sum := decimal.Zero
	for _, adv := range unsettled {
		sum = sum.Add(adv.Amount)
	}
	if sum.GreaterThan(cap) {
		return cap, nil
	}
	return sum, nil
}

// Allocate settles up to amount of the staff member's unsettled advances
// against paymentID, oldest-created-first. An advance larger than the
// remaining amount is split: a new unsettled record keeps the leftover and
// the original shrinks to the consumed portion and is marked settled.
// Insufficient advances are not an error; the shortfall simply stays
// unsettled.
//
// Split conservation: originalAmount == settledPart + leftoverPart, exactly.
func (e *Engine) Allocate(ctx context.Context, staffID, paymentID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}

	unsettled, err := e.advances.ListUnsettled(ctx, staffID)
	if err != nil {
		return fmt.Errorf("list unsettled advances: %w", err)
	}

	remaining := amount
	settledAt := e.now()

	for _, adv := range unsettled {
		if !remaining.IsPositive() {
			break
		}

		if adv.Amount.LessThanOrEqual(remaining) {
			adv.IsSettled = true
			adv.SettledAt = &settledAt
			adv.SettledByPaymentID = &paymentID
			if _, err := e.advances.Update(ctx, adv); err != nil {
				return fmt.Errorf("settle advance %s: %w", adv.ID, err)
			}
			remaining = remaining.Sub(adv.Amount)
			continue
		}

		// Partial consumption: write the leftover first, then shrink and
		// settle the original.
		leftover := splitOf(adv, adv.Amount.Sub(remaining))
		if _, err := e.advances.Create(ctx, leftover); err != nil {
			return fmt.Errorf("create leftover advance for %s: %w", adv.ID, err)
		}

		adv.Amount = remaining
		adv.IsSettled = true
		adv.SettledAt = &settledAt
		adv.SettledByPaymentID = &paymentID
		if _, err := e.advances.Update(ctx, adv); err != nil {
			return fmt.Errorf("settle split advance %s: %w", adv.ID, err)
		}
		remaining = decimal.Zero
	}

	return nil
}

// Reverse releases up to amount of the advances settled by paymentID,
// most-recently-settled-first. An advance larger than the remaining amount
// splits the opposite way: a new unsettled record takes the released
// portion and the original stays settled with the rest.
func (e *Engine) Reverse(ctx context.Context, paymentID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}

	settled, err := e.advances.ListSettledBy(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("list advances settled by %s: %w", paymentID, err)
	}

	remaining := amount

	for _, adv := range settled {
		if !remaining.IsPositive() {
			break
		}

		if adv.Amount.LessThanOrEqual(remaining) {
			adv.IsSettled = false
			adv.SettledAt = nil
			adv.SettledByPaymentID = nil
			if _, err := e.advances.Update(ctx, adv); err != nil {
				return fmt.Errorf("unsettle advance %s: %w", adv.ID, err)
			}
			remaining = remaining.Sub(adv.Amount)
			continue
		}

		released := splitOf(adv, remaining)
		if _, err := e.advances.Create(ctx, released); err != nil {
			return fmt.Errorf("create released advance for %s: %w", adv.ID, err)
		}

		adv.Amount = adv.Amount.Sub(remaining)
		if _, err := e.advances.Update(ctx, adv); err != nil {
			return fmt.Errorf("shrink settled advance %s: %w", adv.ID, err)
		}
		remaining = decimal.Zero
	}

	return nil
}

// SettledSum is the total currently settled against paymentID.
func (e *Engine) SettledSum(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	settled, err := e.advances.ListSettledBy(ctx, paymentID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list advances settled by %s: %w", paymentID, err)
	}
	sum := decimal.Zero
	for _, adv := range settled {
		sum = sum.Add(adv.Amount)
	}
	return sum, nil
}

// ReconcileOnUpdate keeps the settled-advance total consistent with the
// payment's recorded deduction after an edit.
//
// A lowered deduction reverses the difference. Otherwise a single allocation
// is sized from the observed settled sum, which covers both a raised
// deduction and repair of drift from advances edited outside this payment.
// Sizing from observed state makes a second allocation in the same call
// impossible, and makes the no-change case a strict no-op.
func (e *Engine) ReconcileOnUpdate(ctx context.Context, staffID, paymentID string, oldDeduction, newDeduction decimal.Decimal) error {
	if newDeduction.LessThan(oldDeduction) {
		return e.Reverse(ctx, paymentID, oldDeduction.Sub(newDeduction))
	}

	settled, err := e.SettledSum(ctx, paymentID)
	if err != nil {
		return err
	}
	if settled.LessThan(newDeduction) {
		return e.Allocate(ctx, staffID, paymentID, newDeduction.Sub(settled))
	}
	return nil
}

// splitOf clones an advance into a fresh unsettled record carrying amount.
// Settlement fields are reset; the original creation time is kept so the
// leftover holds its place in the oldest-first allocation order.
func splitOf(adv salary.Advance, amount decimal.Decimal) salary.Advance {
	return salary.Advance{
		ID:            uuid.NewString(),
		StaffID:       adv.StaffID,
		RestaurantID:  adv.RestaurantID,
		Amount:        amount,
		AdvanceDate:   adv.AdvanceDate,
		PaymentStatus: adv.PaymentStatus,
		PaymentMethod: adv.PaymentMethod,
		Notes:         adv.Notes,
		CreatedBy:     adv.CreatedBy,
		CreatedByID:   adv.CreatedByID,
		CreatedAt:     adv.CreatedAt,
	}
}
