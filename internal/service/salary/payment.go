package salary

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablewise/restopay-backend-go/internal/domain/salary"
	"github.com/tablewise/restopay-backend-go/internal/pkg/audit"
	"github.com/tablewise/restopay-backend-go/internal/pkg/validator"
	"github.com/tablewise/restopay-backend-go/internal/service/settlement"
)

// ========== SALARY PAYMENTS ==========

func (s *SalaryServiceImpl) CreatePayment(ctx context.Context, req salary.CreatePaymentRequest) (salary.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.PaymentResponse{}, err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return salary.PaymentResponse{}, err
	}
	st, err := s.guard.ResolveStaff(ctx, actor, req.StaffID)
	if err != nil {
		return salary.PaymentResponse{}, err
	}
	if err := s.guard.RequireRestaurant(ctx, req.RestaurantID); err != nil {
		return salary.PaymentResponse{}, err
	}
	if st.RestaurantID != req.RestaurantID {
		return salary.PaymentResponse{}, salary.ErrStaffRestaurantMismatch
	}

	// All reads and writes of this staff member's advances happen under the
	// per-staff lock; two concurrent settlements must never both consume the
	// same unsettled advance.
	s.locks.Lock(req.StaffID)
	defer s.locks.Unlock(req.StaffID)

	periodStart, _ := validator.IsValidDate(req.PeriodStart)
	periodEnd, _ := validator.IsValidDate(req.PeriodEnd)

	bonus := decimal.Zero
	if req.BonusAmount != nil {
		bonus = *req.BonusAmount
	}
	deduction := decimal.Zero
	if req.DeductionAmount != nil {
		deduction = *req.DeductionAmount
	}

	gross := settlement.GrossAvailable(req.BaseAmount, req.HoursWorked, req.HourlyRate, bonus, deduction)
	advanceDeduction, err := s.engine.ResolveDeduction(ctx, req.StaffID, req.AdvanceDeduction, gross)
	if err != nil {
		return salary.PaymentResponse{}, err
	}

	status := salary.StatusPending
	if req.PaymentStatus != nil {
		status = salary.PaymentStatus(*req.PaymentStatus)
	}

	payment := salary.Payment{
		ID:                   uuid.NewString(),
		StaffID:              req.StaffID,
		RestaurantID:         req.RestaurantID,
		PeriodStart:          periodStart,
		PeriodEnd:            periodEnd,
		BaseAmount:           req.BaseAmount,
		HoursWorked:          req.HoursWorked,
		HourlyRate:           req.HourlyRate,
		BonusAmount:          bonus,
		DeductionAmount:      deduction,
		AdvanceDeduction:     advanceDeduction,
		TotalAmount:          clampZero(gross.Sub(advanceDeduction)),
		PaymentStatus:        status,
		PaymentMethod:        req.PaymentMethod,
		PaymentTransactionID: req.PaymentTransactionID,
		Notes:                req.Notes,
		CreatedBy:            stringPtr(string(actor.Role)),
		CreatedByID:          stringPtr(actor.ID),
	}
	if status == salary.StatusPaid {
		now := s.now()
		payment.PaidAt = &now
	}

	// Payment write and advance allocation are one failure unit.
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err := s.payments.Create(ctx, payment)
		if err != nil {
			return err
		}
		payment = created
		return s.engine.Allocate(ctx, payment.StaffID, payment.ID, advanceDeduction)
	})
	if err != nil {
		return salary.PaymentResponse{}, err
	}

	s.record(ctx, actor, audit.ActionCreateSalaryPayment, "salary_payment", payment.ID, payment.RestaurantID, map[string]interface{}{
		"staff_id":          payment.StaffID,
		"total_amount":      payment.TotalAmount.String(),
		"advance_deduction": payment.AdvanceDeduction.String(),
		"payment_status":    string(payment.PaymentStatus),
	})

	return mapPaymentResponse(payment), nil
}

func (s *SalaryServiceImpl) UpdatePayment(ctx context.Context, req salary.UpdatePaymentRequest) (salary.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.PaymentResponse{}, err
	}

	payment, err := s.payments.GetByID(ctx, req.ID)
	if err != nil {
		return salary.PaymentResponse{}, err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return salary.PaymentResponse{}, err
	}
	if _, err := s.guard.ResolveStaff(ctx, actor, payment.StaffID); err != nil {
		return salary.PaymentResponse{}, err
	}

	s.locks.Lock(payment.StaffID)
	defer s.locks.Unlock(payment.StaffID)

	// Re-read under the lock; another updater may have won the race.
	payment, err = s.payments.GetByID(ctx, req.ID)
	if err != nil {
		return salary.PaymentResponse{}, err
	}

	oldStatus := payment.PaymentStatus
	oldDeduction := payment.AdvanceDeduction

	if req.PeriodStart != nil {
		periodStart, _ := validator.IsValidDate(*req.PeriodStart)
		payment.PeriodStart = periodStart
	}
	if req.PeriodEnd != nil {
		periodEnd, _ := validator.IsValidDate(*req.PeriodEnd)
		payment.PeriodEnd = periodEnd
	}
	if req.BaseAmount != nil {
		payment.BaseAmount = *req.BaseAmount
	}
	if req.HoursWorked != nil {
		payment.HoursWorked = req.HoursWorked
	}
	if req.HourlyRate != nil {
		payment.HourlyRate = req.HourlyRate
	}
	if req.BonusAmount != nil {
		payment.BonusAmount = *req.BonusAmount
	}
	if req.DeductionAmount != nil {
		payment.DeductionAmount = *req.DeductionAmount
	}
	if req.PaymentMethod != nil {
		payment.PaymentMethod = req.PaymentMethod
	}
	if req.PaymentTransactionID != nil {
		payment.PaymentTransactionID = req.PaymentTransactionID
	}
	if req.Notes != nil {
		payment.Notes = req.Notes
	}

	if req.PaymentStatus != nil {
		to := salary.PaymentStatus(*req.PaymentStatus)
		if !salary.CanTransition(oldStatus, to) {
			return salary.PaymentResponse{}, salary.ErrInvalidStatusTransition
		}
		payment.PaymentStatus = to
		if to == salary.StatusPaid && payment.PaidAt == nil {
			now := s.now()
			payment.PaidAt = &now
		}
	}

	// Recompute amounts from the merged fields. The recorded deduction acts
	// as the explicit request when the caller did not supply a new one, so
	// the cap re-applies against the new gross.
	gross := payment.GrossAvailable()
	requested := req.AdvanceDeduction
	if requested == nil {
		requested = &oldDeduction
	}
	newDeduction, err := s.engine.ResolveDeduction(ctx, payment.StaffID, requested, gross)
	if err != nil {
		return salary.PaymentResponse{}, err
	}
	payment.AdvanceDeduction = newDeduction
	payment.TotalAmount = clampZero(gross.Sub(newDeduction))

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.engine.ReconcileOnUpdate(ctx, payment.StaffID, payment.ID, oldDeduction, newDeduction); err != nil {
			return err
		}
		updated, err := s.payments.Update(ctx, payment)
		if err != nil {
			return err
		}
		payment = updated
		return nil
	})
	if err != nil {
		return salary.PaymentResponse{}, err
	}

	s.record(ctx, actor, audit.ActionUpdateSalaryPayment, "salary_payment", payment.ID, payment.RestaurantID, map[string]interface{}{
		"staff_id":                 payment.StaffID,
		"status_before":            string(oldStatus),
		"status_after":             string(payment.PaymentStatus),
		"advance_deduction_before": oldDeduction.String(),
		"advance_deduction_after":  newDeduction.String(),
	})

	return mapPaymentResponse(payment), nil
}

func (s *SalaryServiceImpl) DeletePayment(ctx context.Context, id string) error {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if _, err := s.guard.ResolveStaff(ctx, actor, payment.StaffID); err != nil {
		return err
	}

	s.locks.Lock(payment.StaffID)
	defer s.locks.Unlock(payment.StaffID)

	payment, err = s.payments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if payment.PaymentStatus != salary.StatusPending {
		return salary.ErrPaymentNotPending
	}

	// A pending payment can still hold an allocation when the caller set an
	// explicit advanceDeduction at create time. Release it before the row
	// disappears; otherwise settled advances keep pointing at a dead id.
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if payment.AdvanceDeduction.IsPositive() {
			if err := s.engine.Reverse(ctx, payment.ID, payment.AdvanceDeduction); err != nil {
				return err
			}
		}
		return s.payments.Delete(ctx, payment.ID)
	})
	if err != nil {
		return err
	}

	s.record(ctx, actor, audit.ActionDeleteSalaryPayment, "salary_payment", payment.ID, payment.RestaurantID, map[string]interface{}{
		"staff_id": payment.StaffID,
	})

	return nil
}

// ========== PAYMENT READS ==========

func (s *SalaryServiceImpl) ListStaffPayments(ctx context.Context, staffID string, limit, offset int) (salary.ListPaymentsResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return salary.ListPaymentsResponse{}, err
	}
	if _, err := s.guard.ResolveStaff(ctx, actor, staffID); err != nil {
		return salary.ListPaymentsResponse{}, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	payments, totalCount, err := s.payments.ListByStaff(ctx, staffID, limit, offset)
	if err != nil {
		return salary.ListPaymentsResponse{}, err
	}

	return salary.ListPaymentsResponse{
		Data:       mapPaymentResponses(payments),
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func (s *SalaryServiceImpl) ListRestaurantPayments(ctx context.Context, restaurantID string, filter salary.PaymentFilter) ([]salary.PaymentResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.guard.ResolveRestaurant(ctx, actor, restaurantID); err != nil {
		return nil, err
	}

	payments, err := s.payments.ListByRestaurant(ctx, restaurantID, filter)
	if err != nil {
		return nil, err
	}

	return mapPaymentResponses(payments), nil
}

func (s *SalaryServiceImpl) GetStaffPaymentSummary(ctx context.Context, staffID string) (salary.PaymentSummary, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return salary.PaymentSummary{}, err
	}
	if _, err := s.guard.ResolveStaff(ctx, actor, staffID); err != nil {
		return salary.PaymentSummary{}, err
	}

	summary, err := s.payments.SummaryByStaff(ctx, staffID)
	if err != nil {
		return salary.PaymentSummary{}, err
	}
	summary.Currency = s.effectiveCurrency(ctx, staffID)
	return summary, nil
}

func stringPtr(s string) *string {
	return &s
}
