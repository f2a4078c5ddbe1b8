package salary

import (
	"context"

	"github.com/google/uuid"
	"github.com/tablewise/restopay-backend-go/internal/domain/salary"
	"github.com/tablewise/restopay-backend-go/internal/pkg/audit"
	"github.com/tablewise/restopay-backend-go/internal/pkg/validator"
)

// ========== ADVANCE PAYMENTS ==========

func (s *SalaryServiceImpl) CreateAdvance(ctx context.Context, req salary.CreateAdvanceRequest) (salary.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.AdvanceResponse{}, err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return salary.AdvanceResponse{}, err
	}
	st, err := s.guard.ResolveStaff(ctx, actor, req.StaffID)
	if err != nil {
		return salary.AdvanceResponse{}, err
	}
	if err := s.guard.RequireRestaurant(ctx, req.RestaurantID); err != nil {
		return salary.AdvanceResponse{}, err
	}
	if st.RestaurantID != req.RestaurantID {
		return salary.AdvanceResponse{}, salary.ErrStaffRestaurantMismatch
	}

	advanceDate, _ := validator.IsValidDate(req.AdvanceDate)

	// Advances are handed out in cash; they count against future salary as
	// soon as they are recorded, so "paid" is the default status.
	status := salary.StatusPaid
	if req.PaymentStatus != nil {
		status = salary.PaymentStatus(*req.PaymentStatus)
	}

	adv := salary.Advance{
		ID:            uuid.NewString(),
		StaffID:       req.StaffID,
		RestaurantID:  req.RestaurantID,
		Amount:        req.Amount,
		AdvanceDate:   advanceDate,
		PaymentStatus: status,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		CreatedBy:     stringPtr(string(actor.Role)),
		CreatedByID:   stringPtr(actor.ID),
	}

	created, err := s.advances.Create(ctx, adv)
	if err != nil {
		return salary.AdvanceResponse{}, err
	}

	s.record(ctx, actor, audit.ActionCreateAdvance, "advance_payment", created.ID, created.RestaurantID, map[string]interface{}{
		"staff_id": created.StaffID,
		"amount":   created.Amount.String(),
	})

	return mapAdvanceResponse(created), nil
}

func (s *SalaryServiceImpl) UpdateAdvance(ctx context.Context, req salary.UpdateAdvanceRequest) (salary.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.AdvanceResponse{}, err
	}

	adv, err := s.advances.GetByID(ctx, req.ID)
	if err != nil {
		return salary.AdvanceResponse{}, err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return salary.AdvanceResponse{}, err
	}
	if _, err := s.guard.ResolveStaff(ctx, actor, adv.StaffID); err != nil {
		return salary.AdvanceResponse{}, err
	}

	s.locks.Lock(adv.StaffID)
	defer s.locks.Unlock(adv.StaffID)

	adv, err = s.advances.GetByID(ctx, req.ID)
	if err != nil {
		return salary.AdvanceResponse{}, err
	}

	// A settled advance is frozen; it only changes through settlement
	// reversal on its owning payment.
	if adv.IsSettled {
		return salary.AdvanceResponse{}, salary.ErrAdvanceSettled
	}

	if req.Amount != nil {
		adv.Amount = *req.Amount
	}
	if req.AdvanceDate != nil {
		advanceDate, _ := validator.IsValidDate(*req.AdvanceDate)
		adv.AdvanceDate = advanceDate
	}
	if req.PaymentStatus != nil {
		adv.PaymentStatus = salary.PaymentStatus(*req.PaymentStatus)
	}
	if req.PaymentMethod != nil {
		adv.PaymentMethod = req.PaymentMethod
	}
	if req.Notes != nil {
		adv.Notes = req.Notes
	}

	updated, err := s.advances.Update(ctx, adv)
	if err != nil {
		return salary.AdvanceResponse{}, err
	}

	s.record(ctx, actor, audit.ActionUpdateAdvance, "advance_payment", updated.ID, updated.RestaurantID, map[string]interface{}{
		"staff_id": updated.StaffID,
		"amount":   updated.Amount.String(),
	})

	return mapAdvanceResponse(updated), nil
}

func (s *SalaryServiceImpl) DeleteAdvance(ctx context.Context, id string) error {
	adv, err := s.advances.GetByID(ctx, id)
	if err != nil {
		return err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if _, err := s.guard.ResolveStaff(ctx, actor, adv.StaffID); err != nil {
		return err
	}

	s.locks.Lock(adv.StaffID)
	defer s.locks.Unlock(adv.StaffID)

	adv, err = s.advances.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if adv.IsSettled {
		return salary.ErrAdvanceSettled
	}

	if err := s.advances.Delete(ctx, adv.ID); err != nil {
		return err
	}

	s.record(ctx, actor, audit.ActionDeleteAdvance, "advance_payment", adv.ID, adv.RestaurantID, map[string]interface{}{
		"staff_id": adv.StaffID,
		"amount":   adv.Amount.String(),
	})

	return nil
}

// ========== ADVANCE READS ==========

func (s *SalaryServiceImpl) ListStaffAdvances(ctx context.Context, staffID string, filter salary.AdvanceFilter) ([]salary.AdvanceResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.ResolveStaff(ctx, actor, staffID); err != nil {
		return nil, err
	}

	advances, err := s.advances.ListByStaff(ctx, staffID, filter)
	if err != nil {
		return nil, err
	}

	result := make([]salary.AdvanceResponse, 0, len(advances))
	for _, adv := range advances {
		result = append(result, mapAdvanceResponse(adv))
	}
	return result, nil
}

func (s *SalaryServiceImpl) GetStaffAdvanceSummary(ctx context.Context, staffID string) (salary.AdvanceSummary, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return salary.AdvanceSummary{}, err
	}
	if _, err := s.guard.ResolveStaff(ctx, actor, staffID); err != nil {
		return salary.AdvanceSummary{}, err
	}

	return s.advances.SummaryByStaff(ctx, staffID)
}
