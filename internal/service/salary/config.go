package salary

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tablewise/restopay-backend-go/internal/domain/salary"
	"github.com/tablewise/restopay-backend-go/internal/pkg/audit"
	"github.com/tablewise/restopay-backend-go/internal/pkg/validator"
)

// ========== SALARY CONFIGURATION ==========

func (s *SalaryServiceImpl) SetConfig(ctx context.Context, req salary.SetConfigRequest) (salary.ConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.ConfigResponse{}, err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return salary.ConfigResponse{}, err
	}
	st, err := s.guard.ResolveStaff(ctx, actor, req.StaffID)
	if err != nil {
		return salary.ConfigResponse{}, err
	}
	if err := s.guard.RequireRestaurant(ctx, req.RestaurantID); err != nil {
		return salary.ConfigResponse{}, err
	}
	if st.RestaurantID != req.RestaurantID {
		return salary.ConfigResponse{}, salary.ErrStaffRestaurantMismatch
	}

	effectiveDate, _ := validator.IsValidDate(req.EffectiveDate)

	currency := req.Currency
	if validator.IsEmpty(currency) {
		currency = salary.DefaultCurrency
	}

	cfg := salary.Configuration{
		ID:               uuid.NewString(),
		StaffID:          req.StaffID,
		RestaurantID:     req.RestaurantID,
		SalaryType:       salary.SalaryType(req.SalaryType),
		BaseSalary:       req.BaseSalary,
		HourlyRate:       req.HourlyRate,
		Currency:         currency,
		PaymentFrequency: salary.PaymentFrequency(req.PaymentFrequency),
		EffectiveDate:    effectiveDate,
		IsActive:         true,
		Notes:            req.Notes,
	}

	// Deactivation and insert commit together so a lost race cannot leave
	// two active configurations for the same staff member.
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.configs.DeactivateActiveByStaffID(ctx, req.StaffID); err != nil {
			return err
		}
		created, err := s.configs.Create(ctx, cfg)
		if err != nil {
			return err
		}
		cfg = created
		return nil
	})
	if err != nil {
		return salary.ConfigResponse{}, err
	}

	s.record(ctx, actor, audit.ActionCreateSalaryConfig, "salary_configuration", cfg.ID, cfg.RestaurantID, map[string]interface{}{
		"staff_id":    cfg.StaffID,
		"salary_type": string(cfg.SalaryType),
	})

	return mapConfigResponse(cfg), nil
}

func (s *SalaryServiceImpl) UpdateConfig(ctx context.Context, req salary.UpdateConfigRequest) (salary.ConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.ConfigResponse{}, err
	}

	cfg, err := s.configs.GetByID(ctx, req.ID)
	if err != nil {
		return salary.ConfigResponse{}, err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return salary.ConfigResponse{}, err
	}
	if _, err := s.guard.ResolveStaff(ctx, actor, cfg.StaffID); err != nil {
		return salary.ConfigResponse{}, err
	}

	if req.BaseSalary != nil {
		cfg.BaseSalary = req.BaseSalary
	}
	if req.HourlyRate != nil {
		cfg.HourlyRate = req.HourlyRate
	}
	if req.Currency != nil {
		cfg.Currency = *req.Currency
	}
	if req.PaymentFrequency != nil {
		cfg.PaymentFrequency = salary.PaymentFrequency(*req.PaymentFrequency)
	}
	if req.EffectiveDate != nil {
		effectiveDate, _ := validator.IsValidDate(*req.EffectiveDate)
		cfg.EffectiveDate = effectiveDate
	}
	if req.Notes != nil {
		cfg.Notes = req.Notes
	}

	// isActive only changes when explicitly requested; activating here must
	// still retire any other active row first.
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if req.IsActive != nil && *req.IsActive && !cfg.IsActive {
			if err := s.configs.DeactivateActiveByStaffID(ctx, cfg.StaffID); err != nil {
				return err
			}
		}
		if req.IsActive != nil {
			cfg.IsActive = *req.IsActive
		}
		updated, err := s.configs.Update(ctx, cfg)
		if err != nil {
			return err
		}
		cfg = updated
		return nil
	})
	if err != nil {
		return salary.ConfigResponse{}, err
	}

	s.record(ctx, actor, audit.ActionUpdateSalaryConfig, "salary_configuration", cfg.ID, cfg.RestaurantID, nil)

	return mapConfigResponse(cfg), nil
}

func (s *SalaryServiceImpl) GetStaffConfig(ctx context.Context, staffID string) (salary.ConfigResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return salary.ConfigResponse{}, err
	}
	st, err := s.guard.ResolveStaff(ctx, actor, staffID)
	if err != nil {
		return salary.ConfigResponse{}, err
	}

	cfg, err := s.configs.GetActiveByStaffID(ctx, staffID)
	if err != nil {
		if errors.Is(err, salary.ErrConfigNotFound) {
			// No configuration yet: report the currency default.
			return salary.ConfigResponse{
				StaffID:      staffID,
				RestaurantID: st.RestaurantID,
				Currency:     salary.DefaultCurrency,
			}, nil
		}
		return salary.ConfigResponse{}, err
	}

	return mapConfigResponse(cfg), nil
}

// effectiveCurrency is the display currency for a staff member's summaries.
func (s *SalaryServiceImpl) effectiveCurrency(ctx context.Context, staffID string) string {
	cfg, err := s.configs.GetActiveByStaffID(ctx, staffID)
	if err != nil {
		return salary.DefaultCurrency
	}
	return cfg.Currency
}
