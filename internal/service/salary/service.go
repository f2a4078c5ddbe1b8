package salary

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/tablewise/restopay-backend-go/internal/domain/salary"
	"github.com/tablewise/restopay-backend-go/internal/domain/staff"
	"github.com/tablewise/restopay-backend-go/internal/pkg/audit"
	"github.com/tablewise/restopay-backend-go/internal/pkg/database"
	"github.com/tablewise/restopay-backend-go/internal/pkg/locks"
	"github.com/tablewise/restopay-backend-go/internal/service/settlement"
)

const dateFormat = "2006-01-02"

type SalaryServiceImpl struct {
	tx       database.TxRunner
	guard    *staff.Guard
	configs  salary.ConfigRepository
	advances salary.AdvanceRepository
	payments salary.PaymentRepository
	engine   *settlement.Engine
	audit    audit.Recorder
	locks    *locks.Keyed
	now      func() time.Time
}

func NewSalaryService(
	tx database.TxRunner,
	guard *staff.Guard,
	configs salary.ConfigRepository,
	advances salary.AdvanceRepository,
	payments salary.PaymentRepository,
	engine *settlement.Engine,
	recorder audit.Recorder,
) salary.Service {
	return &SalaryServiceImpl{
		tx:       tx,
		guard:    guard,
		configs:  configs,
		advances: advances,
		payments: payments,
		engine:   engine,
		audit:    recorder,
		locks:    locks.NewKeyed(),
		now:      time.Now,
	}
}

// actorFromContext resolves the authenticated actor from JWT claims.
func actorFromContext(ctx context.Context) (staff.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return staff.Actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	return staff.ActorFromClaims(claims)
}

func (s *SalaryServiceImpl) record(ctx context.Context, actor staff.Actor, action, entityType, entityID, restaurantID string, details map[string]interface{}) {
	s.audit.Record(ctx, audit.Event{
		ActorRole:    string(actor.Role),
		ActorID:      actor.ID,
		Action:       action,
		EntityType:   entityType,
		EntityID:     entityID,
		RestaurantID: restaurantID,
		Details:      details,
	})
}

// clampZero floors a decimal at zero.
func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ========== RESPONSE MAPPING ==========

func mapConfigResponse(cfg salary.Configuration) salary.ConfigResponse {
	return salary.ConfigResponse{
		ID:               cfg.ID,
		StaffID:          cfg.StaffID,
		RestaurantID:     cfg.RestaurantID,
		SalaryType:       string(cfg.SalaryType),
		BaseSalary:       cfg.BaseSalary,
		HourlyRate:       cfg.HourlyRate,
		Currency:         cfg.Currency,
		PaymentFrequency: string(cfg.PaymentFrequency),
		EffectiveDate:    cfg.EffectiveDate.Format(dateFormat),
		IsActive:         cfg.IsActive,
		Notes:            cfg.Notes,
	}
}

func mapPaymentResponse(p salary.Payment) salary.PaymentResponse {
	var paidAtStr *string
	if p.PaidAt != nil {
		str := p.PaidAt.Format(time.RFC3339)
		paidAtStr = &str
	}

	return salary.PaymentResponse{
		ID:                   p.ID,
		StaffID:              p.StaffID,
		RestaurantID:         p.RestaurantID,
		PeriodStart:          p.PeriodStart.Format(dateFormat),
		PeriodEnd:            p.PeriodEnd.Format(dateFormat),
		BaseAmount:           p.BaseAmount,
		HoursWorked:          p.HoursWorked,
		HourlyRate:           p.HourlyRate,
		BonusAmount:          p.BonusAmount,
		DeductionAmount:      p.DeductionAmount,
		AdvanceDeduction:     p.AdvanceDeduction,
		TotalAmount:          p.TotalAmount,
		PaymentStatus:        string(p.PaymentStatus),
		PaymentMethod:        p.PaymentMethod,
		PaymentTransactionID: p.PaymentTransactionID,
		PaidAt:               paidAtStr,
		Notes:                p.Notes,
	}
}

func mapPaymentResponses(payments []salary.Payment) []salary.PaymentResponse {
	result := make([]salary.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, mapPaymentResponse(p))
	}
	return result
}

func mapAdvanceResponse(adv salary.Advance) salary.AdvanceResponse {
	var settledAtStr *string
	if adv.SettledAt != nil {
		str := adv.SettledAt.Format(time.RFC3339)
		settledAtStr = &str
	}

	return salary.AdvanceResponse{
		ID:                 adv.ID,
		StaffID:            adv.StaffID,
		RestaurantID:       adv.RestaurantID,
		Amount:             adv.Amount,
		AdvanceDate:        adv.AdvanceDate.Format(dateFormat),
		PaymentStatus:      string(adv.PaymentStatus),
		PaymentMethod:      adv.PaymentMethod,
		Notes:              adv.Notes,
		IsSettled:          adv.IsSettled,
		SettledAt:          settledAtStr,
		SettledByPaymentID: adv.SettledByPaymentID,
	}
}
