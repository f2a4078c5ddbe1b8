// Package memory provides in-memory repository implementations backing the
// hermetic unit tests. Ordering mirrors the SQL repositories exactly:
// allocation order is (created_at, id) ascending, reversal order is
// (settled_at, id) descending.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tablewise/restopay-backend-go/internal/domain/salary"
)

// TxRunner satisfies database.TxRunner without transactional semantics; the
// per-staff lock in the salary service serializes memory-backed mutations.
type TxRunner struct{}

func (TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ========== CONFIGURATIONS ==========

type ConfigRepository struct {
	mu      sync.RWMutex
	configs map[string]salary.Configuration
}

func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{configs: make(map[string]salary.Configuration)}
}

func (r *ConfigRepository) Create(_ context.Context, cfg salary.Configuration) (salary.Configuration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = time.Now()
	}
	cfg.UpdatedAt = cfg.CreatedAt
	r.configs[cfg.ID] = cfg
	return cfg, nil
}

func (r *ConfigRepository) GetByID(_ context.Context, id string) (salary.Configuration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[id]
	if !ok {
		return salary.Configuration{}, salary.ErrConfigNotFound
	}
	return cfg, nil
}

func (r *ConfigRepository) GetActiveByStaffID(_ context.Context, staffID string) (salary.Configuration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cfg := range r.configs {
		if cfg.StaffID == staffID && cfg.IsActive {
			return cfg, nil
		}
	}
	return salary.Configuration{}, salary.ErrConfigNotFound
}

func (r *ConfigRepository) DeactivateActiveByStaffID(_ context.Context, staffID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, cfg := range r.configs {
		if cfg.StaffID == staffID && cfg.IsActive {
			cfg.IsActive = false
			cfg.UpdatedAt = time.Now()
			r.configs[id] = cfg
		}
	}
	return nil
}

func (r *ConfigRepository) Update(_ context.Context, cfg salary.Configuration) (salary.Configuration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.configs[cfg.ID]; !ok {
		return salary.Configuration{}, salary.ErrConfigNotFound
	}
	cfg.UpdatedAt = time.Now()
	r.configs[cfg.ID] = cfg
	return cfg, nil
}

// ========== ADVANCES ==========

type AdvanceRepository struct {
	mu       sync.RWMutex
	advances map[string]salary.Advance
}

func NewAdvanceRepository() *AdvanceRepository {
	return &AdvanceRepository{advances: make(map[string]salary.Advance)}
}

func (r *AdvanceRepository) Create(_ context.Context, adv salary.Advance) (salary.Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if adv.ID == "" {
		adv.ID = uuid.NewString()
	}
	if adv.CreatedAt.IsZero() {
		adv.CreatedAt = time.Now()
	}
	adv.UpdatedAt = time.Now()
	r.advances[adv.ID] = adv
	return adv, nil
}

func (r *AdvanceRepository) GetByID(_ context.Context, id string) (salary.Advance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adv, ok := r.advances[id]
	if !ok {
		return salary.Advance{}, salary.ErrAdvanceNotFound
	}
	return adv, nil
}

func (r *AdvanceRepository) Update(_ context.Context, adv salary.Advance) (salary.Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.advances[adv.ID]; !ok {
		return salary.Advance{}, salary.ErrAdvanceNotFound
	}
	adv.UpdatedAt = time.Now()
	r.advances[adv.ID] = adv
	return adv, nil
}

func (r *AdvanceRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.advances[id]; !ok {
		return salary.ErrAdvanceNotFound
	}
	delete(r.advances, id)
	return nil
}

func (r *AdvanceRepository) ListUnsettled(_ context.Context, staffID string) ([]salary.Advance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []salary.Advance
	for _, adv := range r.advances {
		if adv.StaffID == staffID && !adv.IsSettled && adv.PaymentStatus == salary.StatusPaid {
			result = append(result, adv)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *AdvanceRepository) ListSettledBy(_ context.Context, paymentID string) ([]salary.Advance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []salary.Advance
	for _, adv := range r.advances {
		if adv.IsSettled && adv.SettledByPaymentID != nil && *adv.SettledByPaymentID == paymentID {
			result = append(result, adv)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		ti, tj := timeOrZero(result[i].SettledAt), timeOrZero(result[j].SettledAt)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *AdvanceRepository) ListByStaff(_ context.Context, staffID string, filter salary.AdvanceFilter) ([]salary.Advance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []salary.Advance
	for _, adv := range r.advances {
		if adv.StaffID != staffID {
			continue
		}
		if filter.Status != nil && adv.PaymentStatus != *filter.Status {
			continue
		}
		if filter.Settled != nil && adv.IsSettled != *filter.Settled {
			continue
		}
		result = append(result, adv)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *AdvanceRepository) SummaryByStaff(_ context.Context, staffID string) (salary.AdvanceSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := salary.AdvanceSummary{StaffID: staffID}
	for _, adv := range r.advances {
		if adv.StaffID != staffID || adv.PaymentStatus != salary.StatusPaid {
			continue
		}
		summary.TotalAdvance = summary.TotalAdvance.Add(adv.Amount)
		if adv.IsSettled {
			summary.TotalSettled = summary.TotalSettled.Add(adv.Amount)
		} else {
			summary.PendingSettlement = summary.PendingSettlement.Add(adv.Amount)
			summary.UnsettledCount++
		}
	}
	return summary, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// ========== PAYMENTS ==========

type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]salary.Payment
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[string]salary.Payment)}
}

func (r *PaymentRepository) Create(_ context.Context, p salary.Payment) (salary.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	r.payments[p.ID] = p
	return p, nil
}

func (r *PaymentRepository) GetByID(_ context.Context, id string) (salary.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[id]
	if !ok {
		return salary.Payment{}, salary.ErrPaymentNotFound
	}
	return p, nil
}

func (r *PaymentRepository) Update(_ context.Context, p salary.Payment) (salary.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[p.ID]; !ok {
		return salary.Payment{}, salary.ErrPaymentNotFound
	}
	p.UpdatedAt = time.Now()
	r.payments[p.ID] = p
	return p, nil
}

func (r *PaymentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[id]; !ok {
		return salary.ErrPaymentNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *PaymentRepository) ListByStaff(_ context.Context, staffID string, limit, offset int) ([]salary.Payment, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []salary.Payment
	for _, p := range r.payments {
		if p.StaffID == staffID {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].PeriodStart.Equal(all[j].PeriodStart) {
			return all[i].PeriodStart.After(all[j].PeriodStart)
		}
		return all[i].ID > all[j].ID
	})

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *PaymentRepository) ListByRestaurant(_ context.Context, restaurantID string, filter salary.PaymentFilter) ([]salary.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []salary.Payment
	for _, p := range r.payments {
		if p.RestaurantID != restaurantID {
			continue
		}
		if filter.StaffID != nil && p.StaffID != *filter.StaffID {
			continue
		}
		if filter.Status != nil && p.PaymentStatus != *filter.Status {
			continue
		}
		if filter.From != nil && p.PeriodEnd.Before(*filter.From) {
			continue
		}
		if filter.To != nil && p.PeriodStart.After(*filter.To) {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].PeriodStart.Equal(result[j].PeriodStart) {
			return result[i].PeriodStart.After(result[j].PeriodStart)
		}
		return result[i].ID > result[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *PaymentRepository) SummaryByStaff(_ context.Context, staffID string) (salary.PaymentSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := salary.PaymentSummary{StaffID: staffID, Currency: salary.DefaultCurrency}
	for _, p := range r.payments {
		if p.StaffID != staffID {
			continue
		}
		disbursed := p.DisbursedAmount()
		switch p.PaymentStatus {
		case salary.StatusPaid:
			summary.TotalPaid = summary.TotalPaid.Add(disbursed)
		case salary.StatusPending:
			summary.TotalPending = summary.TotalPending.Add(disbursed)
		case salary.StatusFailed:
			summary.TotalFailed = summary.TotalFailed.Add(disbursed)
		}
	}
	return summary, nil
}
