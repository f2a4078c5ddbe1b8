package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tablewise/restopay-backend-go/internal/domain/salary"
	"github.com/tablewise/restopay-backend-go/internal/pkg/database"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) salary.AdvanceRepository {
	return &advanceRepository{db: db}
}

const advanceColumns = `
	id, staff_id, restaurant_id, amount, advance_date, payment_status,
	payment_method, notes, is_settled, settled_at, settled_by_payment_id,
	created_by, created_by_id, created_at, updated_at
`

func scanAdvance(row pgx.Row) (salary.Advance, error) {
	var adv salary.Advance
	err := row.Scan(
		&adv.ID, &adv.StaffID, &adv.RestaurantID, &adv.Amount, &adv.AdvanceDate,
		&adv.PaymentStatus, &adv.PaymentMethod, &adv.Notes, &adv.IsSettled,
		&adv.SettledAt, &adv.SettledByPaymentID, &adv.CreatedBy, &adv.CreatedByID,
		&adv.CreatedAt, &adv.UpdatedAt,
	)
	return adv, err
}

func collectAdvances(rows pgx.Rows) ([]salary.Advance, error) {
	defer rows.Close()

	var result []salary.Advance
	for rows.Next() {
		adv, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, adv)
	}
	return result, rows.Err()
}

func (r *advanceRepository) Create(ctx context.Context, adv salary.Advance) (salary.Advance, error) {
	q := GetQuerier(ctx, r.db)

	// created_at is caller-controlled: a split leftover keeps its parent's
	// creation time so it holds its place in the oldest-first queue.
	query := `
		INSERT INTO advance_payments (
			id, staff_id, restaurant_id, amount, advance_date, payment_status,
			payment_method, notes, is_settled, settled_at, settled_by_payment_id,
			created_by, created_by_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, COALESCE($14, NOW()))
		RETURNING ` + advanceColumns

	var createdAt interface{}
	if !adv.CreatedAt.IsZero() {
		createdAt = adv.CreatedAt
	}

	created, err := scanAdvance(q.QueryRow(ctx, query,
		adv.ID, adv.StaffID, adv.RestaurantID, adv.Amount, adv.AdvanceDate,
		adv.PaymentStatus, adv.PaymentMethod, adv.Notes, adv.IsSettled,
		adv.SettledAt, adv.SettledByPaymentID, adv.CreatedBy, adv.CreatedByID,
		createdAt,
	))
	if err != nil {
		return salary.Advance{}, fmt.Errorf("failed to create advance payment: %w", err)
	}

	return created, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (salary.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceColumns + ` FROM advance_payments WHERE id = $1`

	adv, err := scanAdvance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Advance{}, salary.ErrAdvanceNotFound
		}
		return salary.Advance{}, fmt.Errorf("failed to get advance payment: %w", err)
	}

	return adv, nil
}

func (r *advanceRepository) Update(ctx context.Context, adv salary.Advance) (salary.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE advance_payments
		SET amount = $2, advance_date = $3, payment_status = $4,
			payment_method = $5, notes = $6, is_settled = $7, settled_at = $8,
			settled_by_payment_id = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + advanceColumns

	updated, err := scanAdvance(q.QueryRow(ctx, query,
		adv.ID, adv.Amount, adv.AdvanceDate, adv.PaymentStatus,
		adv.PaymentMethod, adv.Notes, adv.IsSettled, adv.SettledAt,
		adv.SettledByPaymentID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Advance{}, salary.ErrAdvanceNotFound
		}
		return salary.Advance{}, fmt.Errorf("failed to update advance payment: %w", err)
	}

	return updated, nil
}

func (r *advanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM advance_payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete advance payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrAdvanceNotFound
	}
	return nil
}

func (r *advanceRepository) ListUnsettled(ctx context.Context, staffID string) ([]salary.Advance, error) {
	q := GetQuerier(ctx, r.db)

	// Allocation order contract: oldest first, id as the tie-break.
	query := `
		SELECT ` + advanceColumns + `
		FROM advance_payments
		WHERE staff_id = $1 AND is_settled = FALSE AND payment_status = 'paid'
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled advances: %w", err)
	}
	return collectAdvances(rows)
}

func (r *advanceRepository) ListSettledBy(ctx context.Context, paymentID string) ([]salary.Advance, error) {
	q := GetQuerier(ctx, r.db)

	// Reversal order contract: most recently settled first.
	query := `
		SELECT ` + advanceColumns + `
		FROM advance_payments
		WHERE settled_by_payment_id = $1 AND is_settled = TRUE
		ORDER BY settled_at DESC, id DESC
	`

	rows, err := q.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settled advances: %w", err)
	}
	return collectAdvances(rows)
}

func (r *advanceRepository) ListByStaff(ctx context.Context, staffID string, filter salary.AdvanceFilter) ([]salary.Advance, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"staff_id = $1"}
	args := []interface{}{staffID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	if filter.Settled != nil {
		args = append(args, *filter.Settled)
		conditions = append(conditions, fmt.Sprintf("is_settled = $%d", len(args)))
	}

	query := `SELECT ` + advanceColumns + `
		FROM advance_payments
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at DESC, id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	return collectAdvances(rows)
}

func (r *advanceRepository) SummaryByStaff(ctx context.Context, staffID string) (salary.AdvanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(amount), 0),
			COALESCE(SUM(amount) FILTER (WHERE is_settled), 0),
			COALESCE(SUM(amount) FILTER (WHERE NOT is_settled), 0),
			COUNT(*) FILTER (WHERE NOT is_settled)
		FROM advance_payments
		WHERE staff_id = $1 AND payment_status = 'paid'
	`

	summary := salary.AdvanceSummary{StaffID: staffID}
	err := q.QueryRow(ctx, query, staffID).Scan(
		&summary.TotalAdvance, &summary.TotalSettled,
		&summary.PendingSettlement, &summary.UnsettledCount,
	)
	if err != nil {
		return salary.AdvanceSummary{}, fmt.Errorf("failed to get advance summary: %w", err)
	}

	return summary, nil
}
