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

type paymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) salary.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `
	id, staff_id, restaurant_id, period_start, period_end, base_amount,
	hours_worked, hourly_rate, bonus_amount, deduction_amount,
	advance_deduction, total_amount, payment_status, payment_method,
	payment_transaction_id, paid_at, notes, created_by, created_by_id,
	created_at, updated_at
`

func scanPayment(row pgx.Row) (salary.Payment, error) {
	var p salary.Payment
	err := row.Scan(
		&p.ID, &p.StaffID, &p.RestaurantID, &p.PeriodStart, &p.PeriodEnd,
		&p.BaseAmount, &p.HoursWorked, &p.HourlyRate, &p.BonusAmount,
		&p.DeductionAmount, &p.AdvanceDeduction, &p.TotalAmount,
		&p.PaymentStatus, &p.PaymentMethod, &p.PaymentTransactionID,
		&p.PaidAt, &p.Notes, &p.CreatedBy, &p.CreatedByID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func collectPayments(rows pgx.Rows) ([]salary.Payment, error) {
	defer rows.Close()

	var result []salary.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *paymentRepository) Create(ctx context.Context, p salary.Payment) (salary.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_payments (
			id, staff_id, restaurant_id, period_start, period_end, base_amount,
			hours_worked, hourly_rate, bonus_amount, deduction_amount,
			advance_deduction, total_amount, payment_status, payment_method,
			payment_transaction_id, paid_at, notes, created_by, created_by_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + paymentColumns

	created, err := scanPayment(q.QueryRow(ctx, query,
		p.ID, p.StaffID, p.RestaurantID, p.PeriodStart, p.PeriodEnd,
		p.BaseAmount, p.HoursWorked, p.HourlyRate, p.BonusAmount,
		p.DeductionAmount, p.AdvanceDeduction, p.TotalAmount, p.PaymentStatus,
		p.PaymentMethod, p.PaymentTransactionID, p.PaidAt, p.Notes,
		p.CreatedBy, p.CreatedByID,
	))
	if err != nil {
		return salary.Payment{}, fmt.Errorf("failed to create salary payment: %w", err)
	}

	return created, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (salary.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM salary_payments WHERE id = $1`

	p, err := scanPayment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Payment{}, salary.ErrPaymentNotFound
		}
		return salary.Payment{}, fmt.Errorf("failed to get salary payment: %w", err)
	}

	return p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p salary.Payment) (salary.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_payments
		SET period_start = $2, period_end = $3, base_amount = $4,
			hours_worked = $5, hourly_rate = $6, bonus_amount = $7,
			deduction_amount = $8, advance_deduction = $9, total_amount = $10,
			payment_status = $11, payment_method = $12,
			payment_transaction_id = $13, paid_at = $14, notes = $15,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + paymentColumns

	updated, err := scanPayment(q.QueryRow(ctx, query,
		p.ID, p.PeriodStart, p.PeriodEnd, p.BaseAmount, p.HoursWorked,
		p.HourlyRate, p.BonusAmount, p.DeductionAmount, p.AdvanceDeduction,
		p.TotalAmount, p.PaymentStatus, p.PaymentMethod,
		p.PaymentTransactionID, p.PaidAt, p.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Payment{}, salary.ErrPaymentNotFound
		}
		return salary.Payment{}, fmt.Errorf("failed to update salary payment: %w", err)
	}

	return updated, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salary_payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete salary payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrPaymentNotFound
	}
	return nil
}

func (r *paymentRepository) ListByStaff(ctx context.Context, staffID string, limit, offset int) ([]salary.Payment, int64, error) {
	q := GetQuerier(ctx, r.db)

	var totalCount int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM salary_payments WHERE staff_id = $1`, staffID).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count salary payments: %w", err)
	}

	query := `SELECT ` + paymentColumns + `
		FROM salary_payments
		WHERE staff_id = $1
		ORDER BY period_start DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := q.Query(ctx, query, staffID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salary payments: %w", err)
	}

	payments, err := collectPayments(rows)
	if err != nil {
		return nil, 0, err
	}
	return payments, totalCount, nil
}

func (r *paymentRepository) ListByRestaurant(ctx context.Context, restaurantID string, filter salary.PaymentFilter) ([]salary.Payment, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"restaurant_id = $1"}
	args := []interface{}{restaurantID}

	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		conditions = append(conditions, fmt.Sprintf("staff_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("period_end >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("period_start <= $%d", len(args)))
	}

	query := `SELECT ` + paymentColumns + `
		FROM salary_payments
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY period_start DESC, id DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurant salary payments: %w", err)
	}
	return collectPayments(rows)
}

func (r *paymentRepository) SummaryByStaff(ctx context.Context, staffID string) (salary.PaymentSummary, error) {
	q := GetQuerier(ctx, r.db)

	// The disbursed amount is base + hourly + bonus - deduction. The advance
	// deduction nets a prior liability, so it stays out of these totals.
	query := `
		SELECT
			COALESCE(SUM(base_amount + COALESCE(hours_worked * hourly_rate, 0) + bonus_amount - deduction_amount)
				FILTER (WHERE payment_status = 'paid'), 0),
			COALESCE(SUM(base_amount + COALESCE(hours_worked * hourly_rate, 0) + bonus_amount - deduction_amount)
				FILTER (WHERE payment_status = 'pending'), 0),
			COALESCE(SUM(base_amount + COALESCE(hours_worked * hourly_rate, 0) + bonus_amount - deduction_amount)
				FILTER (WHERE payment_status = 'failed'), 0)
		FROM salary_payments
		WHERE staff_id = $1
	`

	summary := salary.PaymentSummary{StaffID: staffID, Currency: salary.DefaultCurrency}
	err := q.QueryRow(ctx, query, staffID).Scan(
		&summary.TotalPaid, &summary.TotalPending, &summary.TotalFailed,
	)
	if err != nil {
		return salary.PaymentSummary{}, fmt.Errorf("failed to get salary payment summary: %w", err)
	}

	return summary, nil
}
