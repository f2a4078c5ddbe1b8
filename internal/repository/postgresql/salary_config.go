package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tablewise/restopay-backend-go/internal/domain/salary"
	"github.com/tablewise/restopay-backend-go/internal/pkg/database"
)

type configRepository struct {
	db *database.DB
}

func NewConfigRepository(db *database.DB) salary.ConfigRepository {
	return &configRepository{db: db}
}

const configColumns = `
	id, staff_id, restaurant_id, salary_type, base_salary, hourly_rate,
	currency, payment_frequency, effective_date, is_active, notes,
	created_at, updated_at
`

func scanConfig(row pgx.Row) (salary.Configuration, error) {
	var cfg salary.Configuration
	err := row.Scan(
		&cfg.ID, &cfg.StaffID, &cfg.RestaurantID, &cfg.SalaryType,
		&cfg.BaseSalary, &cfg.HourlyRate, &cfg.Currency, &cfg.PaymentFrequency,
		&cfg.EffectiveDate, &cfg.IsActive, &cfg.Notes,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)
	return cfg, err
}

func (r *configRepository) Create(ctx context.Context, cfg salary.Configuration) (salary.Configuration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_configurations (
			id, staff_id, restaurant_id, salary_type, base_salary, hourly_rate,
			currency, payment_frequency, effective_date, is_active, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + configColumns

	created, err := scanConfig(q.QueryRow(ctx, query,
		cfg.ID, cfg.StaffID, cfg.RestaurantID, cfg.SalaryType, cfg.BaseSalary,
		cfg.HourlyRate, cfg.Currency, cfg.PaymentFrequency, cfg.EffectiveDate,
		cfg.IsActive, cfg.Notes,
	))
	if err != nil {
		return salary.Configuration{}, fmt.Errorf("failed to create salary configuration: %w", err)
	}

	return created, nil
}

func (r *configRepository) GetByID(ctx context.Context, id string) (salary.Configuration, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + configColumns + ` FROM salary_configurations WHERE id = $1`

	cfg, err := scanConfig(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Configuration{}, salary.ErrConfigNotFound
		}
		return salary.Configuration{}, fmt.Errorf("failed to get salary configuration: %w", err)
	}

	return cfg, nil
}

func (r *configRepository) GetActiveByStaffID(ctx context.Context, staffID string) (salary.Configuration, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + configColumns + ` FROM salary_configurations WHERE staff_id = $1 AND is_active = TRUE`

	cfg, err := scanConfig(q.QueryRow(ctx, query, staffID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Configuration{}, salary.ErrConfigNotFound
		}
		return salary.Configuration{}, fmt.Errorf("failed to get active salary configuration: %w", err)
	}

	return cfg, nil
}

func (r *configRepository) DeactivateActiveByStaffID(ctx context.Context, staffID string) error {
	q := GetQuerier(ctx, r.db)

	// Conditional on is_active so a concurrent SetActive cannot leave two
	// active rows behind.
	query := `
		UPDATE salary_configurations
		SET is_active = FALSE, updated_at = NOW()
		WHERE staff_id = $1 AND is_active = TRUE
	`

	if _, err := q.Exec(ctx, query, staffID); err != nil {
		return fmt.Errorf("failed to deactivate salary configuration: %w", err)
	}
	return nil
}

func (r *configRepository) Update(ctx context.Context, cfg salary.Configuration) (salary.Configuration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_configurations
		SET salary_type = $2, base_salary = $3, hourly_rate = $4, currency = $5,
			payment_frequency = $6, effective_date = $7, is_active = $8,
			notes = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + configColumns

	updated, err := scanConfig(q.QueryRow(ctx, query,
		cfg.ID, cfg.SalaryType, cfg.BaseSalary, cfg.HourlyRate, cfg.Currency,
		cfg.PaymentFrequency, cfg.EffectiveDate, cfg.IsActive, cfg.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Configuration{}, salary.ErrConfigNotFound
		}
		return salary.Configuration{}, fmt.Errorf("failed to update salary configuration: %w", err)
	}

	return updated, nil
}
