package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tablewise/restopay-backend-go/internal/domain/staff"
	"github.com/tablewise/restopay-backend-go/internal/pkg/database"
)

type staffRepository struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.Repository {
	return &staffRepository{db: db}
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, restaurant_id, name, email, password_hash, role, is_active, created_at, updated_at
		FROM staff
		WHERE id = $1
	`

	var st staff.Staff
	err := q.QueryRow(ctx, query, id).Scan(
		&st.ID, &st.RestaurantID, &st.Name, &st.Email, &st.PasswordHash,
		&st.Role, &st.IsActive, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff: %w", err)
	}

	return st, nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, restaurant_id, name, email, password_hash, role, is_active, created_at, updated_at
		FROM staff
		WHERE email = $1
	`

	var st staff.Staff
	err := q.QueryRow(ctx, query, email).Scan(
		&st.ID, &st.RestaurantID, &st.Name, &st.Email, &st.PasswordHash,
		&st.Role, &st.IsActive, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff by email: %w", err)
	}

	return st, nil
}

func (r *staffRepository) RestaurantExists(ctx context.Context, restaurantID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = $1)`, restaurantID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check restaurant: %w", err)
	}
	return exists, nil
}
