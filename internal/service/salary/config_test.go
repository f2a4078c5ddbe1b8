package salary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewise/restopay-backend-go/internal/domain/salary"
	"github.com/tablewise/restopay-backend-go/internal/domain/staff"
	"github.com/tablewise/restopay-backend-go/internal/pkg/validator"
)

func setTestConfig(t *testing.T, env *testEnv, ctx context.Context) salary.ConfigResponse {
	t.Helper()
	cfg, err := env.svc.SetConfig(ctx, salary.SetConfigRequest{
		StaffID:          testStaffID,
		RestaurantID:     testRestaurantID,
		SalaryType:       "fixed",
		BaseSalary:       mustDecPtr("2000"),
		Currency:         "EUR",
		PaymentFrequency: "monthly",
		EffectiveDate:    "2026-03-01",
	})
	require.NoError(t, err)
	return cfg
}

func TestSetConfig_CreatesActiveConfiguration(t *testing.T) {
	env := newTestEnv(t)

	cfg := setTestConfig(t, env, ownerCtx(t))

	assert.NotEmpty(t, cfg.ID)
	assert.Equal(t, testStaffID, cfg.StaffID)
	assert.Equal(t, "fixed", cfg.SalaryType)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.True(t, cfg.IsActive)
	assert.Equal(t, "2026-03-01", cfg.EffectiveDate)
}

func TestSetConfig_ReplacesActiveConfiguration(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(t)

	first := setTestConfig(t, env, ctx)

	second, err := env.svc.SetConfig(ctx, salary.SetConfigRequest{
		StaffID:          testStaffID,
		RestaurantID:     testRestaurantID,
		SalaryType:       "hourly",
		HourlyRate:       mustDecPtr("18.50"),
		PaymentFrequency: "weekly",
		EffectiveDate:    "2026-04-01",
	})
	require.NoError(t, err)
	assert.True(t, second.IsActive)

	active, err := env.configs.GetActiveByStaffID(context.Background(), testStaffID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	old, err := env.configs.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)
}

func TestSetConfig_DefaultsCurrency(t *testing.T) {
	env := newTestEnv(t)

	cfg, err := env.svc.SetConfig(ownerCtx(t), salary.SetConfigRequest{
		StaffID:          testStaffID,
		RestaurantID:     testRestaurantID,
		SalaryType:       "fixed",
		BaseSalary:       mustDecPtr("1500"),
		PaymentFrequency: "monthly",
		EffectiveDate:    "2026-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, salary.DefaultCurrency, cfg.Currency)
}

func TestSetConfig_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.SetConfig(ownerCtx(t), salary.SetConfigRequest{
		StaffID:          testStaffID,
		RestaurantID:     testRestaurantID,
		SalaryType:       "commission",
		PaymentFrequency: "daily",
		EffectiveDate:    "not-a-date",
	})
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "salary_type")
	assert.Contains(t, fields, "payment_frequency")
	assert.Contains(t, fields, "effective_date")
}

func TestSetConfig_RestaurantMismatch(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.SetConfig(actorCtx(t, staff.RoleAdmin, testAdminID, ""), salary.SetConfigRequest{
		StaffID:          testStaffID,
		RestaurantID:     otherRestaurantID,
		SalaryType:       "fixed",
		BaseSalary:       mustDecPtr("2000"),
		PaymentFrequency: "monthly",
		EffectiveDate:    "2026-03-01",
	})
	require.ErrorIs(t, err, salary.ErrStaffRestaurantMismatch)
}

func TestSetConfig_UnknownRestaurant(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.SetConfig(actorCtx(t, staff.RoleAdmin, testAdminID, ""), salary.SetConfigRequest{
		StaffID:          testStaffID,
		RestaurantID:     "no-such-restaurant",
		SalaryType:       "fixed",
		BaseSalary:       mustDecPtr("2000"),
		PaymentFrequency: "monthly",
		EffectiveDate:    "2026-03-01",
	})
	require.ErrorIs(t, err, staff.ErrRestaurantNotFound)
}

func TestSetConfig_OwnerOfOtherRestaurantRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.SetConfig(actorCtx(t, staff.RoleOwner, otherRestaurantOwner, otherRestaurantID), salary.SetConfigRequest{
		StaffID:          testStaffID,
		RestaurantID:     testRestaurantID,
		SalaryType:       "fixed",
		BaseSalary:       mustDecPtr("2000"),
		PaymentFrequency: "monthly",
		EffectiveDate:    "2026-03-01",
	})
	require.ErrorIs(t, err, staff.ErrNotPermitted)
}

func TestUpdateConfig_PartialMerge(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(t)
	cfg := setTestConfig(t, env, ctx)

	updated, err := env.svc.UpdateConfig(ctx, salary.UpdateConfigRequest{
		ID:         cfg.ID,
		BaseSalary: mustDecPtr("2200"),
		Notes:      strP("raise after review"),
	})
	require.NoError(t, err)

	assert.True(t, updated.BaseSalary.Equal(mustDec("2200")))
	assert.Equal(t, "EUR", updated.Currency, "untouched fields keep their value")
	assert.Equal(t, "monthly", updated.PaymentFrequency)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "raise after review", *updated.Notes)
}

func TestUpdateConfig_ActivatingRetiresOtherActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(t)

	first := setTestConfig(t, env, ctx)
	second, err := env.svc.SetConfig(ctx, salary.SetConfigRequest{
		StaffID:          testStaffID,
		RestaurantID:     testRestaurantID,
		SalaryType:       "fixed",
		BaseSalary:       mustDecPtr("2100"),
		PaymentFrequency: "monthly",
		EffectiveDate:    "2026-04-01",
	})
	require.NoError(t, err)

	active := true
	_, err = env.svc.UpdateConfig(ctx, salary.UpdateConfigRequest{ID: first.ID, IsActive: &active})
	require.NoError(t, err)

	current, err := env.configs.GetActiveByStaffID(context.Background(), testStaffID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)

	retired, err := env.configs.GetByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.False(t, retired.IsActive)
}

func TestUpdateConfig_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.UpdateConfig(ownerCtx(t), salary.UpdateConfigRequest{
		ID:         "missing",
		BaseSalary: mustDecPtr("100"),
	})
	require.ErrorIs(t, err, salary.ErrConfigNotFound)
}

func TestGetStaffConfig_DefaultWhenMissing(t *testing.T) {
	env := newTestEnv(t)

	cfg, err := env.svc.GetStaffConfig(ownerCtx(t), testStaffID)
	require.NoError(t, err)

	assert.Empty(t, cfg.ID)
	assert.Equal(t, testStaffID, cfg.StaffID)
	assert.Equal(t, testRestaurantID, cfg.RestaurantID)
	assert.Equal(t, salary.DefaultCurrency, cfg.Currency)
}

func TestGetStaffConfig_UnknownStaff(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.GetStaffConfig(ownerCtx(t), "nobody")
	require.ErrorIs(t, err, staff.ErrStaffNotFound)
}

func TestGetStaffConfig_StaffSeesOwnOnly(t *testing.T) {
	env := newTestEnv(t)
	setTestConfig(t, env, ownerCtx(t))

	selfCtx := actorCtx(t, staff.RoleStaff, testStaffID, testRestaurantID)
	cfg, err := env.svc.GetStaffConfig(selfCtx, testStaffID)
	require.NoError(t, err)
	assert.Equal(t, testStaffID, cfg.StaffID)

	_, err = env.svc.GetStaffConfig(selfCtx, testOwnerID)
	require.ErrorIs(t, err, staff.ErrNotPermitted)
}
