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

func TestCreateAdvance_DefaultsToPaid(t *testing.T) {
	env := newTestEnv(t)

	adv := createTestAdvance(t, env, ownerCtx(t), "80")

	assert.Equal(t, string(salary.StatusPaid), adv.PaymentStatus)
	assert.False(t, adv.IsSettled)
	assert.Equal(t, "2026-03-01", adv.AdvanceDate)

	stored, err := env.advances.GetByID(context.Background(), adv.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CreatedBy)
	assert.Equal(t, string(staff.RoleOwner), *stored.CreatedBy)
	require.NotNil(t, stored.CreatedByID)
	assert.Equal(t, testOwnerID, *stored.CreatedByID)
}

func TestCreateAdvance_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateAdvance(ownerCtx(t), salary.CreateAdvanceRequest{
		StaffID:      testStaffID,
		RestaurantID: testRestaurantID,
		Amount:       mustDec("0"),
		AdvanceDate:  "03/01/2026",
	})
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "amount")
	assert.Contains(t, fields, "advance_date")
}

func TestCreateAdvance_RestaurantMismatch(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateAdvance(actorCtx(t, staff.RoleAdmin, testAdminID, ""), salary.CreateAdvanceRequest{
		StaffID:      testStaffID,
		RestaurantID: otherRestaurantID,
		Amount:       mustDec("50"),
		AdvanceDate:  "2026-03-01",
	})
	require.ErrorIs(t, err, salary.ErrStaffRestaurantMismatch)
}

func TestCreateAdvance_UnknownRestaurant(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateAdvance(actorCtx(t, staff.RoleAdmin, testAdminID, ""), salary.CreateAdvanceRequest{
		StaffID:      testStaffID,
		RestaurantID: "no-such-restaurant",
		Amount:       mustDec("50"),
		AdvanceDate:  "2026-03-01",
	})
	require.ErrorIs(t, err, staff.ErrRestaurantNotFound)
}

func TestUpdateAdvance_PartialMerge(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(t)
	adv := createTestAdvance(t, env, ctx, "80")

	updated, err := env.svc.UpdateAdvance(ctx, salary.UpdateAdvanceRequest{
		ID:     adv.ID,
		Amount: mustDecPtr("95"),
		Notes:  strP("topped up"),
	})
	require.NoError(t, err)

	assert.True(t, updated.Amount.Equal(mustDec("95")))
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "topped up", *updated.Notes)
	assert.Equal(t, "2026-03-01", updated.AdvanceDate, "untouched fields keep their value")
}

func TestUpdateAdvance_SettledIsFrozen(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(t)
	adv := createTestAdvance(t, env, ctx, "100")
	createTestPayment(t, env, ctx, salary.CreatePaymentRequest{
		BaseAmount: mustDec("500"),
	})

	_, err := env.svc.UpdateAdvance(ctx, salary.UpdateAdvanceRequest{
		ID:     adv.ID,
		Amount: mustDecPtr("200"),
	})
	require.ErrorIs(t, err, salary.ErrAdvanceSettled)
}

// The settled remainder left behind by a partial reversal is as frozen as
// any other settled advance.
func TestDeleteAdvance_SettledRemainderRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(t)
	adv := createTestAdvance(t, env, ctx, "100")
	p := createTestPayment(t, env, ctx, salary.CreatePaymentRequest{
		BaseAmount: mustDec("500"),
	})
	require.True(t, p.AdvanceDeduction.Equal(mustDec("100")))

	_, err := env.svc.UpdatePayment(ctx, salary.UpdatePaymentRequest{
		ID:               p.ID,
		AdvanceDeduction: mustDecPtr("40"),
	})
	require.NoError(t, err)

	remainder, err := env.advances.GetByID(context.Background(), adv.ID)
	require.NoError(t, err)
	require.True(t, remainder.IsSettled)
	require.True(t, remainder.Amount.Equal(mustDec("40")))

	err = env.svc.DeleteAdvance(ctx, remainder.ID)
	require.ErrorIs(t, err, salary.ErrAdvanceSettled)
}

func TestDeleteAdvance_Unsettled(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(t)
	adv := createTestAdvance(t, env, ctx, "60")

	err := env.svc.DeleteAdvance(ctx, adv.ID)
	require.NoError(t, err)

	_, err = env.advances.GetByID(context.Background(), adv.ID)
	require.ErrorIs(t, err, salary.ErrAdvanceNotFound)
}

func TestDeleteAdvance_NotFound(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.DeleteAdvance(ownerCtx(t), "missing")
	require.ErrorIs(t, err, salary.ErrAdvanceNotFound)
}

func TestListStaffAdvances_SettledFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(t)
	createTestAdvance(t, env, ctx, "100")
	createTestAdvance(t, env, ctx, "40")
	createTestPayment(t, env, ctx, salary.CreatePaymentRequest{
		BaseAmount:       mustDec("500"),
		AdvanceDeduction: mustDecPtr("100"),
	})

	settled := true
	result, err := env.svc.ListStaffAdvances(ctx, testStaffID, salary.AdvanceFilter{Settled: &settled})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].Amount.Equal(mustDec("100")))

	unsettledFlag := false
	result, err = env.svc.ListStaffAdvances(ctx, testStaffID, salary.AdvanceFilter{Settled: &unsettledFlag})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].Amount.Equal(mustDec("40")))
}

func TestGetStaffAdvanceSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx(t)
	createTestAdvance(t, env, ctx, "100")
	createTestAdvance(t, env, ctx, "40")
	createTestPayment(t, env, ctx, salary.CreatePaymentRequest{
		BaseAmount:       mustDec("500"),
		AdvanceDeduction: mustDecPtr("100"),
	})

	summary, err := env.svc.GetStaffAdvanceSummary(ctx, testStaffID)
	require.NoError(t, err)

	assert.True(t, summary.TotalAdvance.Equal(mustDec("140")))
	assert.True(t, summary.TotalSettled.Equal(mustDec("100")))
	assert.True(t, summary.PendingSettlement.Equal(mustDec("40")))
	assert.Equal(t, 1, summary.UnsettledCount)
}

func TestGetStaffAdvanceSummary_StaffSelfOnly(t *testing.T) {
	env := newTestEnv(t)

	selfCtx := actorCtx(t, staff.RoleStaff, testStaffID, testRestaurantID)
	_, err := env.svc.GetStaffAdvanceSummary(selfCtx, testStaffID)
	require.NoError(t, err)

	_, err = env.svc.GetStaffAdvanceSummary(selfCtx, testOwnerID)
	require.ErrorIs(t, err, staff.ErrNotPermitted)
}
