package staff_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewise/restopay-backend-go/internal/domain/staff"
	"github.com/tablewise/restopay-backend-go/internal/repository/memory"
)

func newGuard() (*staff.Guard, *memory.StaffRepository) {
	repo := memory.NewStaffRepository()
	repo.Seed(staff.Staff{ID: "owner-1", RestaurantID: "rest-1", Role: staff.RoleOwner, IsActive: true})
	repo.Seed(staff.Staff{ID: "member-1", RestaurantID: "rest-1", Role: staff.RoleStaff, IsActive: true})
	repo.Seed(staff.Staff{ID: "member-2", RestaurantID: "rest-2", Role: staff.RoleStaff, IsActive: true})
	return staff.NewGuard(repo), repo
}

func TestActorFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  map[string]interface{}
		want    staff.Actor
		wantErr bool
	}{
		{
			name:   "owner",
			claims: map[string]interface{}{"role": "owner", "user_id": "owner-1", "restaurant_id": "rest-1"},
			want:   staff.Actor{Role: staff.RoleOwner, ID: "owner-1", RestaurantID: "rest-1"},
		},
		{
			name:   "admin without restaurant",
			claims: map[string]interface{}{"role": "admin", "user_id": "admin-1"},
			want:   staff.Actor{Role: staff.RoleAdmin, ID: "admin-1"},
		},
		{
			name:    "owner without restaurant",
			claims:  map[string]interface{}{"role": "owner", "user_id": "owner-1"},
			wantErr: true,
		},
		{
			name:    "unknown role",
			claims:  map[string]interface{}{"role": "root", "user_id": "x", "restaurant_id": "rest-1"},
			wantErr: true,
		},
		{
			name:    "missing user id",
			claims:  map[string]interface{}{"role": "staff", "restaurant_id": "rest-1"},
			wantErr: true,
		},
		{
			name:    "no claims",
			claims:  map[string]interface{}{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor, err := staff.ActorFromClaims(tt.claims)
			if tt.wantErr {
				require.ErrorIs(t, err, staff.ErrInvalidActor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, actor)
		})
	}
}

func TestGuard_ResolveStaff(t *testing.T) {
	guard, _ := newGuard()
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   staff.Actor
		staffID string
		wantErr error
	}{
		{name: "admin reaches anyone", actor: staff.Actor{Role: staff.RoleAdmin, ID: "admin-1"}, staffID: "member-2"},
		{name: "owner reaches own restaurant", actor: staff.Actor{Role: staff.RoleOwner, ID: "owner-1", RestaurantID: "rest-1"}, staffID: "member-1"},
		{name: "owner blocked on other restaurant", actor: staff.Actor{Role: staff.RoleOwner, ID: "owner-1", RestaurantID: "rest-1"}, staffID: "member-2", wantErr: staff.ErrNotPermitted},
		{name: "staff reaches self", actor: staff.Actor{Role: staff.RoleStaff, ID: "member-1", RestaurantID: "rest-1"}, staffID: "member-1"},
		{name: "staff blocked on colleague", actor: staff.Actor{Role: staff.RoleStaff, ID: "member-1", RestaurantID: "rest-1"}, staffID: "owner-1", wantErr: staff.ErrNotPermitted},
		{name: "unknown staff id", actor: staff.Actor{Role: staff.RoleAdmin, ID: "admin-1"}, staffID: "ghost", wantErr: staff.ErrStaffNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := guard.ResolveStaff(ctx, tt.actor, tt.staffID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.staffID, st.ID)
		})
	}
}

func TestGuard_ResolveRestaurant(t *testing.T) {
	guard, _ := newGuard()
	ctx := context.Background()

	assert.NoError(t, guard.ResolveRestaurant(ctx, staff.Actor{Role: staff.RoleAdmin, ID: "admin-1"}, "rest-2"))
	assert.NoError(t, guard.ResolveRestaurant(ctx, staff.Actor{Role: staff.RoleOwner, ID: "owner-1", RestaurantID: "rest-1"}, "rest-1"))
	assert.ErrorIs(t, guard.ResolveRestaurant(ctx, staff.Actor{Role: staff.RoleOwner, ID: "owner-1", RestaurantID: "rest-1"}, "rest-2"), staff.ErrNotPermitted)
	assert.ErrorIs(t, guard.ResolveRestaurant(ctx, staff.Actor{Role: staff.RoleStaff, ID: "member-1", RestaurantID: "rest-1"}, "rest-1"), staff.ErrNotPermitted)
}

func TestGuard_RequireRestaurant(t *testing.T) {
	guard, _ := newGuard()
	ctx := context.Background()

	assert.NoError(t, guard.RequireRestaurant(ctx, "rest-1"))
	assert.ErrorIs(t, guard.RequireRestaurant(ctx, "no-such-restaurant"), staff.ErrRestaurantNotFound)
}
