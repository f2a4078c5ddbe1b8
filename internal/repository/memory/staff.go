package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tablewise/restopay-backend-go/internal/domain/staff"
)

type StaffRepository struct {
	mu          sync.RWMutex
	staff       map[string]staff.Staff
	restaurants map[string]bool
}

func NewStaffRepository() *StaffRepository {
	return &StaffRepository{
		staff:       make(map[string]staff.Staff),
		restaurants: make(map[string]bool),
	}
}

// Seed registers a staff member and its restaurant. Test helper.
func (r *StaffRepository) Seed(st staff.Staff) staff.Staff {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now()
	}
	st.UpdatedAt = st.CreatedAt
	r.staff[st.ID] = st
	if st.RestaurantID != "" {
		r.restaurants[st.RestaurantID] = true
	}
	return st
}

func (r *StaffRepository) GetByID(_ context.Context, id string) (staff.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.staff[id]
	if !ok {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return st, nil
}

func (r *StaffRepository) GetByEmail(_ context.Context, email string) (staff.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, st := range r.staff {
		if st.Email == email {
			return st, nil
		}
	}
	return staff.Staff{}, staff.ErrStaffNotFound
}

func (r *StaffRepository) RestaurantExists(_ context.Context, restaurantID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.restaurants[restaurantID], nil
}
