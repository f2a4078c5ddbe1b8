package staff

import "context"

// Actor is the authenticated principal behind a request. Role decides how
// far it can reach: admins see every restaurant, owners only their own,
// staff members only themselves.
type Actor struct {
	Role         Role
	ID           string
	RestaurantID string
}

// ActorFromClaims builds an Actor from JWT claims.
func ActorFromClaims(claims map[string]interface{}) (Actor, error) {
	roleStr, ok := claims["role"].(string)
	if !ok {
		return Actor{}, ErrInvalidActor
	}
	role := Role(roleStr)
	if role != RoleAdmin && role != RoleOwner && role != RoleStaff {
		return Actor{}, ErrInvalidActor
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Actor{}, ErrInvalidActor
	}

	restaurantID, _ := claims["restaurant_id"].(string)
	if role != RoleAdmin && restaurantID == "" {
		return Actor{}, ErrInvalidActor
	}

	return Actor{Role: role, ID: userID, RestaurantID: restaurantID}, nil
}

// Guard is the single capability check in front of every salary operation.
type Guard struct {
	staffRepo Repository
}

func NewGuard(staffRepo Repository) *Guard {
	return &Guard{staffRepo: staffRepo}
}

// ResolveStaff returns the staff record the actor may operate on, or a typed
// rejection. Admins may reach any staff, owners only staff of their own
// restaurant, staff members only themselves.
func (g *Guard) ResolveStaff(ctx context.Context, actor Actor, staffID string) (Staff, error) {
	st, err := g.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return Staff{}, err
	}

	switch actor.Role {
	case RoleAdmin:
		return st, nil
	case RoleOwner:
		if st.RestaurantID != actor.RestaurantID {
			return Staff{}, ErrNotPermitted
		}
		return st, nil
	case RoleStaff:
		if st.ID != actor.ID {
			return Staff{}, ErrNotPermitted
		}
		return st, nil
	default:
		return Staff{}, ErrInvalidActor
	}
}

// RequireRestaurant confirms restaurantID refers to a known restaurant.
func (g *Guard) RequireRestaurant(ctx context.Context, restaurantID string) error {
	exists, err := g.staffRepo.RestaurantExists(ctx, restaurantID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrRestaurantNotFound
	}
	return nil
}

// ResolveRestaurant checks the actor may read restaurant-wide data.
func (g *Guard) ResolveRestaurant(ctx context.Context, actor Actor, restaurantID string) error {
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleOwner:
		if actor.RestaurantID != restaurantID {
			return ErrNotPermitted
		}
		return nil
	default:
		return ErrNotPermitted
	}
}
