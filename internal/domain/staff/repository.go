package staff

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Staff, error)
	GetByEmail(ctx context.Context, email string) (Staff, error)
	RestaurantExists(ctx context.Context, restaurantID string) (bool, error)
}
