package staff

import "errors"

var (
	ErrStaffNotFound      = errors.New("staff not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrNotPermitted       = errors.New("actor is not permitted to act on this staff member")
	ErrInvalidActor       = errors.New("actor claims are missing or malformed")
)
