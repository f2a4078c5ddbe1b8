package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewise/restopay-backend-go/internal/domain/auth"
	"github.com/tablewise/restopay-backend-go/internal/domain/staff"
	"github.com/tablewise/restopay-backend-go/internal/pkg/jwt"
	"github.com/tablewise/restopay-backend-go/internal/repository/memory"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "auth-service-test-secret"
	testPassword = "password123"
)

func newTestService(t *testing.T) (Service, *memory.StaffRepository, jwt.Service) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	repo := memory.NewStaffRepository()
	repo.Seed(staff.Staff{
		ID:           "owner-1",
		RestaurantID: "rest-1",
		Name:         "Olive Owner",
		Email:        "owner@resto.test",
		PasswordHash: string(hash),
		Role:         staff.RoleOwner,
		IsActive:     true,
	})
	repo.Seed(staff.Staff{
		ID:           "inactive-1",
		RestaurantID: "rest-1",
		Email:        "gone@resto.test",
		PasswordHash: string(hash),
		Role:         staff.RoleStaff,
		IsActive:     false,
	})

	jwtSvc := jwt.NewJWTService(testSecret, "1h", "24h")
	return NewAuthService(repo, jwtSvc), repo, jwtSvc
}

func TestLogin_Success(t *testing.T) {
	svc, _, jwtSvc := newTestService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "owner@resto.test",
		Password: testPassword,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.RefreshTokenExpiresAt, resp.AccessTokenExpiresAt)

	token, err := jwtSvc.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims["user_id"])
	assert.Equal(t, "owner", claims["role"])
	assert.Equal(t, "rest-1", claims["restaurant_id"])
	assert.Equal(t, "access", claims["type"])
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "owner@resto.test",
		Password: "not-the-password",
	})
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@resto.test",
		Password: testPassword,
	})
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "gone@resto.test",
		Password: testPassword,
	})
	require.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestLogin_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})
	require.Error(t, err)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, jwtSvc := newTestService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "owner@resto.test",
		Password: testPassword,
	})
	require.NoError(t, err)
	require.False(t, jwtSvc.IsTokenRevoked(resp.AccessToken))

	require.NoError(t, svc.Logout(context.Background(), resp.AccessToken))
	assert.True(t, jwtSvc.IsTokenRevoked(resp.AccessToken))
}

func TestLogout_EmptyToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	require.ErrorIs(t, svc.Logout(context.Background(), ""), auth.ErrInvalidToken)
}
