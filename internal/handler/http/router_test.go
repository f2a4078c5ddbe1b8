package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewise/restopay-backend-go/internal/domain/staff"
	"github.com/tablewise/restopay-backend-go/internal/pkg/audit"
	"github.com/tablewise/restopay-backend-go/internal/pkg/jwt"
	"github.com/tablewise/restopay-backend-go/internal/repository/memory"
	authService "github.com/tablewise/restopay-backend-go/internal/service/auth"
	salaryService "github.com/tablewise/restopay-backend-go/internal/service/salary"
	"github.com/tablewise/restopay-backend-go/internal/service/settlement"
	"golang.org/x/crypto/bcrypt"
)

const (
	routerTestSecret   = "router-test-secret"
	routerTestPassword = "password123"
	routerRestaurantID = "rest-1"
	routerOwnerID      = "owner-1"
	routerStaffID      = "staff-1"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(routerTestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	staffRepo := memory.NewStaffRepository()
	staffRepo.Seed(staff.Staff{
		ID:           routerOwnerID,
		RestaurantID: routerRestaurantID,
		Name:         "Olive Owner",
		Email:        "owner@resto.test",
		PasswordHash: string(hash),
		Role:         staff.RoleOwner,
		IsActive:     true,
	})
	staffRepo.Seed(staff.Staff{
		ID:           routerStaffID,
		RestaurantID: routerRestaurantID,
		Name:         "Sam Server",
		Email:        "sam@resto.test",
		PasswordHash: string(hash),
		Role:         staff.RoleStaff,
		IsActive:     true,
	})

	advances := memory.NewAdvanceRepository()
	recorder := audit.NewLogRecorder(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	jwtSvc := jwt.NewJWTService(routerTestSecret, "1h", "24h")

	salarySvc := salaryService.NewSalaryService(
		memory.TxRunner{},
		staff.NewGuard(staffRepo),
		memory.NewConfigRepository(),
		advances,
		memory.NewPaymentRepository(),
		settlement.NewEngine(advances),
		recorder,
	)
	authSvc := authService.NewAuthService(staffRepo, jwtSvc)

	router := NewRouter(jwtSvc, NewAuthHandler(authSvc), NewSalaryHandler(salarySvc), NewAdvanceHandler(salarySvc))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func login(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": routerTestPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	token, ok := data["access_token"].(string)
	require.True(t, ok)
	return token
}

func TestRouter_LoginAndSalaryFlow(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "owner@resto.test")

	// Record an advance for the staff member.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/staff/"+routerStaffID+"/advance-payments", token, map[string]interface{}{
		"restaurant_id": routerRestaurantID,
		"amount":        "100",
		"advance_date":  "2026-03-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	// A payment of 500 deducts the full advance.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/staff/"+routerStaffID+"/salary-payments", token, map[string]interface{}{
		"restaurant_id": routerRestaurantID,
		"period_start":  "2026-03-01",
		"period_end":    "2026-03-31",
		"base_amount":   "500",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "100", fmt.Sprint(data["advance_deduction"]))
	assert.Equal(t, "400", fmt.Sprint(data["total_amount"]))

	// The advance now shows as settled.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/staff/"+routerStaffID+"/advance-payments?settled=true", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	advancesList := body["data"].([]interface{})
	require.Len(t, advancesList, 1)
	assert.Equal(t, true, advancesList[0].(map[string]interface{})["is_settled"])
}

func TestRouter_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/staff/"+routerStaffID+"/salary-config", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestRouter_RejectsRefreshTokenOnAPIRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    "owner@resto.test",
		"password": routerTestPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	refresh := body["data"].(map[string]interface{})["refresh_token"].(string)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/staff/"+routerStaffID+"/salary-config", refresh, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "owner@resto.test")

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/staff/"+routerStaffID+"/salary-config", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The revoked token no longer reaches any authenticated route.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/staff/"+routerStaffID+"/salary-config", token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_LoginFailure(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    "owner@resto.test",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestRouter_StaffScopeEnforced(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "sam@resto.test")

	// A staff member reads their own data.
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/staff/"+routerStaffID+"/salary-config", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// But not a colleague's.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/staff/"+routerOwnerID+"/salary-config", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// And not the restaurant-wide listing.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/restaurants/"+routerRestaurantID+"/salary-payments", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "owner@resto.test")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/staff/"+routerStaffID+"/advance-payments", token, map[string]interface{}{
		"restaurant_id": routerRestaurantID,
		"amount":        "0",
		"advance_date":  "bad",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	errDetail := body["error"].(map[string]interface{})
	details := errDetail["details"].(map[string]interface{})
	assert.Contains(t, details, "amount")
	assert.Contains(t, details, "advance_date")
}

func TestRouter_DeletePaidPaymentRejected(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "owner@resto.test")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/staff/"+routerStaffID+"/salary-payments", token, map[string]interface{}{
		"restaurant_id":  routerRestaurantID,
		"period_start":   "2026-03-01",
		"period_end":     "2026-03-31",
		"base_amount":    "300",
		"payment_status": "paid",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	paymentID := body["data"].(map[string]interface{})["id"].(string)

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/salary-payments/"+paymentID, token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errDetail := body["error"].(map[string]interface{})
	assert.Equal(t, "PAYMENT_NOT_PENDING", errDetail["code"])
}

func TestRouter_InvalidStatusTransitionConflicts(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "owner@resto.test")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/staff/"+routerStaffID+"/salary-payments", token, map[string]interface{}{
		"restaurant_id":  routerRestaurantID,
		"period_start":   "2026-03-01",
		"period_end":     "2026-03-31",
		"base_amount":    "300",
		"payment_status": "paid",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	paymentID := body["data"].(map[string]interface{})["id"].(string)

	resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/api/v1/salary-payments/"+paymentID, token, map[string]interface{}{
		"payment_status": "pending",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouter_UnknownStaffNotFound(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "owner@resto.test")

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/staff/ghost/salary-summary", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
