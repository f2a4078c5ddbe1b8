package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/tablewise/restopay-backend-go/internal/config"
	"github.com/tablewise/restopay-backend-go/internal/domain/staff"
	appHTTP "github.com/tablewise/restopay-backend-go/internal/handler/http"
	"github.com/tablewise/restopay-backend-go/internal/pkg/audit"
	"github.com/tablewise/restopay-backend-go/internal/pkg/database"
	"github.com/tablewise/restopay-backend-go/internal/pkg/jwt"
	"github.com/tablewise/restopay-backend-go/internal/repository/postgresql"
	authService "github.com/tablewise/restopay-backend-go/internal/service/auth"
	salaryService "github.com/tablewise/restopay-backend-go/internal/service/salary"
	"github.com/tablewise/restopay-backend-go/internal/service/settlement"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	staffRepo := postgresql.NewStaffRepository(db)
	configRepo := postgresql.NewConfigRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)
	auditStore := postgresql.NewAuditStore(db)
	txRunner := postgresql.NewTxRunner(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	guard := staff.NewGuard(staffRepo)
	engine := settlement.NewEngine(advanceRepo)
	recorder := audit.NewLogRecorder(slog.New(slog.NewJSONHandler(os.Stdout, nil)), auditStore)

	authSvc := authService.NewAuthService(staffRepo, jwtSvc)
	salarySvc := salaryService.NewSalaryService(txRunner, guard, configRepo, advanceRepo, paymentRepo, engine, recorder)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	salaryHandler := appHTTP.NewSalaryHandler(salarySvc)
	advanceHandler := appHTTP.NewAdvanceHandler(salarySvc)

	router := appHTTP.NewRouter(jwtSvc, authHandler, salaryHandler, advanceHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
