package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/tablewise/restopay-backend-go/internal/handler/http/middleware"
	"github.com/tablewise/restopay-backend-go/internal/pkg/jwt"
)

func NewRouter(jwtService jwt.Service, authHandler AuthHandler, salaryHandler SalaryHandler, advanceHandler AdvanceHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "restopay"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/staff/{staffID}", func(r chi.Router) {
				r.Route("/salary-config", func(r chi.Router) {
					r.Put("/", salaryHandler.SetConfig)
					r.Get("/", salaryHandler.GetStaffConfig)
				})

				r.Route("/salary-payments", func(r chi.Router) {
					r.Post("/", salaryHandler.CreatePayment)
					r.Get("/", salaryHandler.ListStaffPayments)
				})
				r.Get("/salary-summary", salaryHandler.GetStaffPaymentSummary)

				r.Route("/advance-payments", func(r chi.Router) {
					r.Post("/", advanceHandler.CreateAdvance)
					r.Get("/", advanceHandler.ListStaffAdvances)
				})
				r.Get("/advance-summary", advanceHandler.GetStaffAdvanceSummary)
			})

			r.Route("/salary-configs/{id}", func(r chi.Router) {
				r.Patch("/", salaryHandler.UpdateConfig)
			})

			r.Route("/salary-payments/{id}", func(r chi.Router) {
				r.Patch("/", salaryHandler.UpdatePayment)
				r.Delete("/", salaryHandler.DeletePayment)
			})

			r.Route("/advance-payments/{id}", func(r chi.Router) {
				r.Patch("/", advanceHandler.UpdateAdvance)
				r.Delete("/", advanceHandler.DeleteAdvance)
			})

			r.Get("/restaurants/{restaurantID}/salary-payments", salaryHandler.ListRestaurantPayments)
		})
	})
	return r
}
