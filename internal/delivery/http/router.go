package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"communityhub/internal/delivery/http/controllers"
	"communityhub/internal/delivery/http/middleware"
	"communityhub/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	verifier domain.TokenVerifier,
	registrationController *controllers.RegistrationController,
	paymentController *controllers.PaymentController,
	statsController *controllers.StatsController,
) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	// Registrations
	mux.HandleFunc("POST /registrations/{kind}", optionalAuth(registrationController.Create))
	mux.HandleFunc("GET /registrations/{id}", requireAuth(registrationController.Get))
	mux.HandleFunc("GET /registrations", requireAuth(requireAdmin(registrationController.List)))
	mux.HandleFunc("PUT /registrations/{id}/status", optionalAuth(registrationController.UpdateStatus))

	// Payments
	mux.HandleFunc("POST /donations", optionalAuth(paymentController.CreateDonation))
	mux.HandleFunc("POST /donations/{id}/cancel", optionalAuth(paymentController.CancelDonation))
	mux.HandleFunc("POST /payments/order", paymentController.CreateOrder)
	mux.HandleFunc("POST /payments/callback", paymentController.Callback)

	// Stats
	mux.HandleFunc("GET /stats/overview", requireAuth(requireAdmin(statsController.Overview)))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
