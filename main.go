package main

import (
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	"communityhub/config"
	_ "communityhub/docs"
	"communityhub/internal/adapters/auth"
	"communityhub/internal/adapters/email"
	"communityhub/internal/adapters/payment"
	"communityhub/internal/adapters/payment/razorpay"
	deliveryhttp "communityhub/internal/delivery/http"
	"communityhub/internal/delivery/http/controllers"
	"communityhub/internal/delivery/http/middleware"
	"communityhub/internal/repository/postgres"
	"communityhub/internal/services"
)

// @title Community Hub API
// @version 1.0
// @description Registration and payment reconciliation backend for the community platform.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	registrationRepo := postgres.NewRegistrationRepository(db)
	donationRepo := postgres.NewDonationRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	}, logger)
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}
	notifier := services.NewNotificationService(mailer, email.NewTemplateRenderer(), logger)

	gateway := razorpay.NewClient(nil, razorpay.Config{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
	}, logger)
	verifier := payment.NewHMACVerifier(cfg.RazorpayWebhookSecret)

	registrationService := services.NewRegistrationService(registrationRepo, notifier, logger)
	paymentService := services.NewPaymentService(donationRepo, registrationRepo, gateway, verifier, notifier, logger)
	statsService := services.NewStatsService(statsRepo)

	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	mux := deliveryhttp.NewRouter(
		tokenVerifier,
		controllers.NewRegistrationController(logger, registrationService),
		controllers.NewPaymentController(logger, paymentService),
		controllers.NewStatsController(logger, statsService),
	)

	handler := middleware.LoggingMiddleware(logger,
		middleware.CORS(cfg.CORSAllowedOrigins, mux))

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
