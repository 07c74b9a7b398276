package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"hall-backend/config"
	"hall-backend/controllers"
	"hall-backend/routes"
	"hall-backend/services"
	"hall-backend/utils"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	services.SetLogger(log)

	if err := godotenv.Load(); err != nil {
		log.Info(".env not found; continuing with environment variables")
	}

	sessionSecret := os.Getenv("JWT_SECRET")
	if sessionSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}
	legacySecret := utils.EnvOrDefault("LEGACY_JWT_SECRET", sessionSecret)

	if err := config.ConnectDatabase(log); err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	db := config.DB

	outbox := services.NewOutbox(log, 256)
	defer outbox.Close()

	mailer := utils.NewMailer(log)
	tokens := services.NewTokenService(sessionSecret, legacySecret, 24*time.Hour)
	resolver := services.NewAccessResolver(db)

	auditService := services.NewAuditService(db, outbox)
	pricingService := services.NewPricingService(db)
	bookingService := services.NewBookingService(db, pricingService)
	quotationService := services.NewQuotationService(db, mailer, auditService, outbox)
	invoiceService := services.NewInvoiceService(db, mailer, auditService, outbox)
	hallService := services.NewHallService(db)
	userService := services.NewUserService(db, tokens)

	router := routes.SetupRouter(routes.Controllers{
		Auth:       controllers.NewAuthController(userService),
		Bookings:   controllers.NewBookingController(bookingService),
		Quotations: controllers.NewQuotationController(quotationService),
		Invoices:   controllers.NewInvoiceController(invoiceService),
		Halls:      controllers.NewHallController(hallService),
		Pricing:    controllers.NewPricingController(pricingService),
		Audit:      controllers.NewAuditController(auditService),
	}, tokens, resolver, log)

	port := utils.EnvOrDefault("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("forced shutdown")
	}
	log.Info("server stopped")
}
