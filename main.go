// File: roomhive/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomhive/config"
	"roomhive/database"
	accountRepoPkg "roomhive/database/repository/account"
	bookingRepoPkg "roomhive/database/repository/booking"
	roomRepoPkg "roomhive/database/repository/room"
	verificationRepoPkg "roomhive/database/repository/verification"
	"roomhive/handlers"
	"roomhive/middleware"
	"roomhive/routes"
	"roomhive/services/account"
	"roomhive/services/booking"
	"roomhive/services/notify"
	"roomhive/services/phone"
	"roomhive/services/sms"
	"roomhive/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.GlobalRateLimit(config.AppConfig.GlobalRequestsPerMin))

	// repositories.
	accountRepo := accountRepoPkg.NewMongoAccountRepo()
	challengeRepo := verificationRepoPkg.NewMongoChallengeRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	roomRepo := roomRepoPkg.NewMongoRoomRepo()

	// SMS delivery: Twilio in production, log sender otherwise.
	var sender sms.Sender
	if twilioSender, err := sms.NewTwilioSender(logger); err == nil {
		sender = twilioSender
	} else {
		logger.Sugar().Warnf("main: twilio unavailable, falling back to log sender: %v", err)
		sender = &sms.LogSender{Logger: logger}
	}

	// Push notifications: FCM when configured, no-op otherwise.
	var notifier notify.Notifier
	if config.AppConfig.FirebaseCredentialsFile != "" {
		fcm, err := notify.NewFCMNotifier(accountRepo, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize FCM: %v", err)
		}
		notifier = fcm
	} else {
		notifier = notify.NoopNotifier{}
	}

	// Rate-limit store: shared Redis counters when enabled, else in-process.
	var rateStore middleware.RateStore
	if config.AppConfig.UseRedisRateLimiter {
		rateStore = middleware.NewRedisRateStore(database.GetLimiterClient())
	} else {
		rateStore = middleware.NewMemoryRateStore()
	}

	// services.
	accountService := &account.Service{Repo: accountRepo, Logger: logger}
	gate := phone.NewGate(challengeRepo, accountRepo, sender, logger,
		config.AppConfig.OTPMaxAttempts, config.OTPTTL())
	bookingService := &booking.Service{
		Bookings:           bookingRepo,
		Rooms:              roomRepo,
		Accounts:           accountRepo,
		Gateway:            booking.StripeGateway{},
		Notify:             notifier,
		Logger:             logger,
		RequirePaidConfirm: config.AppConfig.RequirePaidConfirm,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Auth:      handlers.NewAuthHandler(accountService),
		Phone:     handlers.NewPhoneHandler(gate),
		Booking:   handlers.NewBookingHandler(bookingService),
		RateStore: rateStore,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
