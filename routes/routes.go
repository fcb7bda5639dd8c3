package routes

import (
	"net/http"
	"time"

	"roomhive/config"
	"roomhive/handlers"
	"roomhive/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers and the rate-limit store the routes need.
type HandlerBundle struct {
	Auth    *handlers.AuthHandler
	Phone   *handlers.PhoneHandler
	Booking *handlers.BookingHandler

	RateStore middleware.RateStore
}

// policies builds the named fixed-window policies from config. Stricter
// windows guard the verification endpoints than general reads.
func policies() map[string]middleware.RatePolicy {
	cfg := config.AppConfig
	return map[string]middleware.RatePolicy{
		"otp": {
			Window:      time.Duration(cfg.OTPLimitWindowMs) * time.Millisecond,
			MaxRequests: cfg.OTPLimitMaxRequests,
		},
		"auth": {
			Window:      time.Duration(cfg.AuthLimitWindowMs) * time.Millisecond,
			MaxRequests: cfg.AuthLimitMaxRequests,
		},
		"general": {
			Window:      time.Duration(cfg.GeneralLimitWindowMs) * time.Millisecond,
			MaxRequests: cfg.GeneralLimitMaxReqs,
		},
	}
}

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *HandlerBundle, p map[string]middleware.RatePolicy) {
	api := r.Group("/api/auth")
	api.Use(middleware.RateLimit(hb.RateStore, "auth", p["auth"]))
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuth())
		api.GET("/me", hb.Auth.MeHandler)
	}
}

// RegisterPhoneRoutes registers the verification gate endpoints.
func RegisterPhoneRoutes(r *gin.Engine, hb *HandlerBundle, p map[string]middleware.RatePolicy) {
	api := r.Group("/api/verify-phone")
	api.Use(middleware.RateLimit(hb.RateStore, "otp", p["otp"]))
	{
		api.POST("", hb.Phone.IssueHandler)

		api.Use(middleware.JWTAuth())
		api.POST("/confirm", hb.Phone.ConfirmHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle, p map[string]middleware.RatePolicy) {
	api := r.Group("/api/bookings")
	api.Use(middleware.RateLimit(hb.RateStore, "general", p["general"]))
	{
		api.Use(middleware.JWTAuth())
		api.POST("", hb.Booking.CreateHandler)
		api.GET("/user/:userId", hb.Booking.ListHandler)
		api.GET("/:id", hb.Booking.GetHandler)
		api.GET("/:id/payment-status", hb.Booking.PaymentStatusHandler)
		api.POST("/:id/payment-intent", hb.Booking.PaymentIntentHandler)
		api.PUT("/:id/confirm", hb.Booking.ConfirmHandler)
		api.PUT("/:id/complete", hb.Booking.CompleteHandler)
		api.PUT("/:id/cancel", hb.Booking.CancelHandler)
	}
}

// RegisterPaymentRoutes registers the gateway reconciliation feed.
func RegisterPaymentRoutes(r *gin.Engine, hb *HandlerBundle, p map[string]middleware.RatePolicy) {
	api := r.Group("/api/payments")
	api.Use(middleware.RateLimit(hb.RateStore, "general", p["general"]))
	{
		api.POST("/webhook", hb.Booking.WebhookHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Roomhive"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	p := policies()
	RegisterAuthRoutes(r, hb, p)
	RegisterPhoneRoutes(r, hb, p)
	RegisterBookingRoutes(r, hb, p)
	RegisterPaymentRoutes(r, hb, p)
	RegisterHealthRoute(r)
}
