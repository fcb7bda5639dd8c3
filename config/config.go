package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisLimiterDB int    `mapstructure:"REDIS_LIMITER_DB"`

	// Stripe.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Twilio SMS.
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `mapstructure:"TWILIO_FROM"`

	// Firebase Cloud Messaging.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Phone verification.
	OTPTTLMinutes  int `mapstructure:"OTP_TTL_MINUTES"`
	OTPMaxAttempts int `mapstructure:"OTP_MAX_ATTEMPTS"`

	// Booking policy: when true, owner confirmation requires the booking
	// payment to have settled.
	RequirePaidConfirm bool `mapstructure:"BOOKING_REQUIRE_PAID_CONFIRM"`

	// Rate-limit policies (fixed window).
	OTPLimitWindowMs     int  `mapstructure:"RATE_OTP_WINDOW_MS"`
	OTPLimitMaxRequests  int  `mapstructure:"RATE_OTP_MAX_REQUESTS"`
	AuthLimitWindowMs    int  `mapstructure:"RATE_AUTH_WINDOW_MS"`
	AuthLimitMaxRequests int  `mapstructure:"RATE_AUTH_MAX_REQUESTS"`
	GeneralLimitWindowMs int  `mapstructure:"RATE_GENERAL_WINDOW_MS"`
	GeneralLimitMaxReqs  int  `mapstructure:"RATE_GENERAL_MAX_REQUESTS"`
	GlobalRequestsPerMin int  `mapstructure:"MAX_REQUESTS_PER_MIN"`
	UseRedisRateLimiter  bool `mapstructure:"RATE_LIMITER_REDIS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LIMITER_DB", 1)
	viper.SetDefault("OTP_TTL_MINUTES", 10)
	viper.SetDefault("OTP_MAX_ATTEMPTS", 3)
	viper.SetDefault("BOOKING_REQUIRE_PAID_CONFIRM", true)
	viper.SetDefault("RATE_OTP_WINDOW_MS", 60000)
	viper.SetDefault("RATE_OTP_MAX_REQUESTS", 5)
	viper.SetDefault("RATE_AUTH_WINDOW_MS", 60000)
	viper.SetDefault("RATE_AUTH_MAX_REQUESTS", 20)
	viper.SetDefault("RATE_GENERAL_WINDOW_MS", 60000)
	viper.SetDefault("RATE_GENERAL_MAX_REQUESTS", 120)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("RATE_LIMITER_REDIS", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// OTPTTL returns the verification challenge lifetime.
func OTPTTL() time.Duration {
	return time.Duration(AppConfig.OTPTTLMinutes) * time.Minute
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
