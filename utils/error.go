package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Stable machine-readable error codes returned to clients.
const (
	CodeValidation      = "VALIDATION"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeEmailTaken      = "EMAIL_TAKEN"
	CodePhoneTaken      = "PHONE_TAKEN"
	CodeRateLimited     = "RATE_LIMITED"
	CodeOTPInvalid      = "OTP_INVALID_OR_EXPIRED"
	CodeOTPIncorrect    = "OTP_INCORRECT"
	CodePaymentRequired = "PAYMENT_REQUIRED"
	CodePaymentGateway  = "PAYMENT_GATEWAY"
	CodeInternal        = "INTERNAL"
)

// AppError is the error type surfaced to HTTP clients. Code is stable and
// machine readable; Hint carries an optional remediation suggestion.
type AppError struct {
	Code    string
	Status  int
	Message string
	Hint    string
}

func (e *AppError) Error() string {
	return e.Message
}

func ValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Status: http.StatusBadRequest, Message: message}
}

func AuthenticationError(message string) *AppError {
	return &AppError{Code: CodeUnauthenticated, Status: http.StatusUnauthorized, Message: message}
}

func ForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Status: http.StatusForbidden, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

func ConflictError(code, message, hint string) *AppError {
	return &AppError{Code: code, Status: http.StatusConflict, Message: message, Hint: hint}
}

func RateLimitedError(message, hint string) *AppError {
	return &AppError{Code: CodeRateLimited, Status: http.StatusTooManyRequests, Message: message, Hint: hint}
}

func GatewayError(message string) *AppError {
	return &AppError{Code: CodePaymentGateway, Status: http.StatusInternalServerError, Message: message, Hint: "the payment gateway rejected the request; retry shortly"}
}

func InternalError(message string) *AppError {
	return &AppError{Code: CodeInternal, Status: http.StatusInternalServerError, Message: message}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// RespondError writes the error to the client. AppErrors keep their code and
// status; anything else becomes an opaque 500.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			GetLogger().Error(appErr.Message, zap.String("code", appErr.Code))
		}
		c.JSON(appErr.Status, errorBody{Code: appErr.Code, Message: appErr.Message, Hint: appErr.Hint})
		return
	}
	GetLogger().Error("unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, errorBody{
		Code:    CodeInternal,
		Message: "Internal Server Error",
		Hint:    "an unexpected error occurred; please try again later",
	})
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.JSON(http.StatusInternalServerError, errorBody{
					Code:    CodeInternal,
					Message: "Internal Server Error",
					Hint:    "an unexpected error occurred; please try again later",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
