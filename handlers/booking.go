package handlers

import (
	"context"
	"net/http"

	"roomhive/middleware"
	"roomhive/models"
	"roomhive/services/booking"
	"roomhive/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle and payment endpoints.
type BookingHandler struct {
	Svc *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

func requireAuth(c *gin.Context) (string, bool) {
	accountID, ok := middleware.AuthedUserID(c)
	if !ok {
		utils.RespondError(c, utils.AuthenticationError("authentication required"))
		return "", false
	}
	return accountID, true
}

// CreateHandler opens a new pending booking for the authenticated seeker.
func (h *BookingHandler) CreateHandler(c *gin.Context) {
	accountID, ok := requireAuth(c)
	if !ok {
		return
	}

	var in booking.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.ValidationError(err.Error()))
		return
	}

	b, err := h.Svc.Create(c.Request.Context(), accountID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetHandler returns one booking to its seeker or owner.
func (h *BookingHandler) GetHandler(c *gin.Context) {
	accountID, ok := requireAuth(c)
	if !ok {
		return
	}

	b, err := h.Svc.Get(c.Param("id"), accountID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListHandler returns a paginated page of the user's bookings.
func (h *BookingHandler) ListHandler(c *gin.Context) {
	accountID, ok := requireAuth(c)
	if !ok {
		return
	}

	params := booking.ListParams{
		Type:      c.Query("type"),
		Status:    c.Query("status"),
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	bookings, pagination, err := h.Svc.List(accountID, c.Param("userId"), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "pagination": pagination})
}

// ConfirmHandler transitions a pending booking to confirmed.
func (h *BookingHandler) ConfirmHandler(c *gin.Context) {
	h.transition(c, h.Svc.Confirm)
}

// CompleteHandler transitions a confirmed booking to completed.
func (h *BookingHandler) CompleteHandler(c *gin.Context) {
	h.transition(c, h.Svc.Complete)
}

// CancelHandler transitions a pending or confirmed booking to cancelled.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	h.transition(c, h.Svc.Cancel)
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, bookingID, requester string) (*models.Booking, error)) {
	accountID, ok := requireAuth(c)
	if !ok {
		return
	}

	b, err := op(c.Request.Context(), c.Param("id"), accountID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// PaymentStatusHandler returns the booking's payment sub-state snapshot.
func (h *BookingHandler) PaymentStatusHandler(c *gin.Context) {
	accountID, ok := requireAuth(c)
	if !ok {
		return
	}

	state, err := h.Svc.GetPaymentStatus(c.Param("id"), accountID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// PaymentIntentHandler creates a gateway payment intent for the booking.
func (h *BookingHandler) PaymentIntentHandler(c *gin.Context) {
	accountID, ok := requireAuth(c)
	if !ok {
		return
	}

	res, err := h.Svc.CreateIntent(c.Request.Context(), c.Param("id"), accountID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// WebhookHandler ingests asynchronous gateway status events.
func (h *BookingHandler) WebhookHandler(c *gin.Context) {
	var ev models.GatewayEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		utils.RespondError(c, utils.ValidationError(err.Error()))
		return
	}

	if err := h.Svc.Reconcile(c.Request.Context(), ev); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
