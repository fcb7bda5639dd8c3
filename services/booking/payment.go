package booking

import (
	"context"
	"math"
	"time"

	"roomhive/models"
	"roomhive/utils"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// PaymentGateway abstracts the external payment processor.
type PaymentGateway interface {
	// CreateIntent requests a payment intent for the amount in the gateway's
	// minor-unit representation and returns the client secret and intent id.
	CreateIntent(ctx context.Context, amountMinor int64, bookingID string) (clientSecret, intentID string, err error)
}

// StripeGateway implements PaymentGateway against Stripe.
type StripeGateway struct{}

func (StripeGateway) CreateIntent(_ context.Context, amountMinor int64, bookingID string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(string(stripe.CurrencyINR)),
	}
	params.AddMetadata("booking_id", bookingID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", "", err
	}
	return pi.ClientSecret, pi.ID, nil
}

// IntentResult is returned to the client to drive the gateway checkout.
type IntentResult struct {
	ClientSecret string `json:"clientSecret"`
	IntentID     string `json:"gatewayIntentId"`
}

// intentRetryable are the payment states from which an intent may be
// (re)created. Retrying after a gateway failure is the caller's path.
var intentRetryable = []string{models.PaymentUnpaid, models.PaymentPending, models.PaymentFailed}

// CreateIntent converts the booking amount to minor units and requests a
// gateway intent. Gateway failure is surfaced as a retryable error, never
// fatal to the booking.
func (s *Service) CreateIntent(ctx context.Context, bookingID, requester string) (*IntentResult, error) {
	b, err := s.authorized(bookingID, requester)
	if err != nil {
		return nil, err
	}
	if requester != b.SeekerID {
		return nil, utils.ForbiddenError("only the seeker may pay for a booking")
	}
	if b.Status == models.BookingCancelled || b.Status == models.BookingCompleted {
		return nil, utils.ConflictError(utils.CodeConflict, "booking is closed", "")
	}
	if b.Payment.Status == models.PaymentPaid || b.Payment.Status == models.PaymentRefunded {
		return nil, utils.ConflictError(utils.CodeConflict, "booking payment already settled", "")
	}

	amountMinor := int64(math.Round(b.Payment.Amount * 100))
	clientSecret, intentID, err := s.Gateway.CreateIntent(ctx, amountMinor, b.ID)
	if err != nil {
		s.Logger.Error("payment intent creation failed",
			zap.String("bookingID", b.ID), zap.Error(err))
		return nil, utils.GatewayError("failed to create payment intent")
	}

	orderID := uuid.New().String()
	if _, err := s.Bookings.SetPaymentIntent(b.ID, intentID, orderID, intentRetryable); err != nil {
		return nil, err
	}

	s.Logger.Info("payment intent created",
		zap.String("bookingID", b.ID), zap.String("intentID", intentID))
	return &IntentResult{ClientSecret: clientSecret, IntentID: intentID}, nil
}

// GetPaymentStatus returns the payment sub-state snapshot to a party.
func (s *Service) GetPaymentStatus(bookingID, requester string) (*models.PaymentState, error) {
	b, err := s.authorized(bookingID, requester)
	if err != nil {
		return nil, err
	}
	payment := b.Payment
	return &payment, nil
}

// reconcileFrom maps each gateway-reported status to the local payment
// states it may be applied from. Anything else is out of order and discarded.
var reconcileFrom = map[string][]string{
	models.PaymentPending:  {models.PaymentUnpaid},
	models.PaymentPaid:     {models.PaymentUnpaid, models.PaymentPending},
	models.PaymentRefunded: {models.PaymentPaid},
	models.PaymentFailed:   {models.PaymentUnpaid, models.PaymentPending},
}

// Reconcile applies a gateway status event to the owning booking. It is
// idempotent: duplicate event ids, stale timestamps and transitions that
// would move the payment state backwards are all discarded.
func (s *Service) Reconcile(ctx context.Context, ev models.GatewayEvent) error {
	if ev.ID == "" || ev.IntentID == "" {
		return utils.ValidationError("gateway event must carry id and intentId")
	}
	allowedFrom, ok := reconcileFrom[ev.Status]
	if !ok {
		return utils.ValidationError("unknown gateway status " + ev.Status)
	}

	b, err := s.Bookings.GetByPaymentID(ev.IntentID)
	if err != nil {
		return err
	}
	if b == nil {
		// Events for intents we never recorded are not an error; the
		// gateway may replay history from before this deployment.
		s.Logger.Warn("gateway event for unknown intent", zap.String("intentID", ev.IntentID))
		return nil
	}

	if b.Payment.LastEventID == ev.ID {
		return nil
	}
	if b.Payment.LastEventAt != nil && !ev.OccurredAt.After(*b.Payment.LastEventAt) {
		s.Logger.Debug("discarding stale gateway event",
			zap.String("bookingID", b.ID), zap.String("eventID", ev.ID))
		return nil
	}

	payment := b.Payment
	payment.Status = ev.Status
	payment.LastEventID = ev.ID
	occurred := ev.OccurredAt
	payment.LastEventAt = &occurred
	switch ev.Status {
	case models.PaymentPaid:
		paidAt := time.Now()
		payment.PaymentDate = &paidAt
	case models.PaymentRefunded:
		refundedAt := time.Now()
		payment.RefundDate = &refundedAt
	}

	applied, err := s.Bookings.ApplyPaymentEvent(b.ID, allowedFrom, ev.ID, payment)
	if err != nil {
		return err
	}
	if !applied {
		// Lost a race with a concurrent reconciliation or the transition was
		// not applicable from the stored state; either way the event is spent.
		s.Logger.Debug("gateway event not applied",
			zap.String("bookingID", b.ID), zap.String("eventID", ev.ID))
		return nil
	}

	s.Logger.Info("payment state reconciled",
		zap.String("bookingID", b.ID), zap.String("status", ev.Status))
	if ev.Status == models.PaymentPaid {
		s.Notify.Push(ctx, b.OwnerID, "Payment received", "A booking payment has settled.")
	}
	return nil
}
