package models

import "time"

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// ValidBookingStatus reports whether s names a known booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Payment sub-state statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

// PaymentState is the payment sub-state nested in a booking. LastEventID and
// LastEventAt track the most recently applied gateway event so duplicate or
// out-of-order reconciliations can be discarded.
type PaymentState struct {
	PaymentID   string     `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	OrderID     string     `bson:"order_id,omitempty" json:"orderId,omitempty"`
	Amount      float64    `bson:"amount" json:"amount"`
	Status      string     `bson:"status" json:"status"`
	PaymentDate *time.Time `bson:"payment_date,omitempty" json:"paymentDate,omitempty"`
	RefundDate  *time.Time `bson:"refund_date,omitempty" json:"refundDate,omitempty"`
	LastEventID string     `bson:"last_event_id,omitempty" json:"-"`
	LastEventAt *time.Time `bson:"last_event_at,omitempty" json:"-"`
}

// Booking is a seeker's request to rent a room from an owner. Bookings are
// never deleted, only transitioned to cancelled.
type Booking struct {
	ID        string       `bson:"id" json:"id"`
	RoomID    string       `bson:"room_id" json:"roomId"`
	SeekerID  string       `bson:"seeker_id" json:"seekerId"`
	OwnerID   string       `bson:"owner_id" json:"ownerId"`
	CheckIn   string       `bson:"check_in" json:"checkIn"`
	CheckOut  string       `bson:"check_out" json:"checkOut"`
	Status    string       `bson:"status" json:"status"`
	Payment   PaymentState `bson:"payment" json:"payment"`
	CreatedAt time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updatedAt"`
}

// Party returns true if accountID is the booking's seeker or owner.
func (b *Booking) Party(accountID string) bool {
	return accountID == b.SeekerID || accountID == b.OwnerID
}

// GatewayEvent is an asynchronous payment status notification from the
// gateway (webhook or poll).
type GatewayEvent struct {
	ID         string    `json:"id"`
	IntentID   string    `json:"intentId"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}
