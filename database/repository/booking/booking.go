package bookingRepo

import "roomhive/models"

// ListRole selects which side of a booking a listing query targets.
type ListRole string

const (
	ListAsOwner  ListRole = "owner"
	ListAsSeeker ListRole = "seeker"
)

// ParseListRole maps the request's type discriminator to a ListRole.
func ParseListRole(s string) (ListRole, bool) {
	switch ListRole(s) {
	case ListAsOwner:
		return ListAsOwner, true
	case ListAsSeeker:
		return ListAsSeeker, true
	}
	return "", false
}

// ListQuery describes a validated paginated listing request.
type ListQuery struct {
	Role      ListRole
	UserID    string
	Status    string // optional filter
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // "asc" | "desc"
}

// BookingRepository defines persistence for bookings.
type BookingRepository interface {
	Create(b *models.Booking) error
	// GetByID returns (nil, nil) when no booking exists.
	GetByID(id string) (*models.Booking, error)
	// GetByPaymentID returns (nil, nil) when no booking references the
	// gateway payment intent.
	GetByPaymentID(paymentID string) (*models.Booking, error)
	// UpdateStatus transitions the booking status only when the current
	// status is one of allowedFrom. Returns false when the guard failed.
	UpdateStatus(id, to string, allowedFrom []string) (bool, error)
	// SetPaymentIntent records the gateway ids and moves the payment
	// sub-state to pending, guarded on the current payment status.
	SetPaymentIntent(id, paymentID, orderID string, allowedFrom []string) (bool, error)
	// ApplyPaymentEvent writes the payment sub-state produced by a gateway
	// event, guarded on the current payment status and on the event not
	// having been applied already. Returns false when the guard failed.
	ApplyPaymentEvent(id string, allowedFrom []string, eventID string, payment models.PaymentState) (bool, error)
	// List returns one page of bookings plus the total match count.
	List(q ListQuery) ([]models.Booking, int64, error)
}
