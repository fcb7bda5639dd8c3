package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "roomhive/database/repository/booking"
	"roomhive/models"

	"go.uber.org/zap"
)

// --- in-memory fakes ---

type fakeBookingRepo struct {
	items map[string]models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{items: make(map[string]models.Booking)}
}

func (r *fakeBookingRepo) Create(b *models.Booking) error {
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.items[b.ID] = *b
	return nil
}

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeBookingRepo) GetByPaymentID(paymentID string) (*models.Booking, error) {
	for _, b := range r.items {
		if b.Payment.PaymentID == paymentID {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) UpdateStatus(id, to string, allowedFrom []string) (bool, error) {
	b, ok := r.items[id]
	if !ok || !containsStatus(allowedFrom, b.Status) {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	r.items[id] = b
	return true, nil
}

func (r *fakeBookingRepo) SetPaymentIntent(id, paymentID, orderID string, allowedFrom []string) (bool, error) {
	b, ok := r.items[id]
	if !ok || !containsStatus(allowedFrom, b.Payment.Status) {
		return false, nil
	}
	b.Payment.PaymentID = paymentID
	b.Payment.OrderID = orderID
	b.Payment.Status = models.PaymentPending
	b.UpdatedAt = time.Now()
	r.items[id] = b
	return true, nil
}

func (r *fakeBookingRepo) ApplyPaymentEvent(id string, allowedFrom []string, eventID string, payment models.PaymentState) (bool, error) {
	b, ok := r.items[id]
	if !ok || !containsStatus(allowedFrom, b.Payment.Status) || b.Payment.LastEventID == eventID {
		return false, nil
	}
	b.Payment = payment
	b.UpdatedAt = time.Now()
	r.items[id] = b
	return true, nil
}

func (r *fakeBookingRepo) List(q bookingRepo.ListQuery) ([]models.Booking, int64, error) {
	var matches []models.Booking
	for _, b := range r.items {
		switch q.Role {
		case bookingRepo.ListAsOwner:
			if b.OwnerID != q.UserID {
				continue
			}
		case bookingRepo.ListAsSeeker:
			if b.SeekerID != q.UserID {
				continue
			}
		}
		if q.Status != "" && b.Status != q.Status {
			continue
		}
		matches = append(matches, b)
	}
	total := int64(len(matches))
	start := (q.Page - 1) * q.Limit
	if start >= len(matches) {
		return nil, total, nil
	}
	end := start + q.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

func containsStatus(haystack []string, s string) bool {
	for _, h := range haystack {
		if h == s {
			return true
		}
	}
	return false
}

type fakeRoomRepo struct {
	items map[string]models.Room
}

func (r *fakeRoomRepo) GetByID(id string) (*models.Room, error) {
	room, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

type fakeAccountRepo struct {
	items map[string]models.Account
}

func (r *fakeAccountRepo) Create(acc *models.Account) error {
	r.items[acc.ID] = *acc
	return nil
}

func (r *fakeAccountRepo) Update(acc *models.Account) error {
	if _, ok := r.items[acc.ID]; !ok {
		return errors.New("account not found")
	}
	r.items[acc.ID] = *acc
	return nil
}

func (r *fakeAccountRepo) GetByID(id string) (*models.Account, error) {
	acc, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

func (r *fakeAccountRepo) GetByEmail(email string) (*models.Account, error) {
	for _, acc := range r.items {
		if acc.Email == email {
			a := acc
			return &a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) FindByVerifiedPhone(phone string) (*models.Account, error) {
	for _, acc := range r.items {
		if acc.Phone == phone && acc.PhoneVerified {
			a := acc
			return &a, nil
		}
	}
	return nil, nil
}

type fakeGateway struct {
	fail    bool
	amounts []int64
}

func (g *fakeGateway) CreateIntent(_ context.Context, amountMinor int64, bookingID string) (string, string, error) {
	if g.fail {
		return "", "", errors.New("gateway unavailable")
	}
	g.amounts = append(g.amounts, amountMinor)
	return "secret_" + bookingID, "pi_" + bookingID, nil
}

type pushRecord struct {
	accountID string
	title     string
}

type captureNotifier struct {
	pushes []pushRecord
}

func (n *captureNotifier) Push(_ context.Context, accountID, title, _ string) {
	n.pushes = append(n.pushes, pushRecord{accountID: accountID, title: title})
}

// --- fixture ---

const (
	seekerID = "acc-seeker"
	ownerID  = "acc-owner"
	roomID   = "room-1"
)

type fixture struct {
	svc      *Service
	bookings *fakeBookingRepo
	accounts *fakeAccountRepo
	gateway  *fakeGateway
	notifier *captureNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bookings := newFakeBookingRepo()
	accounts := &fakeAccountRepo{items: map[string]models.Account{
		seekerID: {ID: seekerID, Role: models.RoleSeeker, Phone: "+919876543210", PhoneVerified: true},
		ownerID:  {ID: ownerID, Role: models.RoleOwner, Phone: "+919876543211", PhoneVerified: true},
	}}
	rooms := &fakeRoomRepo{items: map[string]models.Room{
		roomID: {ID: roomID, OwnerID: ownerID, Title: "2BHK near metro", Price: 1500, Active: true},
	}}
	gateway := &fakeGateway{}
	notifier := &captureNotifier{}
	return &fixture{
		svc: &Service{
			Bookings:           bookings,
			Rooms:              rooms,
			Accounts:           accounts,
			Gateway:            gateway,
			Notify:             notifier,
			Logger:             zap.NewNop(),
			RequirePaidConfirm: true,
		},
		bookings: bookings,
		accounts: accounts,
		gateway:  gateway,
		notifier: notifier,
	}
}

func (f *fixture) createBooking(t *testing.T) *models.Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), seekerID, CreateInput{
		RoomID:   roomID,
		CheckIn:  "2026-09-01",
		CheckOut: "2026-09-04",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func (f *fixture) markPaid(t *testing.T, bookingID string) {
	t.Helper()
	b := f.bookings.items[bookingID]
	b.Payment.Status = models.PaymentPaid
	f.bookings.items[bookingID] = b
}
