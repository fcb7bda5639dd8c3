package booking

import (
	"context"
	"testing"

	"roomhive/models"
	"roomhive/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestCreateOpensPendingBooking(t *testing.T) {
	f := newFixture(t)

	b := f.createBooking(t)

	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, models.PaymentUnpaid, b.Payment.Status)
	assert.Equal(t, ownerID, b.OwnerID)
	// Three nights at the room's nightly price.
	assert.Equal(t, 4500.0, b.Payment.Amount)

	require.Len(t, f.notifier.pushes, 1)
	assert.Equal(t, ownerID, f.notifier.pushes[0].accountID)
}

func TestCreateRequiresVerifiedPhone(t *testing.T) {
	f := newFixture(t)
	acc := f.accounts.items[seekerID]
	acc.PhoneVerified = false
	f.accounts.items[seekerID] = acc

	_, err := f.svc.Create(context.Background(), seekerID, CreateInput{
		RoomID: roomID, CheckIn: "2026-09-01", CheckOut: "2026-09-04",
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, appCode(t, err))
	assert.Empty(t, f.bookings.items)
}

func TestCreateRejectsOwnerRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), ownerID, CreateInput{
		RoomID: roomID, CheckIn: "2026-09-01", CheckOut: "2026-09-04",
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, appCode(t, err))
}

func TestCreateValidatesDates(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{"malformed check-in", "01-09-2026", "2026-09-04"},
		{"malformed check-out", "2026-09-01", "next friday"},
		{"zero nights", "2026-09-01", "2026-09-01"},
		{"checkout before checkin", "2026-09-04", "2026-09-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), seekerID, CreateInput{
				RoomID: roomID, CheckIn: tt.checkIn, CheckOut: tt.checkOut,
			})
			require.Error(t, err)
			assert.Equal(t, utils.CodeValidation, appCode(t, err))
		})
	}
}

func TestCreateUnknownOrInactiveRoom(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), seekerID, CreateInput{
		RoomID: "room-missing", CheckIn: "2026-09-01", CheckOut: "2026-09-04",
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, appCode(t, err))

	rooms := f.svc.Rooms.(*fakeRoomRepo)
	room := rooms.items[roomID]
	room.Active = false
	rooms.items[roomID] = room

	_, err = f.svc.Create(context.Background(), seekerID, CreateInput{
		RoomID: roomID, CheckIn: "2026-09-01", CheckOut: "2026-09-04",
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, appCode(t, err))
}

func TestCreateRejectsBookingOwnRoom(t *testing.T) {
	f := newFixture(t)
	f.accounts.items["acc-both"] = models.Account{ID: "acc-both", Role: models.RoleBoth, PhoneVerified: true}
	rooms := f.svc.Rooms.(*fakeRoomRepo)
	rooms.items["room-own"] = models.Room{ID: "room-own", OwnerID: "acc-both", Price: 900, Active: true}

	_, err := f.svc.Create(context.Background(), "acc-both", CreateInput{
		RoomID: "room-own", CheckIn: "2026-09-01", CheckOut: "2026-09-02",
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, appCode(t, err))
}

func TestGetEnforcesParty(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t)

	got, err := f.svc.Get(b.ID, seekerID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = f.svc.Get(b.ID, "acc-stranger")
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, appCode(t, err))

	_, err = f.svc.Get("booking-missing", seekerID)
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, appCode(t, err))
}

func TestConfirmOwnerOnly(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t)
	f.markPaid(t, b.ID)

	_, err := f.svc.Confirm(context.Background(), b.ID, seekerID)
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, appCode(t, err))

	got, err := f.svc.Confirm(context.Background(), b.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, got.Status)
}

func TestConfirmRequiresSettledPayment(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t)

	_, err := f.svc.Confirm(context.Background(), b.ID, ownerID)
	require.Error(t, err)
	assert.Equal(t, utils.CodePaymentRequired, appCode(t, err))
	assert.Equal(t, models.BookingPending, f.bookings.items[b.ID].Status)
}

func TestConfirmWithoutPaidPolicy(t *testing.T) {
	f := newFixture(t)
	f.svc.RequirePaidConfirm = false
	b := f.createBooking(t)

	got, err := f.svc.Confirm(context.Background(), b.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, got.Status)
}

func TestCompleteOnlyFromConfirmed(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t)
	f.markPaid(t, b.ID)

	_, err := f.svc.Complete(context.Background(), b.ID, ownerID)
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, appCode(t, err))

	_, err = f.svc.Confirm(context.Background(), b.ID, ownerID)
	require.NoError(t, err)

	got, err := f.svc.Complete(context.Background(), b.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, got.Status)
}

func TestCancelByEitherParty(t *testing.T) {
	f := newFixture(t)

	b1 := f.createBooking(t)
	got, err := f.svc.Cancel(context.Background(), b1.ID, seekerID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)

	b2 := f.createBooking(t)
	f.markPaid(t, b2.ID)
	_, err = f.svc.Confirm(context.Background(), b2.ID, ownerID)
	require.NoError(t, err)
	got, err = f.svc.Cancel(context.Background(), b2.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)
}

func TestCancelClosedBookingConflicts(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t)
	f.markPaid(t, b.ID)
	_, err := f.svc.Confirm(context.Background(), b.ID, ownerID)
	require.NoError(t, err)
	_, err = f.svc.Complete(context.Background(), b.ID, ownerID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), b.ID, seekerID)
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, appCode(t, err))
}

func TestListOwnBookingsOnly(t *testing.T) {
	f := newFixture(t)
	f.createBooking(t)

	bookings, page, err := f.svc.List(seekerID, seekerID, ListParams{Type: "seeker"})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, int64(1), page.Total)

	_, _, err = f.svc.List(ownerID, seekerID, ListParams{Type: "seeker"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, appCode(t, err))
}

func TestListParamValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		params ListParams
	}{
		{"unknown type", ListParams{Type: "landlord"}},
		{"non-numeric page", ListParams{Type: "seeker", Page: "two"}},
		{"zero page", ListParams{Type: "seeker", Page: "0"}},
		{"limit above cap", ListParams{Type: "seeker", Limit: "500"}},
		{"unknown status", ListParams{Type: "seeker", Status: "archived"}},
		{"unknown sort field", ListParams{Type: "seeker", SortBy: "price"}},
		{"unknown sort order", ListParams{Type: "seeker", SortOrder: "sideways"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.List(seekerID, seekerID, tt.params)
			require.Error(t, err)
			assert.Equal(t, utils.CodeValidation, appCode(t, err))
		})
	}
}

func TestListEmptyPageIsNotNil(t *testing.T) {
	f := newFixture(t)

	bookings, page, err := f.svc.List(seekerID, seekerID, ListParams{Type: "seeker"})
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Len(t, bookings, 0)
	assert.Equal(t, int64(0), page.Total)
}
