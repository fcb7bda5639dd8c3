package booking

import (
	"context"
	"net/http"
	"time"

	accountRepo "roomhive/database/repository/account"
	bookingRepo "roomhive/database/repository/booking"
	roomRepo "roomhive/database/repository/room"
	"roomhive/models"
	"roomhive/services/notify"
	"roomhive/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateInput is the payload for a new booking request.
type CreateInput struct {
	RoomID   string `json:"roomId" binding:"required"`
	CheckIn  string `json:"checkIn" binding:"required"`
	CheckOut string `json:"checkOut" binding:"required"`
}

// ListParams are the raw, unvalidated listing query parameters.
type ListParams struct {
	Type      string
	Status    string
	Page      string
	Limit     string
	SortBy    string
	SortOrder string
}

// Service owns the booking lifecycle: creation, status transitions,
// authorization and listing.
type Service struct {
	Bookings bookingRepo.BookingRepository
	Rooms    roomRepo.RoomRepository
	Accounts accountRepo.AccountRepository
	Gateway  PaymentGateway
	Notify   notify.Notifier
	Logger   *zap.Logger

	// RequirePaidConfirm gates whether owner confirmation demands a settled
	// payment. Both product flows exist; the flag picks one per deployment.
	RequirePaidConfirm bool
}

const dateLayout = "2006-01-02"

// Create opens a pending booking for the seeker. The seeker must hold a
// verified phone before entering the transactional flow.
func (s *Service) Create(ctx context.Context, seekerID string, in CreateInput) (*models.Booking, error) {
	seeker, err := s.Accounts.GetByID(seekerID)
	if err != nil {
		return nil, err
	}
	if seeker == nil {
		return nil, utils.NotFoundError("account not found")
	}
	if !seeker.CanSeek() {
		return nil, utils.ForbiddenError("account role cannot request bookings")
	}
	if !seeker.PhoneVerified {
		return nil, &utils.AppError{
			Code:    utils.CodeForbidden,
			Status:  http.StatusForbidden,
			Message: "phone verification required before booking",
			Hint:    "verify your phone number and try again",
		}
	}

	checkIn, err := time.Parse(dateLayout, in.CheckIn)
	if err != nil {
		return nil, utils.ValidationError("checkIn must be formatted YYYY-MM-DD")
	}
	checkOut, err := time.Parse(dateLayout, in.CheckOut)
	if err != nil {
		return nil, utils.ValidationError("checkOut must be formatted YYYY-MM-DD")
	}
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		return nil, utils.ValidationError("checkOut must be after checkIn")
	}

	room, err := s.Rooms.GetByID(in.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil || !room.Active {
		return nil, utils.NotFoundError("room not found")
	}
	if room.OwnerID == seekerID {
		return nil, utils.ValidationError("cannot book your own room")
	}

	b := &models.Booking{
		ID:       uuid.New().String(),
		RoomID:   room.ID,
		SeekerID: seekerID,
		OwnerID:  room.OwnerID,
		CheckIn:  in.CheckIn,
		CheckOut: in.CheckOut,
		Status:   models.BookingPending,
		Payment: models.PaymentState{
			Amount: room.Price * float64(nights),
			Status: models.PaymentUnpaid,
		},
	}
	if err := s.Bookings.Create(b); err != nil {
		return nil, err
	}

	s.Logger.Info("booking created",
		zap.String("bookingID", b.ID), zap.String("roomID", room.ID), zap.String("seekerID", seekerID))
	s.Notify.Push(ctx, b.OwnerID, "New booking request", "A seeker requested to book your room.")
	return b, nil
}

// Get returns a booking to its seeker or owner.
func (s *Service) Get(bookingID, requester string) (*models.Booking, error) {
	return s.authorized(bookingID, requester)
}

// Confirm transitions pending -> confirmed; owner only. When the
// require-paid policy is active the payment sub-state must be paid.
func (s *Service) Confirm(ctx context.Context, bookingID, requester string) (*models.Booking, error) {
	b, err := s.authorized(bookingID, requester)
	if err != nil {
		return nil, err
	}
	if requester != b.OwnerID {
		return nil, utils.ForbiddenError("only the owner may confirm a booking")
	}
	if s.RequirePaidConfirm && b.Payment.Status != models.PaymentPaid {
		return nil, &utils.AppError{
			Code:    utils.CodePaymentRequired,
			Status:  http.StatusConflict,
			Message: "booking payment has not settled",
			Hint:    "collect payment before confirming",
		}
	}
	return s.transition(ctx, b, models.BookingConfirmed, []string{models.BookingPending},
		b.SeekerID, "Booking confirmed", "The owner confirmed your booking.")
}

// Complete transitions confirmed -> completed; owner only.
func (s *Service) Complete(ctx context.Context, bookingID, requester string) (*models.Booking, error) {
	b, err := s.authorized(bookingID, requester)
	if err != nil {
		return nil, err
	}
	if requester != b.OwnerID {
		return nil, utils.ForbiddenError("only the owner may complete a booking")
	}
	return s.transition(ctx, b, models.BookingCompleted, []string{models.BookingConfirmed},
		b.SeekerID, "Booking completed", "Your booking was marked completed.")
}

// Cancel transitions pending|confirmed -> cancelled; either party may cancel.
func (s *Service) Cancel(ctx context.Context, bookingID, requester string) (*models.Booking, error) {
	b, err := s.authorized(bookingID, requester)
	if err != nil {
		return nil, err
	}
	counterparty := b.OwnerID
	if requester == b.OwnerID {
		counterparty = b.SeekerID
	}
	return s.transition(ctx, b, models.BookingCancelled,
		[]string{models.BookingPending, models.BookingConfirmed},
		counterparty, "Booking cancelled", "The booking was cancelled.")
}

// List returns one validated page of the user's bookings as owner or seeker.
func (s *Service) List(requester, userID string, p ListParams) ([]models.Booking, models.Pagination, error) {
	if requester != userID {
		return nil, models.Pagination{}, utils.ForbiddenError("cannot list another user's bookings")
	}

	q, err := buildListQuery(userID, p)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	bookings, total, err := s.Bookings.List(q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, models.NewPagination(q.Page, q.Limit, total), nil
}

// authorized loads the booking and enforces that the requester is a party.
func (s *Service) authorized(bookingID, requester string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, utils.NotFoundError("booking not found")
	}
	if !b.Party(requester) {
		return nil, utils.ForbiddenError("not a party to this booking")
	}
	return b, nil
}

// transition applies a guarded status change and notifies the counterparty.
func (s *Service) transition(ctx context.Context, b *models.Booking, to string, allowedFrom []string, notifyID, title, body string) (*models.Booking, error) {
	ok, err := s.Bookings.UpdateStatus(b.ID, to, allowedFrom)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.ConflictError(utils.CodeConflict,
			"booking is not in a state that allows this transition", "")
	}
	b.Status = to
	s.Logger.Info("booking transitioned", zap.String("bookingID", b.ID), zap.String("status", to))
	s.Notify.Push(ctx, notifyID, title, body)
	return b, nil
}
