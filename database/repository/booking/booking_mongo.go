package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"roomhive/database"
	"roomhive/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new BookingRepository backed by MongoDB.
func NewMongoBookingRepo() BookingRepository {
	coll := database.MongoClient.Database("roomhive").Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "seeker_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "payment.payment_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(b *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	return r.findOne(bson.M{"id": id})
}

// GetByPaymentID retrieves the booking referencing the gateway intent.
func (r *MongoBookingRepo) GetByPaymentID(paymentID string) (*models.Booking, error) {
	return r.findOne(bson.M{"payment.payment_id": paymentID})
}

func (r *MongoBookingRepo) findOne(filter bson.M) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &b, nil
}

// UpdateStatus transitions status under a current-status guard so concurrent
// transitions cannot stack.
func (r *MongoBookingRepo) UpdateStatus(id, to string, allowedFrom []string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": allowedFrom}}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update booking %s status: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// SetPaymentIntent records the gateway ids and marks the payment pending.
func (r *MongoBookingRepo) SetPaymentIntent(id, paymentID, orderID string, allowedFrom []string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "payment.status": bson.M{"$in": allowedFrom}}
	update := bson.M{"$set": bson.M{
		"payment.payment_id": paymentID,
		"payment.order_id":   orderID,
		"payment.status":     models.PaymentPending,
		"updated_at":         time.Now(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to record payment intent on booking %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// ApplyPaymentEvent writes the reconciled payment sub-state. The guard on the
// current status and on last_event_id makes re-delivery of the same gateway
// event a no-op.
func (r *MongoBookingRepo) ApplyPaymentEvent(id string, allowedFrom []string, eventID string, payment models.PaymentState) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":                    id,
		"payment.status":        bson.M{"$in": allowedFrom},
		"payment.last_event_id": bson.M{"$ne": eventID},
	}
	update := bson.M{"$set": bson.M{
		"payment":    payment,
		"updated_at": time.Now(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to apply payment event to booking %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}
