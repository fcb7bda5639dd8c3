package bookingRepo

import (
	"fmt"
	"time"

	"roomhive/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// roleFilters maps the listing role to its query builder. The explicit
// dispatch table replaces string branching on the "type" discriminator.
var roleFilters = map[ListRole]func(userID string) bson.M{
	ListAsOwner:  func(userID string) bson.M { return bson.M{"owner_id": userID} },
	ListAsSeeker: func(userID string) bson.M { return bson.M{"seeker_id": userID} },
}

// sortFields whitelists caller-supplied sort keys to actual document fields.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"checkIn":   "check_in",
	"status":    "status",
}

// SortField resolves a caller-supplied sortBy value, defaulting to createdAt.
func SortField(sortBy string) (string, bool) {
	if sortBy == "" {
		return "created_at", true
	}
	f, ok := sortFields[sortBy]
	return f, ok
}

// List returns one page of bookings plus the total match count.
func (r *MongoBookingRepo) List(q ListQuery) ([]models.Booking, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	buildFilter, ok := roleFilters[q.Role]
	if !ok {
		return nil, 0, fmt.Errorf("unknown listing role %q", q.Role)
	}
	filter := buildFilter(q.UserID)
	if q.Status != "" {
		filter["status"] = q.Status
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	order := -1
	if q.SortOrder == "asc" {
		order = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: q.SortBy, Value: order}}).
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, 0, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, total, nil
}
