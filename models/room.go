package models

import "time"

// Room is a rentable listing. The listing CRUD surface itself lives outside
// this core; bookings only need the owner reference and nightly price.
type Room struct {
	ID        string    `bson:"id" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"ownerId"`
	Title     string    `bson:"title" json:"title"`
	City      string    `bson:"city" json:"city"`
	Price     float64   `bson:"price" json:"price"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
