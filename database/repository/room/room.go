package roomRepo

import "roomhive/models"

// RoomRepository defines the read access the booking core needs to listings.
type RoomRepository interface {
	// GetByID returns (nil, nil) when no room exists.
	GetByID(id string) (*models.Room, error)
}
