package booking

import (
	"strconv"

	bookingRepo "roomhive/database/repository/booking"
	"roomhive/models"
	"roomhive/utils"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// buildListQuery validates raw listing parameters into a repository query.
func buildListQuery(userID string, p ListParams) (bookingRepo.ListQuery, error) {
	var q bookingRepo.ListQuery

	role, ok := bookingRepo.ParseListRole(p.Type)
	if !ok {
		return q, utils.ValidationError("type must be owner or seeker")
	}

	page := defaultPage
	if p.Page != "" {
		n, err := strconv.Atoi(p.Page)
		if err != nil || n < 1 {
			return q, utils.ValidationError("page must be an integer >= 1")
		}
		page = n
	}

	limit := defaultLimit
	if p.Limit != "" {
		n, err := strconv.Atoi(p.Limit)
		if err != nil || n < 1 || n > maxLimit {
			return q, utils.ValidationError("limit must be an integer between 1 and 100")
		}
		limit = n
	}

	if p.Status != "" && !models.ValidBookingStatus(p.Status) {
		return q, utils.ValidationError("status must be one of pending, confirmed, completed, cancelled")
	}

	sortBy, ok := bookingRepo.SortField(p.SortBy)
	if !ok {
		return q, utils.ValidationError("sortBy must be one of createdAt, updatedAt, checkIn, status")
	}

	sortOrder := p.SortOrder
	switch sortOrder {
	case "":
		sortOrder = "desc"
	case "asc", "desc":
	default:
		return q, utils.ValidationError("sortOrder must be asc or desc")
	}

	return bookingRepo.ListQuery{
		Role:      role,
		UserID:    userID,
		Status:    p.Status,
		Page:      page,
		Limit:     limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}, nil
}
