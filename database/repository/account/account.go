package accountRepo

import "roomhive/models"

// AccountRepository defines persistence for marketplace accounts.
type AccountRepository interface {
	Create(acc *models.Account) error
	Update(acc *models.Account) error
	// GetByID returns (nil, nil) when no account exists.
	GetByID(id string) (*models.Account, error)
	// GetByEmail returns (nil, nil) when no account exists.
	GetByEmail(email string) (*models.Account, error)
	// FindByVerifiedPhone returns the account currently holding the phone
	// with phone_verified set, or (nil, nil).
	FindByVerifiedPhone(phone string) (*models.Account, error)
}
