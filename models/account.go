package models

import "time"

// Account roles.
const (
	RoleOwner  = "owner"
	RoleSeeker = "seeker"
	RoleBoth   = "both"
	RoleAdmin  = "admin"
)

// ValidRole reports whether the given role is one of the known account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleSeeker, RoleBoth, RoleAdmin:
		return true
	}
	return false
}

// Account is the identity record for a marketplace participant. At most one
// account may hold a given phone number with PhoneVerified set.
type Account struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Email         string    `bson:"email" json:"email"`
	PasswordHash  string    `bson:"password_hash" json:"-"`
	Phone         string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PhoneVerified bool      `bson:"phone_verified" json:"phoneVerified"`
	Role          string    `bson:"role" json:"role"`
	FCMToken      string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// CanSeek reports whether the account may act as a seeker.
func (a *Account) CanSeek() bool {
	return a.Role == RoleSeeker || a.Role == RoleBoth || a.Role == RoleAdmin
}

// CanOwn reports whether the account may act as an owner.
func (a *Account) CanOwn() bool {
	return a.Role == RoleOwner || a.Role == RoleBoth || a.Role == RoleAdmin
}
