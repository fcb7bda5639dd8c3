package models

import "time"

// VerificationChallenge is one in-flight phone verification attempt. The
// phone field always holds the canonical international form.
type VerificationChallenge struct {
	ID        string    `bson:"id" json:"id"`
	Phone     string    `bson:"phone" json:"phone"`
	Code      string    `bson:"code" json:"-"`
	Attempts  int       `bson:"attempts" json:"attempts"`
	Verified  bool      `bson:"verified" json:"verified"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	ExpiresAt time.Time `bson:"expires_at" json:"expiresAt"`
}

// Expired reports whether the challenge has passed its expiry window.
func (c *VerificationChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
