package verificationRepo

import (
	"time"

	"roomhive/models"
)

// ChallengeRepository defines persistence for phone verification challenges.
type ChallengeRepository interface {
	// Replace removes any pending challenge for the challenge's phone and
	// inserts the new one, so at most one active challenge exists per phone.
	Replace(ch *models.VerificationChallenge) error
	// FindActive returns the most recent unverified, unexpired challenge for
	// the phone, or (nil, nil) when none exists.
	FindActive(phone string, now time.Time) (*models.VerificationChallenge, error)
	// FailAttempt increments the attempt counter as a single conditional
	// update guarded by attempts < cap. It returns the updated challenge, or
	// (nil, nil) when the challenge is gone or the cap was already reached.
	FailAttempt(id string, maxAttempts int) (*models.VerificationChallenge, error)
	// MarkVerified flags the challenge as verified without consuming it.
	MarkVerified(id string) error
	Delete(id string) error
	// DeleteExpired removes challenges whose expiry has elapsed.
	DeleteExpired(now time.Time) (int64, error)
}
