package phone

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	accountRepo "roomhive/database/repository/account"
	verificationRepo "roomhive/database/repository/verification"
	"roomhive/models"
	"roomhive/services/sms"
	"roomhive/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VerifyResult is returned to the caller on successful verification.
type VerifyResult struct {
	Phone    string `json:"phone"`
	Verified bool   `json:"verified"`
}

// Gate issues and verifies phone verification challenges and binds verified
// phones to accounts under the global uniqueness constraint.
type Gate struct {
	Challenges  verificationRepo.ChallengeRepository
	Accounts    accountRepo.AccountRepository
	SMS         sms.Sender
	Logger      *zap.Logger
	MaxAttempts int
	TTL         time.Duration

	now func() time.Time
}

// NewGate wires a verification gate with the default clock.
func NewGate(challenges verificationRepo.ChallengeRepository, accounts accountRepo.AccountRepository, sender sms.Sender, logger *zap.Logger, maxAttempts int, ttl time.Duration) *Gate {
	return &Gate{
		Challenges:  challenges,
		Accounts:    accounts,
		SMS:         sender,
		Logger:      logger,
		MaxAttempts: maxAttempts,
		TTL:         ttl,
		now:         time.Now,
	}
}

// generateCode returns a cryptographically random 6-digit code, uniform over
// 100000-999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func invalidOrExpired() *utils.AppError {
	return &utils.AppError{
		Code:    utils.CodeOTPInvalid,
		Status:  http.StatusBadRequest,
		Message: "verification code not found or expired",
		Hint:    "request a new OTP and try again",
	}
}

// Issue creates a fresh challenge for the phone and sends the code. Any prior
// pending challenge for the same phone is invalidated. A delivery failure is
// surfaced but the challenge stays persisted; re-issuing is the retry path.
func (g *Gate) Issue(ctx context.Context, rawPhone string) (string, error) {
	canonical, err := Normalize(rawPhone)
	if err != nil {
		return "", err
	}

	now := g.now()
	if n, err := g.Challenges.DeleteExpired(now); err != nil {
		g.Logger.Warn("failed to sweep expired challenges", zap.Error(err))
	} else if n > 0 {
		g.Logger.Debug("swept expired challenges", zap.Int64("count", n))
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	ch := &models.VerificationChallenge{
		ID:        uuid.New().String(),
		Phone:     canonical,
		Code:      code,
		Attempts:  0,
		Verified:  false,
		CreatedAt: now,
		ExpiresAt: now.Add(g.TTL),
	}
	if err := g.Challenges.Replace(ch); err != nil {
		return "", fmt.Errorf("failed to persist challenge: %w", err)
	}

	message := fmt.Sprintf("Your Roomhive verification code is %s. It expires in %d minutes.", code, int(g.TTL.Minutes()))
	if err := g.SMS.Send(ctx, canonical, message); err != nil {
		g.Logger.Error("Failed to send verification code", zap.String("phone", canonical), zap.Error(err))
		return "", &utils.AppError{
			Code:    utils.CodeInternal,
			Status:  http.StatusInternalServerError,
			Message: "failed to send verification code",
			Hint:    "request a new OTP and try again",
		}
	}

	g.Logger.Info("verification code issued", zap.String("phone", canonical))
	return canonical, nil
}

// Verify matches a submitted code against the phone's active challenge and,
// on success, binds the phone to the account.
func (g *Gate) Verify(ctx context.Context, accountID, rawPhone, code string) (*VerifyResult, error) {
	canonical, err := Normalize(rawPhone)
	if err != nil {
		return nil, err
	}

	ch, err := g.Challenges.FindActive(canonical, g.now())
	if err != nil {
		return nil, fmt.Errorf("failed to look up challenge: %w", err)
	}
	if ch == nil {
		return nil, invalidOrExpired()
	}

	if ch.Attempts >= g.MaxAttempts {
		if err := g.Challenges.Delete(ch.ID); err != nil {
			g.Logger.Warn("failed to delete exhausted challenge", zap.Error(err))
		}
		return nil, utils.RateLimitedError(
			"too many failed attempts",
			"request a new code")
	}

	if ch.Code != code {
		return nil, g.failAttempt(ch)
	}

	if err := g.Challenges.MarkVerified(ch.ID); err != nil {
		return nil, fmt.Errorf("failed to mark challenge verified: %w", err)
	}

	acc, err := g.Accounts.GetByID(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if acc == nil {
		return nil, utils.NotFoundError("account not found")
	}

	// Fast-path uniqueness check; the unique partial index on verified
	// phones is the authoritative guard.
	other, err := g.Accounts.FindByVerifiedPhone(canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
	}
	if other != nil && other.ID != acc.ID {
		// Challenge stays verified-but-unconsumed so the caller can retry
		// with a different phone without burning a new code.
		return nil, phoneTaken()
	}

	acc.Phone = canonical
	acc.PhoneVerified = true
	if err := g.Accounts.Update(acc); err != nil {
		if accountRepo.IsDuplicateKey(err) {
			return nil, phoneTaken()
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	if err := g.Challenges.Delete(ch.ID); err != nil {
		g.Logger.Warn("failed to delete consumed challenge", zap.Error(err))
	}

	g.Logger.Info("phone verified", zap.String("accountID", acc.ID), zap.String("phone", canonical))
	return &VerifyResult{Phone: canonical, Verified: true}, nil
}

// failAttempt records one failed match via the store's conditional increment
// and reports the attempts remaining; the third failure consumes the
// challenge.
func (g *Gate) failAttempt(ch *models.VerificationChallenge) error {
	updated, err := g.Challenges.FailAttempt(ch.ID, g.MaxAttempts)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	if updated == nil {
		// Lost the race to another failed attempt, or the challenge is gone.
		if err := g.Challenges.Delete(ch.ID); err != nil {
			g.Logger.Warn("failed to delete exhausted challenge", zap.Error(err))
		}
		return utils.RateLimitedError(
			"too many failed attempts",
			"request a new code")
	}

	remaining := g.MaxAttempts - updated.Attempts
	if remaining <= 0 {
		if err := g.Challenges.Delete(ch.ID); err != nil {
			g.Logger.Warn("failed to delete exhausted challenge", zap.Error(err))
		}
	}
	return &utils.AppError{
		Code:    utils.CodeOTPIncorrect,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("incorrect code; %d attempts remaining", remaining),
		Hint:    "check the code or request a new OTP",
	}
}

func phoneTaken() *utils.AppError {
	return utils.ConflictError(
		utils.CodePhoneTaken,
		"phone already registered to another account",
		"retry with a different phone number")
}
