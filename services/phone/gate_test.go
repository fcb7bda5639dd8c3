package phone

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"roomhive/models"
	"roomhive/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- in-memory fakes ---

type fakeChallengeRepo struct {
	items map[string]models.VerificationChallenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{items: make(map[string]models.VerificationChallenge)}
}

func (r *fakeChallengeRepo) Replace(ch *models.VerificationChallenge) error {
	for id, existing := range r.items {
		if existing.Phone == ch.Phone && !existing.Verified {
			delete(r.items, id)
		}
	}
	r.items[ch.ID] = *ch
	return nil
}

func (r *fakeChallengeRepo) FindActive(phone string, now time.Time) (*models.VerificationChallenge, error) {
	var matches []models.VerificationChallenge
	for _, ch := range r.items {
		if ch.Phone == phone && !ch.Verified && now.Before(ch.ExpiresAt) {
			matches = append(matches, ch)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	ch := matches[0]
	return &ch, nil
}

func (r *fakeChallengeRepo) FailAttempt(id string, maxAttempts int) (*models.VerificationChallenge, error) {
	ch, ok := r.items[id]
	if !ok || ch.Attempts >= maxAttempts {
		return nil, nil
	}
	ch.Attempts++
	r.items[id] = ch
	return &ch, nil
}

func (r *fakeChallengeRepo) MarkVerified(id string) error {
	ch, ok := r.items[id]
	if !ok {
		return errors.New("challenge not found")
	}
	ch.Verified = true
	r.items[id] = ch
	return nil
}

func (r *fakeChallengeRepo) Delete(id string) error {
	delete(r.items, id)
	return nil
}

func (r *fakeChallengeRepo) DeleteExpired(now time.Time) (int64, error) {
	var n int64
	for id, ch := range r.items {
		if !now.Before(ch.ExpiresAt) {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

type fakeAccountRepo struct {
	items map[string]models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{items: make(map[string]models.Account)}
}

func (r *fakeAccountRepo) Create(acc *models.Account) error {
	r.items[acc.ID] = *acc
	return nil
}

func (r *fakeAccountRepo) Update(acc *models.Account) error {
	if _, ok := r.items[acc.ID]; !ok {
		return errors.New("account not found")
	}
	r.items[acc.ID] = *acc
	return nil
}

func (r *fakeAccountRepo) GetByID(id string) (*models.Account, error) {
	acc, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

func (r *fakeAccountRepo) GetByEmail(email string) (*models.Account, error) {
	for _, acc := range r.items {
		if acc.Email == email {
			a := acc
			return &a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) FindByVerifiedPhone(phone string) (*models.Account, error) {
	for _, acc := range r.items {
		if acc.Phone == phone && acc.PhoneVerified {
			a := acc
			return &a, nil
		}
	}
	return nil, nil
}

type captureSender struct {
	phone   string
	message string
	fail    bool
}

func (s *captureSender) Send(_ context.Context, phone, message string) error {
	if s.fail {
		return errors.New("sms provider down")
	}
	s.phone = phone
	s.message = message
	return nil
}

// --- helpers ---

func newTestGate(t *testing.T) (*Gate, *fakeChallengeRepo, *fakeAccountRepo, *captureSender) {
	t.Helper()
	challenges := newFakeChallengeRepo()
	accounts := newFakeAccountRepo()
	sender := &captureSender{}
	g := NewGate(challenges, accounts, sender, zap.NewNop(), 3, 10*time.Minute)
	return g, challenges, accounts, sender
}

func storedChallenge(t *testing.T, repo *fakeChallengeRepo, phone string) models.VerificationChallenge {
	t.Helper()
	ch, err := repo.FindActive(phone, time.Now())
	require.NoError(t, err)
	require.NotNil(t, ch)
	return *ch
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

// --- tests ---

func TestIssueCreatesChallengeAndSendsCode(t *testing.T) {
	g, challenges, _, sender := newTestGate(t)

	canonical, err := g.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", canonical)

	ch := storedChallenge(t, challenges, canonical)
	assert.Equal(t, 0, ch.Attempts)
	assert.False(t, ch.Verified)
	assert.Len(t, ch.Code, 6)
	assert.Equal(t, canonical, sender.phone)
	assert.Contains(t, sender.message, ch.Code)
}

func TestIssueInvalidatesPriorPendingChallenge(t *testing.T) {
	g, challenges, _, _ := newTestGate(t)

	_, err := g.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	first := storedChallenge(t, challenges, "+919876543210")

	_, err = g.Issue(context.Background(), "+919876543210")
	require.NoError(t, err)

	assert.Len(t, challenges.items, 1)
	second := storedChallenge(t, challenges, "+919876543210")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestIssueSurfacesDeliveryFailureButKeepsChallenge(t *testing.T) {
	g, challenges, _, sender := newTestGate(t)
	sender.fail = true

	_, err := g.Issue(context.Background(), "9876543210")
	require.Error(t, err)
	assert.Len(t, challenges.items, 1)
}

func TestVerifyScenario(t *testing.T) {
	g, challenges, accounts, _ := newTestGate(t)
	require.NoError(t, accounts.Create(&models.Account{ID: "acc-1", Email: "a@example.com", Role: models.RoleSeeker}))

	_, err := g.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	ch := storedChallenge(t, challenges, "+919876543210")

	// Wrong code burns one attempt and reports the remainder.
	_, err = g.Verify(context.Background(), "acc-1", "9876543210", "111111")
	require.Error(t, err)
	assert.Equal(t, utils.CodeOTPIncorrect, appCode(t, err))
	assert.Contains(t, err.Error(), "2 attempts remaining")
	assert.Equal(t, 1, storedChallenge(t, challenges, "+919876543210").Attempts)

	// Correct code consumes the challenge and binds the phone.
	res, err := g.Verify(context.Background(), "acc-1", "9876543210", ch.Code)
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", res.Phone)
	assert.True(t, res.Verified)
	assert.Empty(t, challenges.items)

	acc, err := accounts.GetByID("acc-1")
	require.NoError(t, err)
	assert.True(t, acc.PhoneVerified)
	assert.Equal(t, "+919876543210", acc.Phone)
}

func TestVerifyMatchesAcrossInputForms(t *testing.T) {
	g, challenges, accounts, _ := newTestGate(t)
	require.NoError(t, accounts.Create(&models.Account{ID: "acc-1", Role: models.RoleSeeker}))

	_, err := g.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	ch := storedChallenge(t, challenges, "+919876543210")

	res, err := g.Verify(context.Background(), "acc-1", "919876543210", ch.Code)
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", res.Phone)
}

func TestVerifyThreeFailuresExhaustChallenge(t *testing.T) {
	g, challenges, accounts, _ := newTestGate(t)
	require.NoError(t, accounts.Create(&models.Account{ID: "acc-1", Role: models.RoleSeeker}))

	_, err := g.Issue(context.Background(), "9876543210")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = g.Verify(context.Background(), "acc-1", "9876543210", "000000")
		require.Error(t, err)
		assert.Equal(t, utils.CodeOTPIncorrect, appCode(t, err))
	}
	assert.Empty(t, challenges.items)

	// Fourth call finds no challenge at all.
	_, err = g.Verify(context.Background(), "acc-1", "9876543210", "000000")
	require.Error(t, err)
	assert.Equal(t, utils.CodeOTPInvalid, appCode(t, err))
}

func TestVerifyExpiredChallengeTreatedAsAbsent(t *testing.T) {
	g, challenges, accounts, _ := newTestGate(t)
	require.NoError(t, accounts.Create(&models.Account{ID: "acc-1", Role: models.RoleSeeker}))

	_, err := g.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	ch := storedChallenge(t, challenges, "+919876543210")

	g.now = func() time.Time { return ch.ExpiresAt.Add(time.Second) }

	_, err = g.Verify(context.Background(), "acc-1", "9876543210", ch.Code)
	require.Error(t, err)
	assert.Equal(t, utils.CodeOTPInvalid, appCode(t, err))
}

func TestVerifyPhoneUniqueness(t *testing.T) {
	g, challenges, accounts, _ := newTestGate(t)
	require.NoError(t, accounts.Create(&models.Account{
		ID: "acc-a", Role: models.RoleSeeker,
		Phone: "+919876543210", PhoneVerified: true,
	}))
	require.NoError(t, accounts.Create(&models.Account{ID: "acc-b", Role: models.RoleSeeker}))

	_, err := g.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	ch := storedChallenge(t, challenges, "+919876543210")

	_, err = g.Verify(context.Background(), "acc-b", "9876543210", ch.Code)
	require.Error(t, err)
	assert.Equal(t, utils.CodePhoneTaken, appCode(t, err))

	// B's own fields are untouched.
	b, err := accounts.GetByID("acc-b")
	require.NoError(t, err)
	assert.False(t, b.PhoneVerified)
	assert.Empty(t, b.Phone)
}

func TestVerifyUnknownAccount(t *testing.T) {
	g, challenges, _, _ := newTestGate(t)

	_, err := g.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	ch := storedChallenge(t, challenges, "+919876543210")

	_, err = g.Verify(context.Background(), "acc-missing", "9876543210", ch.Code)
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, appCode(t, err))
}
