package account

import (
	"strings"
	"time"

	accountRepo "roomhive/database/repository/account"
	"roomhive/models"
	"roomhive/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is the session token lifetime.
const tokenTTL = 72 * time.Hour

// SignupInput is the payload for account registration.
type SignupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

// AuthResult carries the account and its session token.
type AuthResult struct {
	Account *models.Account `json:"account"`
	Token   string          `json:"token"`
}

// Service owns account registration, authentication and profile reads.
type Service struct {
	Repo   accountRepo.AccountRepository
	Logger *zap.Logger
}

// Signup registers a new account with a bcrypt password hash.
func (s *Service) Signup(in SignupInput) (*AuthResult, error) {
	if !models.ValidRole(in.Role) {
		return nil, utils.ValidationError("role must be one of owner, seeker, both, admin")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ConflictError(utils.CodeEmailTaken, "email already registered", "sign in instead")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.InternalError("failed to hash password")
	}

	acc := &models.Account{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if err := s.Repo.Create(acc); err != nil {
		if accountRepo.IsDuplicateKey(err) {
			return nil, utils.ConflictError(utils.CodeEmailTaken, "email already registered", "sign in instead")
		}
		return nil, err
	}

	token, err := utils.GenerateToken(acc.ID, acc.Email, tokenTTL)
	if err != nil {
		return nil, utils.InternalError("failed to issue session token")
	}

	s.Logger.Info("account registered", zap.String("accountID", acc.ID), zap.String("role", acc.Role))
	return &AuthResult{Account: acc, Token: token}, nil
}

// Signin authenticates by email and password.
func (s *Service) Signin(email, password string) (*AuthResult, error) {
	acc, err := s.Repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, utils.AuthenticationError("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, utils.AuthenticationError("invalid email or password")
	}

	token, err := utils.GenerateToken(acc.ID, acc.Email, tokenTTL)
	if err != nil {
		return nil, utils.InternalError("failed to issue session token")
	}
	return &AuthResult{Account: acc, Token: token}, nil
}

// GetByID returns the account profile.
func (s *Service) GetByID(id string) (*models.Account, error) {
	acc, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, utils.NotFoundError("account not found")
	}
	return acc, nil
}
