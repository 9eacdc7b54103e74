package service

import (
	"context"
	"fmt"
	"time"

	"apotek-store/internal/core/auth"
	"apotek-store/internal/features/users/domain"
	"apotek-store/internal/features/users/ports"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, login and PIN verification.
type UserService struct {
	repo   ports.UserRepository
	tokens *auth.TokenManager
}

// NewUserService creates a new UserService.
func NewUserService(repo ports.UserRepository, tokens *auth.TokenManager) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates an account with bcrypt-hashed password and payment PIN.
func (s *UserService) Register(ctx context.Context, name, email, password, pin string) (*domain.User, error) {
	if !domain.ValidPIN(pin) {
		return nil, domain.ErrPINFormat
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service: failed to hash password: %w", err)
	}
	pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service: failed to hash PIN: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		PINHash:      string(pinHash),
		Role:         auth.RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the password and issues a bearer token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err == domain.ErrUserNotFound {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		return "", nil, fmt.Errorf("service: failed to issue token: %w", err)
	}
	return token, user, nil
}

// VerifyPIN checks a user's payment PIN. Used by the payment authorizer.
func (s *UserService) VerifyPIN(ctx context.Context, userID, pin string) error {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PINHash), []byte(pin)) != nil {
		return domain.ErrInvalidPIN
	}
	return nil
}
