package services

import (
	"context"
	"errors"
	"strings"

	"github.com/neubistro/bistro/app/models"
	"github.com/neubistro/bistro/app/repositories"
	"github.com/neubistro/bistro/pkg/apperr"
	"github.com/neubistro/bistro/pkg/auth"
	"github.com/neubistro/bistro/pkg/logger"
)

// dummyHash is compared against when the email is unknown so that a miss
// costs the same bcrypt work as a wrong password.
var dummyHash, _ = auth.HashPassword("bistro-timing-equaliser")

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = NormalizeEmail(email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Wrap(apperr.KindInternal, "find user", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	u := &models.User{Email: email, Password: hash, Name: strings.TrimSpace(name)}
	if err := s.users.Create(ctx, u); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		if _, findErr := s.users.FindByEmail(ctx, email); findErr == nil {
			return nil, ErrDuplicateEmail
		}
		return nil, apperr.Wrap(apperr.KindInternal, "create user", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", u.ID)
	return u, nil
}

// Authenticate returns the user whose email and password match.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindInternal, "find user", err)
		}
		auth.CheckPassword(dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Me returns the user for id.
func (s *AuthService) Me(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "find user", err)
	}
	return u, nil
}
