// Package auth covers user registration, login and access token handling.
// Accounts exist for booking history and the admin role; anonymous kiosk
// booking works without one.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkoval/cinetix/internal/domain"
	"github.com/mkoval/cinetix/internal/repository"
	postgresrepo "github.com/mkoval/cinetix/internal/repository/postgres"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
)

const minPasswordLen = 8

type Service struct {
	store  *postgresrepo.Store
	secret string
	ttl    time.Duration
}

func New(store *postgresrepo.Store, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl}
}

// Register creates a guest account. Roles are never taken from client
// input; admins are promoted out of band.
func (s *Service) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	const op = "service.auth.Register"

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u := domain.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         domain.RoleGuest,
	}

	id, err := s.store.Users().Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.ID = id

	return &u, nil
}

// Session is a signed access token plus its expiry and the user it
// belongs to.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Login verifies the credentials and issues an access token. Lookup
// failures and bad passwords collapse into one error so the endpoint does
// not leak which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	const op = "service.auth.Login"

	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, exp, err := NewAccessToken(s.secret, u.ID, u.Role, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// Authenticate turns a bearer token into the acting user. Used by the HTTP
// middleware.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	const op = "service.auth.Authenticate"

	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	u, err := s.store.Users().Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}
