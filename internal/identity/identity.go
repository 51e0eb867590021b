// Package identity resolves who is acting. Exactly one identity is active
// per process; anonymous is represented by a nil Current.
package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fastfood/internal/apperr"
	"fastfood/internal/models"
	"fastfood/internal/seed"
	"fastfood/internal/session"
	"fastfood/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartClearer is the slice of the cart manager the logout policy needs.
type CartClearer interface {
	Clear(userID string)
}

type account struct {
	user models.User
	hash string
	salt string
}

// Service authenticates against an in-memory account list and mirrors the
// active identity into the durable session slot.
type Service struct {
	mu       sync.Mutex
	accounts map[string]account
	current  *models.User
	slot     session.Store
	carts    CartClearer
	logger   *zap.Logger
}

// NewService builds the service from the fixed seed credentials. Plaintext
// seed passwords are hashed here and never kept.
func NewService(slot session.Store, carts CartClearer) (*Service, error) {
	accounts := make(map[string]account)
	for _, acc := range seed.Accounts() {
		hash, salt, err := hashPassword(acc.Password)
		if err != nil {
			return nil, fmt.Errorf("hash seed credential for %s: %w", acc.User.Email, err)
		}
		accounts[normalizeEmail(acc.User.Email)] = account{
			user: acc.User,
			hash: hash,
			salt: salt,
		}
	}

	return &Service{
		accounts: accounts,
		slot:     slot,
		carts:    carts,
		logger:   util.GetLogger(),
	}, nil
}

// Restore reads the session slot once at startup and adopts the persisted
// identity if present.
func (s *Service) Restore(ctx context.Context) error {
	user, err := s.slot.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if user == nil {
		return nil
	}

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()

	s.logger.Info("Session restored",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return nil
}

// Login matches email and password against the account list. On success
// the identity becomes active and its public fields are persisted.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	ctx, span := util.StartSpan(ctx, "identity.Login")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		util.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return models.User{}, fmt.Errorf("login %s: %w", email, apperr.ErrInvalidCredentials)
	}

	match, err := verifyPassword(password, acc.salt, acc.hash)
	if err != nil {
		return models.User{}, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		util.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return models.User{}, fmt.Errorf("login %s: %w", email, apperr.ErrInvalidCredentials)
	}

	// Persist first: the identity only becomes active once the slot write
	// succeeded, so a failed persist leaves the session anonymous.
	user := acc.user
	if err := s.slot.Save(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("persist session: %w", err)
	}
	s.current = &user

	util.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Signup registers a new customer account, activates it and persists the
// identity. New accounts always get the user role.
func (s *Service) Signup(ctx context.Context, name, email, password string) (models.User, error) {
	ctx, span := util.StartSpan(ctx, "identity.Signup")
	defer span.End()

	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return models.User{}, fmt.Errorf("name, email and password are required: %w", apperr.ErrValidation)
	}

	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[key]; exists {
		return models.User{}, fmt.Errorf("signup %s: %w", email, apperr.ErrEmailTaken)
	}

	hash, salt, err := hashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:    uuid.New().String(),
		Name:  name,
		Email: email,
		Role:  models.RoleUser,
	}
	s.accounts[key] = account{user: user, hash: hash, salt: salt}

	if err := s.slot.Save(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("persist session: %w", err)
	}
	s.current = &user

	util.SignupsTotal.Inc()
	s.logger.Info("User signed up", zap.String("user_id", user.ID))
	return user, nil
}

// Logout clears the active identity, the durable slot, and by policy the
// user's cart. Logging out while anonymous is a no-op.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}

	// Clear the slot first; when that fails the session stays intact so
	// the cart-clearing policy is not skipped on a half-done logout.
	userID := s.current.ID
	if err := s.slot.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.current = nil
	s.carts.Clear(userID)

	s.logger.Info("User logged out", zap.String("user_id", userID))
	return nil
}

// Current returns the active identity, or nil for anonymous.
func (s *Service) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
