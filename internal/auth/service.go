package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/validmoviez/validmoviez/internal/domain"
	"github.com/validmoviez/validmoviez/internal/logger"
)

// minPasswordLen matches the provider's weak-password threshold so
// client-side validation and provider behavior agree.
const minPasswordLen = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validation errors surfaced before any provider call is made.
var (
	ErrInvalidEmailFormat = errors.New("please enter a valid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmptyDisplayName   = errors.New("please enter a name")
)

// Service fronts the identity provider with the account screens'
// client-side validation, and wraps provider failures for translation
// via UserMessage.
type Service struct {
	provider domain.IdentityProvider
	log      *logger.Logger
}

// NewService creates the auth service.
func NewService(provider domain.IdentityProvider, log *logger.Logger) *Service {
	return &Service{provider: provider, log: log}
}

// SignUp validates input, creates the account, and sets the display
// name. If the name update fails after account creation, the account
// exists and the error is surfaced; the user can retry the rename.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmailFormat
	}
	if !ValidPassword(password) {
		return ErrPasswordTooShort
	}
	if displayName == "" {
		return ErrEmptyDisplayName
	}

	if err := s.provider.CreateAccount(ctx, email, password); err != nil {
		return fmt.Errorf("creating account: %w", err)
	}
	if err := s.provider.UpdateDisplayName(ctx, displayName); err != nil {
		return fmt.Errorf("setting display name: %w", err)
	}

	s.log.Info("signup complete for %s", email)
	return nil
}

// SignIn validates input and opens a session.
func (s *Service) SignIn(ctx context.Context, email, password string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmailFormat
	}
	if !ValidPassword(password) {
		return ErrPasswordTooShort
	}

	if err := s.provider.SignIn(ctx, email, password); err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	return nil
}

// SignOut closes the current session.
func (s *Service) SignOut(ctx context.Context) error {
	return s.provider.SignOut(ctx)
}

// SendPasswordReset validates the email and requests a reset link.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmailFormat
	}
	if err := s.provider.SendPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("requesting password reset: %w", err)
	}
	return nil
}

// UpdateDisplayName renames the signed-in account.
func (s *Service) UpdateDisplayName(ctx context.Context, name string) error {
	if name == "" {
		return ErrEmptyDisplayName
	}
	if err := s.provider.UpdateDisplayName(ctx, name); err != nil {
		return fmt.Errorf("updating display name: %w", err)
	}
	return nil
}

// DeleteAccount reauthenticates with the password and deletes the
// account as a single provider operation. On failure the session is
// untouched and the call can simply be retried; no compensating
// action is needed.
func (s *Service) DeleteAccount(ctx context.Context, password string) error {
	if !ValidPassword(password) {
		return ErrPasswordTooShort
	}
	if err := s.provider.ReauthenticateAndDelete(ctx, password); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return nil
}

// ValidEmail reports whether the address passes the screens' check.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPassword reports whether the password meets the minimum length.
func ValidPassword(password string) bool {
	return len(password) >= minPasswordLen
}
