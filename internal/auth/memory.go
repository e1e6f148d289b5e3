package auth

import (
	"context"
	"sync"

	"github.com/validmoviez/validmoviez/internal/domain"
	"github.com/validmoviez/validmoviez/internal/logger"
)

// Compile-time interface check.
var _ domain.IdentityProvider = (*MemoryProvider)(nil)

// maxSignInAttempts failed sign-ins in a row trip the provider's
// rate limit for that account.
const maxSignInAttempts = 5

type account struct {
	email       string
	password    string
	displayName string
	disabled    bool
	failedTries int
}

// MemoryProvider is an in-memory identity provider that mimics the
// hosted service's behavior and error codes. Safe for concurrent use.
type MemoryProvider struct {
	mu       sync.Mutex
	accounts map[string]*account
	current  string // email of the signed-in account, "" when signed out
	log      *logger.Logger
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider(log *logger.Logger) *MemoryProvider {
	return &MemoryProvider{
		accounts: make(map[string]*account),
		log:      log,
	}
}

// CreateAccount registers a new account and signs it in, like the
// hosted provider does.
func (p *MemoryProvider) CreateAccount(ctx context.Context, email, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[email]; ok {
		return &Error{Code: CodeEmailAlreadyInUse}
	}
	if len(password) < 6 {
		return &Error{Code: CodeWeakPassword}
	}

	p.accounts[email] = &account{email: email, password: password}
	p.current = email
	p.log.Info("account created: %s", email)
	return nil
}

// SignIn verifies credentials and opens a session.
func (p *MemoryProvider) SignIn(ctx context.Context, email, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, ok := p.accounts[email]
	if !ok {
		return &Error{Code: CodeUserNotFound}
	}
	if acct.disabled {
		return &Error{Code: CodeUserDisabled}
	}
	if acct.failedTries >= maxSignInAttempts {
		return &Error{Code: CodeTooManyRequests}
	}
	if acct.password != password {
		acct.failedTries++
		return &Error{Code: CodeWrongPassword}
	}

	acct.failedTries = 0
	p.current = email
	p.log.Info("signed in: %s", email)
	return nil
}

// SignOut closes the session. Signing out while signed out is a no-op,
// like the hosted provider.
func (p *MemoryProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != "" {
		p.log.Info("signed out: %s", p.current)
	}
	p.current = ""
	return nil
}

// SendPasswordReset pretends to email a reset link.
func (p *MemoryProvider) SendPasswordReset(ctx context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[email]; !ok {
		return &Error{Code: CodeUserNotFound}
	}
	p.log.Info("password reset sent: %s", email)
	return nil
}

// UpdateDisplayName sets the signed-in account's display name.
func (p *MemoryProvider) UpdateDisplayName(ctx context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct := p.accounts[p.current]
	if acct == nil {
		return domain.ErrNoSession
	}
	acct.displayName = name
	p.log.Debug("display name updated for %s", p.current)
	return nil
}

// ReauthenticateAndDelete verifies the password and removes the
// signed-in account in one operation. A failed check leaves the
// session signed in; the call is safe to retry.
func (p *MemoryProvider) ReauthenticateAndDelete(ctx context.Context, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct := p.accounts[p.current]
	if acct == nil {
		return domain.ErrNoSession
	}
	if acct.password != password {
		return &Error{Code: CodeWrongPassword}
	}

	delete(p.accounts, p.current)
	p.log.Info("account deleted: %s", p.current)
	p.current = ""
	return nil
}

// CurrentUser returns the signed-in email and display name. ok is
// false when signed out.
func (p *MemoryProvider) CurrentUser() (email, displayName string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct := p.accounts[p.current]
	if acct == nil {
		return "", "", false
	}
	return acct.email, acct.displayName, true
}
