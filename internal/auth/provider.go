// Package auth implements the identity provider: credential accounts,
// sign-in, sign-up and sign-out. Accounts are held separately from the
// user repository, which only stores profile records.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"foodsaver/internal/models"
	"foodsaver/internal/repository"
)

// invalidCredentials deliberately does not reveal whether the email or
// the password was wrong.
func invalidCredentials() error {
	return models.NewUnauthorizedError("Invalid email or password")
}

type account struct {
	ID           string
	Email        string
	PasswordHash []byte
	Role         models.Role
	FullName     string
	Organization string
}

// Provider authenticates accounts and maintains their session and
// profile records.
type Provider struct {
	mu       sync.RWMutex
	accounts map[string]account

	users    repository.UserRepository
	sessions repository.SessionStore
	now      func() time.Time
}

// SignInResult is returned on successful authentication.
type SignInResult struct {
	User    models.User
	Session models.Session
}

// NewProvider builds a provider pre-loaded with the demo accounts.
func NewProvider(users repository.UserRepository, sessions repository.SessionStore) (*Provider, error) {
	p := &Provider{
		accounts: make(map[string]account),
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
	if err := p.registerDemoAccounts(); err != nil {
		return nil, err
	}
	return p, nil
}

// demoPassword is shared by every demo account.
const demoPassword = "demo1234"

func (p *Provider) registerDemoAccounts() error {
	demos := []account{
		{ID: "admin-1", Email: "demo.admin@foodsaver.app", Role: models.RoleAdmin, FullName: "Demo Admin"},
		{ID: "donor-1", Email: "demo.donor@foodsaver.app", Role: models.RoleDonor, FullName: "Demo Donor"},
		{ID: "recipient-1", Email: "demo.recipient@foodsaver.app", Role: models.RoleRecipient, FullName: "Demo Recipient", Organization: "Demo Organization"},
		{ID: "analyst-1", Email: "demo.analyst@foodsaver.app", Role: models.RoleAnalyst, FullName: "Demo Analyst"},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}
	for _, a := range demos {
		a.PasswordHash = hash
		p.accounts[a.Email] = a
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn verifies credentials, refreshes the account's profile record
// and writes its session. Unknown emails and wrong passwords yield the
// same error.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	p.mu.RLock()
	acct, ok := p.accounts[normalizeEmail(email)]
	p.mu.RUnlock()
	if !ok {
		return nil, invalidCredentials()
	}
	if bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)) != nil {
		return nil, invalidCredentials()
	}

	user, err := p.users.Upsert(ctx, models.User{
		UserID:           acct.ID,
		FullName:         acct.FullName,
		OrganizationName: acct.Organization,
		Role:             acct.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("upserting user record: %w", err)
	}

	session := models.Session{
		User: models.SessionUser{ID: acct.ID, Email: acct.Email},
		Role: acct.Role,
		Profile: models.Profile{
			FullName:         acct.FullName,
			OrganizationName: acct.Organization,
		},
	}
	if err := p.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("writing session: %w", err)
	}
	return &SignInResult{User: *user, Session: session}, nil
}

// SignUpInput carries the fields a new registration supplies.
type SignUpInput struct {
	Email        string
	Password     string
	Role         models.Role
	FullName     string
	Organization string
}

// SignUp registers a new account and signs it in. Registering an email
// that already has an account is a conflict.
func (p *Provider) SignUp(ctx context.Context, in SignUpInput) (*SignInResult, error) {
	email := normalizeEmail(in.Email)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if in.FullName == "" {
		missing = append(missing, "full_name")
	}
	if len(missing) > 0 {
		return nil, models.NewMissingFieldsError(missing...)
	}
	role := in.Role
	if role == "" {
		role = models.RoleDonor
	}
	if !role.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("unknown role %q", in.Role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	p.mu.Lock()
	if _, exists := p.accounts[email]; exists {
		p.mu.Unlock()
		return nil, models.NewConflictError("an account with this email already exists")
	}
	acct := account{
		ID:           fmt.Sprintf("%s-%d", role, p.now().UnixMilli()),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FullName:     in.FullName,
		Organization: in.Organization,
	}
	p.accounts[email] = acct
	p.mu.Unlock()

	return p.SignIn(ctx, email, in.Password)
}

// SignOut removes the user's session. Signing out a user without a
// session is a no-op.
func (p *Provider) SignOut(ctx context.Context, userID string) error {
	return p.sessions.Delete(ctx, userID)
}

// CurrentSession returns the stored session, or nil when signed out.
func (p *Provider) CurrentSession(ctx context.Context, userID string) (*models.Session, error) {
	return p.sessions.Get(ctx, userID)
}

// LookupAccount resolves an email to its account id and role, for
// token issuance. The boolean reports whether the account exists.
func (p *Provider) LookupAccount(email string) (string, models.Role, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	acct, ok := p.accounts[normalizeEmail(email)]
	if !ok {
		return "", "", false
	}
	return acct.ID, acct.Role, true
}
