package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/talentfit/talentfit/internal/cli/auth"
	"github.com/talentfit/talentfit/internal/cli/client"
)

// ErrNoSession is returned when an operation needs a token and none is stored
var ErrNoSession = errors.New("not logged in")

// HomePath is where Logout sends the user
const HomePath = "/"

// API is the subset of the UserAPI the Manager talks to
type API interface {
	Login(ctx context.Context, email, password string) (*client.LoginResponse, error)
	Me(ctx context.Context, token string) (*client.User, error)
	RegisterCandidate(ctx context.Context, in client.CandidateRequest, files ...client.Attachment) (*client.User, error)
	RegisterCompany(ctx context.Context, in client.CompanyRequest, files ...client.Attachment) (*client.User, error)
	CompleteRegistration(ctx context.Context, email, code string) (*client.User, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
}

// Navigator moves the user to another view
type Navigator interface {
	Navigate(path string)
}

// Manager performs login, registration, token validation and logout,
// updating the token store and State as side effects. The token is always
// written before State changes.
type Manager struct {
	api    API
	tokens auth.TokenStore
	state  *State
	nav    Navigator
	logger zerolog.Logger
}

// NewManager wires a Manager around its collaborators
func NewManager(api API, tokens auth.TokenStore, state *State, nav Navigator, logger zerolog.Logger) *Manager {
	return &Manager{
		api:    api,
		tokens: tokens,
		state:  state,
		nav:    nav,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// State returns the State the Manager drives
func (m *Manager) State() *State {
	return m.state
}

// Token returns the stored bearer token
func (m *Manager) Token() (string, bool) {
	return m.tokens.Get()
}

// Login exchanges credentials for a token. On failure nothing is mutated.
func (m *Manager) Login(ctx context.Context, email, password string) (*client.LoginResponse, error) {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	m.tokens.Save(resp.AccessToken)
	m.state.MarkLoggedIn()
	m.logger.Debug().Str("email", email).Msg("Logged in")

	return resp, nil
}

// RegisterCandidate creates a candidate account. It does not log the user in.
func (m *Manager) RegisterCandidate(ctx context.Context, in client.CandidateRequest, files ...client.Attachment) (*client.User, error) {
	return m.api.RegisterCandidate(ctx, in, files...)
}

// RegisterCompany creates a company account. It does not log the user in.
func (m *Manager) RegisterCompany(ctx context.Context, in client.CompanyRequest, files ...client.Attachment) (*client.User, error) {
	return m.api.RegisterCompany(ctx, in, files...)
}

// CompleteRegistration activates an account with its verification code
func (m *Manager) CompleteRegistration(ctx context.Context, email, code string) (*client.User, error) {
	return m.api.CompleteRegistration(ctx, email, code)
}

// VerifyEmail checks a verification code without consuming it
func (m *Manager) VerifyEmail(ctx context.Context, email, code string) error {
	return m.api.VerifyEmail(ctx, email, code)
}

// ResendVerification requests a fresh verification code
func (m *Manager) ResendVerification(ctx context.Context, email string) error {
	return m.api.ResendVerification(ctx, email)
}

// ValidateToken asks the API who the stored token belongs to. A 2xx marks
// the session logged in whatever the body holds. Any failure, or no token at
// all, clears the token and marks it logged out; the error carries the reason.
func (m *Manager) ValidateToken(ctx context.Context) (bool, error) {
	token, ok := m.tokens.Get()
	if !ok {
		m.state.MarkLoggedOut()
		return false, ErrNoSession
	}

	_, err := m.api.Me(ctx, token)
	if errors.Is(err, client.ErrDecode) {
		m.logger.Debug().Err(err).Msg("Token accepted, account body unreadable")
		err = nil
	}
	if err != nil {
		m.tokens.Clear()
		m.state.MarkLoggedOut()
		m.logger.Debug().Err(err).Msg("Token rejected, session cleared")
		return false, fmt.Errorf("token validation failed: %w", err)
	}

	m.state.MarkLoggedIn()
	return true, nil
}

// Logout clears the token, marks the session logged out and returns to the
// home view. Safe to call without a session.
func (m *Manager) Logout() {
	m.tokens.Clear()
	m.state.MarkLoggedOut()
	m.nav.Navigate(HomePath)
}

// Initialize reconciles the stored token with the API. Without a token the
// session is marked logged out and no request is made. A rejected token is
// an expected outcome and not reported; other failures are returned so the
// caller can tell the user the server is unreachable.
func (m *Manager) Initialize(ctx context.Context) error {
	if _, ok := m.tokens.Get(); !ok {
		m.state.MarkLoggedOut()
		return nil
	}

	if _, err := m.ValidateToken(ctx); err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return err
	}
	return nil
}

// CurrentUser fetches the account of the stored token. It never changes
// the session.
func (m *Manager) CurrentUser(ctx context.Context) (*client.User, error) {
	token, ok := m.tokens.Get()
	if !ok {
		return nil, ErrNoSession
	}
	return m.api.Me(ctx, token)
}
