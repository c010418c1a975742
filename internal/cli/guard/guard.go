// Package guard decides whether a view may be entered, based on the stored
// token and the role of the current user.
package guard

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/talentfit/talentfit/internal/cli/auth"
	"github.com/talentfit/talentfit/internal/cli/client"
	"github.com/talentfit/talentfit/internal/models"
)

// Redirect targets and the notice shown on role denial
const (
	LoginPath        = "/login"
	DefaultPath      = "/inicio"
	PermissionDenied = "You do not have permission to access this page"
)

// Protected views
const (
	AdminDashboardPath          = "/admin-dashboard"
	JobOpeningAdministratorPath = "/job-opening-administrator"
)

// Routes maps a view path to the role required to enter it. Unlisted paths are public.
type Routes map[string]models.Role

// DefaultRoutes returns the route table of the job board
func DefaultRoutes() Routes {
	return Routes{
		AdminDashboardPath:          models.RoleAdmin,
		JobOpeningAdministratorPath: models.RoleCompany,
	}
}

// UserFetcher loads the account behind a token
type UserFetcher interface {
	Me(ctx context.Context, token string) (*client.User, error)
}

// Navigator moves the user to another view
type Navigator interface {
	Navigate(path string)
}

// Notifier shows a blocking notice to the user
type Notifier interface {
	Notify(message string)
}

// Reason explains a Decision
type Reason string

const (
	ReasonPublic          Reason = "public"
	ReasonAllowed         Reason = "allowed"
	ReasonNoSession       Reason = "no_session"
	ReasonUserUnavailable Reason = "user_unavailable"
	ReasonWrongRole       Reason = "wrong_role"
)

// Decision is the outcome of one navigation attempt
type Decision struct {
	Allowed  bool
	Reason   Reason
	Redirect string
	User     *client.User
	Err      error
}

// Guard evaluates navigation attempts. It reads the token store but never
// writes it, and it does not touch the session state.
type Guard struct {
	tokens auth.TokenStore
	users  UserFetcher
	nav    Navigator
	notify Notifier
	routes Routes
	logger zerolog.Logger
}

// New creates a Guard. A nil routes table uses DefaultRoutes.
func New(tokens auth.TokenStore, users UserFetcher, nav Navigator, notify Notifier, routes Routes, logger zerolog.Logger) *Guard {
	if routes == nil {
		routes = DefaultRoutes()
	}
	return &Guard{
		tokens: tokens,
		users:  users,
		nav:    nav,
		notify: notify,
		routes: routes,
		logger: logger.With().Str("component", "guard").Logger(),
	}
}

// RequiredRole returns the role needed for path, if any
func (g *Guard) RequiredRole(path string) (models.Role, bool) {
	role, ok := g.routes[normalizePath(path)]
	return role, ok
}

// CanActivate evaluates a navigation to path. The user is fetched on every
// call; nothing is cached between navigations.
func (g *Guard) CanActivate(ctx context.Context, path string) Decision {
	required, protected := g.RequiredRole(path)
	if !protected {
		return Decision{Allowed: true, Reason: ReasonPublic}
	}

	token, ok := g.tokens.Get()
	if !ok {
		return g.deny(Decision{Reason: ReasonNoSession, Redirect: LoginPath})
	}

	user, err := g.users.Me(ctx, token)
	if err != nil {
		g.logger.Debug().Err(err).Str("path", path).Msg("Could not load user, denying")
		return g.deny(Decision{Reason: ReasonUserUnavailable, Redirect: LoginPath, Err: err})
	}

	if user.Role != required {
		g.logger.Debug().
			Str("path", path).
			Str("role", string(user.Role)).
			Str("required", string(required)).
			Msg("Role mismatch, denying")
		g.notify.Notify(PermissionDenied)
		return g.deny(Decision{Reason: ReasonWrongRole, Redirect: DefaultPath, User: user})
	}

	return Decision{Allowed: true, Reason: ReasonAllowed, User: user}
}

func (g *Guard) deny(d Decision) Decision {
	g.nav.Navigate(d.Redirect)
	return d
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
