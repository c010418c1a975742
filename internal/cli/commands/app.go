package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/talentfit/talentfit/internal/cli/auth"
	"github.com/talentfit/talentfit/internal/cli/client"
	"github.com/talentfit/talentfit/internal/cli/config"
	"github.com/talentfit/talentfit/internal/cli/guard"
	"github.com/talentfit/talentfit/internal/cli/serverselect"
	"github.com/talentfit/talentfit/internal/cli/session"
)

// APIURLEnv overrides the auth backend of talentfit.yaml
const APIURLEnv = "TALENTFIT_API_URL"

var (
	errNotLoggedIn   = errors.New("not logged in. Run 'talentfit login' first")
	errAccessDenied  = errors.New("access denied")
	errNotCandidate  = errors.New("this command is only available to candidates")
	errNotActionable = errors.New("nothing to update")
)

// Options carries the settings shared by every command of one process
type Options struct {
	APIURL      string
	ServerAlias string
	Debug       bool

	Out    io.Writer
	Err    io.Writer
	Logger zerolog.Logger

	// NewTokenStore builds the token store for a backend
	NewTokenStore func(baseURL string, logger zerolog.Logger) auth.TokenStore
	// Interactive reports whether the user can answer prompts
	Interactive func() bool
	// Prompt asks for a value; mask hides the input
	Prompt func(label string, mask bool) (string, error)

	app *App
}

// NewOptions returns the options of a real terminal session
func NewOptions() *Options {
	return &Options{
		Out:    os.Stdout,
		Err:    os.Stderr,
		Logger: zerolog.Nop(),
		NewTokenStore: func(baseURL string, logger zerolog.Logger) auth.TokenStore {
			return auth.NewKeyringStore(baseURL, logger)
		},
		Interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		Prompt: promptInput,
	}
}

// App is the composition root: one State, one Manager and one Guard per process
type App struct {
	BaseURL string
	API     *client.Client
	Tokens  auth.TokenStore
	State   *session.State
	Session *session.Manager
	Guard   *guard.Guard

	initialized bool
	logger      zerolog.Logger
}

// App builds the composition root on first use
func (o *Options) App() (*App, error) {
	if o.app != nil {
		return o.app, nil
	}

	baseURL, err := o.resolveBaseURL()
	if err != nil {
		return nil, err
	}

	api := client.New(baseURL)
	tokens := o.NewTokenStore(baseURL, o.Logger)
	state := session.NewState()
	nav := &terminalNavigator{out: o.Out}

	state.Subscribe(func(loggedIn bool) {
		o.Logger.Debug().Bool("logged_in", loggedIn).Msg("Session state changed")
	})

	o.app = &App{
		BaseURL: baseURL,
		API:     api,
		Tokens:  tokens,
		State:   state,
		Session: session.NewManager(api, tokens, state, nav, o.Logger),
		Guard:   guard.New(tokens, api, nav, &terminalNotifier{out: o.Err}, guard.DefaultRoutes(), o.Logger),
		logger:  o.Logger,
	}
	return o.app, nil
}

// resolveBaseURL picks the auth backend: --api-url, then TALENTFIT_API_URL, then talentfit.yaml
func (o *Options) resolveBaseURL() (string, error) {
	if o.APIURL != "" {
		return o.APIURL, nil
	}
	if v := os.Getenv(APIURLEnv); v != "" {
		return v, nil
	}

	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return "", fmt.Errorf("no API URL configured: %w\nUse --api-url, set %s or run 'talentfit init <auth-url>'", err, APIURLEnv)
	}

	server, err := serverselect.ResolveServer(cfg, o.ServerAlias)
	if err != nil {
		return "", err
	}
	if server.Auth == "" {
		return "", fmt.Errorf("server '%s' has no auth URL. Please edit %s", server.Alias, config.ConfigFileName)
	}

	return server.Auth, nil
}

// Initialize reconciles the stored token with the API once per process
func (a *App) Initialize(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if err := a.Session.Initialize(ctx); err != nil {
		return friendlyError(err, a.logger)
	}
	a.initialized = true
	return nil
}

// requireSession initializes the session and returns the token of a logged-in user
func (a *App) requireSession(ctx context.Context) (string, error) {
	if err := a.Initialize(ctx); err != nil {
		return "", err
	}
	if !a.State.Current() {
		return "", errNotLoggedIn
	}
	token, ok := a.Tokens.Get()
	if !ok {
		return "", errNotLoggedIn
	}
	return token, nil
}

// requireView runs the guard for a protected view and returns the token on success
func (a *App) requireView(ctx context.Context, path string) (string, *client.User, error) {
	if err := a.Initialize(ctx); err != nil {
		return "", nil, err
	}

	d := a.Guard.CanActivate(ctx, path)
	if !d.Allowed {
		if d.Err != nil && !errors.Is(d.Err, client.ErrUnauthorized) {
			return "", nil, friendlyError(d.Err, a.logger)
		}
		return "", nil, errAccessDenied
	}

	token, _ := a.Tokens.Get()
	return token, d.User, nil
}

// terminalNavigator renders view changes as hints on the terminal
type terminalNavigator struct {
	out io.Writer
}

func (n *terminalNavigator) Navigate(path string) {
	switch path {
	case guard.LoginPath:
		fmt.Fprintln(n.out, "Run 'talentfit login' to sign in.")
	case session.HomePath:
		fmt.Fprintln(n.out, "Logged out.")
	}
}

type terminalNotifier struct {
	out io.Writer
}

func (n *terminalNotifier) Notify(message string) {
	fmt.Fprintf(n.out, "⚠ %s\n", message)
}

// friendlyError turns a client error into the message shown to the user
func friendlyError(err error, logger zerolog.Logger) error {
	logger.Debug().Err(err).Msg("Request failed")

	var apiErr *client.APIError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errors.New("request cancelled")
	case errors.Is(err, client.ErrNetwork):
		return errors.New("could not connect to the server")
	case errors.Is(err, session.ErrNoSession):
		return errNotLoggedIn
	case errors.Is(err, client.ErrUnauthorized):
		return errors.New("your session has expired. Run 'talentfit login' again")
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500 && apiErr.Detail != "":
		return errors.New(apiErr.Detail)
	default:
		return errors.New("unexpected error, please try again")
	}
}

// require returns value, prompting for it when missing on an interactive terminal
func (o *Options) require(value, flag, label string, mask bool) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	if !o.Interactive() {
		return "", fmt.Errorf("--%s is required", flag)
	}
	return o.Prompt(label, mask)
}
