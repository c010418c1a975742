package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/talentfit/talentfit/internal/cli/auth"
)

type account struct {
	password string
	token    string
	user     map[string]interface{}
}

// fakeBackend is a minimal UserAPI keyed by bearer token
type fakeBackend struct {
	mu       sync.Mutex
	accounts map[string]*account // by email
	requests []string
	forms    map[string]map[string][]string // by path
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()

	b := &fakeBackend{
		accounts: map[string]*account{},
		forms:    map[string]map[string][]string{},
	}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBackend) addAccount(email, password, token, role string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	user := map[string]interface{}{
		"id":       len(b.accounts) + 1,
		"email":    email,
		"nombre":   strings.Split(email, "@")[0],
		"role":     role,
		"verified": true,
	}
	if role == "candidato" {
		user["fecha_nacimiento"] = "2000-01-01"
	}
	b.accounts[email] = &account{
		password: password,
		token:    token,
		user:     user,
	}
}

func (b *fakeBackend) byToken(r *http.Request) *account {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	for _, a := range b.accounts {
		if token != "" && a.token == token {
			return a
		}
	}
	return nil
}

func (b *fakeBackend) seen() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *fakeBackend) form(path string) map[string][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.forms[path]
}

func reply(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	entry := r.Method + " " + path
	if r.URL.RawQuery != "" {
		entry += "?" + r.URL.RawQuery
	}
	b.requests = append(b.requests, entry)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			form := map[string][]string{}
			for k, v := range r.MultipartForm.Value {
				form[k] = v
			}
			for k, files := range r.MultipartForm.File {
				for _, fh := range files {
					form[k] = append(form[k], fh.Filename)
				}
			}
			b.forms[path] = form
		}
	}

	switch path {
	case "/health":
		reply(w, http.StatusOK, map[string]string{"status": "healthy"})
		return
	case "/login":
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		a, ok := b.accounts[req.Email]
		if !ok || a.password != req.Password {
			reply(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
			return
		}
		reply(w, http.StatusOK, map[string]interface{}{"access_token": a.token, "token_type": "bearer", "user": a.user})
		return

	case "/register-candidato", "/register-empresa":
		role := "candidato"
		if path == "/register-empresa" {
			role = "empresa"
		}
		reply(w, http.StatusOK, map[string]interface{}{
			"id": "new", "email": r.FormValue("email"), "nombre": r.FormValue("nombre"), "role": role, "verified": role == "candidato",
		})
		return

	case "/complete-registration":
		if r.FormValue("verification_code") != "123456" {
			reply(w, http.StatusBadRequest, map[string]string{"detail": "Invalid verification code"})
			return
		}
		reply(w, http.StatusOK, map[string]interface{}{"user": map[string]interface{}{"email": r.FormValue("email"), "verified": true}})
		return

	case "/resend-verification", "/verify-email":
		reply(w, http.StatusOK, map[string]string{"message": "ok"})
		return
	}

	a := b.byToken(r)
	if a == nil {
		reply(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return
	}
	role := a.user["role"]

	switch {
	case path == "/me":
		reply(w, http.StatusOK, a.user)
	case path == "/me/candidato" || path == "/me/empresa":
		user := map[string]interface{}{}
		for k, v := range a.user {
			user[k] = v
		}
		if name := r.FormValue("nombre"); name != "" {
			user["nombre"] = name
		}
		reply(w, http.StatusOK, user)
	case strings.HasPrefix(path, "/admin/"):
		if role != "admin" {
			reply(w, http.StatusForbidden, map[string]string{"detail": "Access denied"})
			return
		}
		if strings.HasPrefix(path, "/admin/companies/verify") {
			reply(w, http.StatusOK, map[string]string{"message": "ok"})
			return
		}
		var users []map[string]interface{}
		for _, acc := range b.accounts {
			users = append(users, acc.user)
		}
		reply(w, http.StatusOK, users)
	case strings.HasPrefix(path, "/companies/"):
		if role != "empresa" {
			reply(w, http.StatusForbidden, map[string]string{"detail": "Access denied"})
			return
		}
		switch path {
		case "/companies/my-recruiters":
			reply(w, http.StatusOK, map[string]interface{}{"recruiters": []map[string]interface{}{
				{"id": "r1", "email": "rita@x.com", "nombre": "Rita", "apellido": "Diaz", "assigned_at": "2024-03-01T10:00:00Z"},
			}})
		case "/companies/remove-recruiter":
			reply(w, http.StatusNotFound, map[string]string{"detail": "Recruiter not found"})
		default:
			reply(w, http.StatusOK, map[string]string{"message": "ok"})
		}
	case path == "/me/recruiting-for":
		reply(w, http.StatusOK, map[string]interface{}{"companies": []map[string]interface{}{
			{"id": "c1", "email": "acme@x.com", "nombre": "Acme", "assigned_at": "2024-03-01T10:00:00Z"},
		}})
	case strings.HasPrefix(path, "/me/resign-from-company/"):
		reply(w, http.StatusOK, map[string]string{"message": "ok"})
	default:
		reply(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

type testCLI struct {
	opts   *Options
	tokens *auth.MemoryStore
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestCLI(t *testing.T, apiURL string) *testCLI {
	t.Helper()

	tc := &testCLI{
		tokens: auth.NewMemoryStore(),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	tc.opts = &Options{
		APIURL: apiURL,
		Out:    tc.out,
		Err:    tc.errOut,
		Logger: zerolog.Nop(),
		NewTokenStore: func(string, zerolog.Logger) auth.TokenStore {
			return tc.tokens
		},
		Interactive: func() bool { return false },
		Prompt: func(label string, mask bool) (string, error) {
			t.Fatalf("unexpected prompt %q", label)
			return "", nil
		},
	}
	return tc
}

// run executes a fresh command built by newCmd, as a new process would
func (tc *testCLI) run(newCmd func(*Options) *cobra.Command, args ...string) error {
	tc.opts.app = nil
	tc.out.Reset()
	tc.errOut.Reset()

	cmd := newCmd(tc.opts)
	cmd.SetArgs(args)
	cmd.SetOut(tc.out)
	cmd.SetErr(tc.errOut)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.ExecuteContext(context.Background())
}
