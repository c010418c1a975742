package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentfit/talentfit/internal/accounts"
	"github.com/talentfit/talentfit/internal/config"
	"github.com/talentfit/talentfit/internal/database"
	"github.com/talentfit/talentfit/internal/models"
	"github.com/talentfit/talentfit/internal/uploads"
)

const testInternalKey = "internal-test-key"

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *captureMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codes == nil {
		m.codes = map[string]string{}
	}
	m.codes[email] = code
	return nil
}

func (m *captureMailer) code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type testEnv struct {
	server *Server
	mailer *captureMailer
}

func newTestEnv(t *testing.T, requireVerification bool) *testEnv {
	t.Helper()

	db, err := database.OpenMemory()
	require.NoError(t, err)

	dir := t.TempDir()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{CORSOrigins: []string{"http://localhost:4200"}},
		Auth: config.AuthConfig{
			JWTSecret:                "test-secret",
			TokenTTL:                 30 * time.Minute,
			InternalAPIKey:           testInternalKey,
			RequireEmailVerification: requireVerification,
		},
		Uploads: config.UploadsConfig{
			ProfilePicturesDir: filepath.Join(dir, "profile_pictures"),
			CVDir:              filepath.Join(dir, "uploaded_cvs"),
		},
	}

	files, err := uploads.NewStore(uploads.ProfilePictures(cfg.Uploads.ProfilePicturesDir), uploads.CVs(cfg.Uploads.CVDir))
	require.NoError(t, err)

	mailer := &captureMailer{}
	svc := accounts.NewService(db, files, mailer, nil, accounts.Options{
		RequireEmailVerification: requireVerification,
	}, zerolog.Nop())

	_, err = svc.EnsureAdmin(context.Background(), "admin@talentfit.io", "admin1234", "Admin")
	require.NoError(t, err)

	return &testEnv{
		server: newServer(cfg, db, svc, zerolog.Nop(), "test"),
		mailer: mailer,
	}
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func (e *testEnv) do(t *testing.T, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	payload, _ := json.Marshal(LoginRequest{Email: email, Password: password})
	rec := e.do(t, http.MethodPost, "/api/v1/login", "", bytes.NewBuffer(payload), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func candidateFields(email string) map[string]string {
	return map[string]string{
		"email":            email,
		"password":         "secret123",
		"nombre":           "Ana",
		"apellido":         "Pérez",
		"genero":           "femenino",
		"fecha_nacimiento": "1995-04-02",
	}
}

func (e *testEnv) registerCandidate(t *testing.T, email string) models.User {
	t.Helper()
	body, ct := multipartBody(t, candidateFields(email), formFile{"cv_file", "cv.pdf", []byte("%PDF-1.4")})
	rec := e.do(t, http.MethodPost, "/api/v1/register-candidato", "", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user
}

func (e *testEnv) registerCompany(t *testing.T, email string) models.User {
	t.Helper()
	body, ct := multipartBody(t, map[string]string{
		"email":       email,
		"password":    "secret123",
		"nombre":      "Acme",
		"descripcion": "Widgets",
	})
	rec := e.do(t, http.MethodPost, "/api/v1/register-empresa", "", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodGet, "/api/v1/health", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestRegisterCandidate(t *testing.T) {
	env := newTestEnv(t, false)

	user := env.registerCandidate(t, "ana@example.com")
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, models.RoleCandidate, user.Role)
	assert.True(t, user.Verified)
	require.NotNil(t, user.CVFilename)
	assert.Contains(t, *user.CVFilename, "ana_")

	body, ct := multipartBody(t, candidateFields("ana@example.com"))
	rec := env.do(t, http.MethodPost, "/api/v1/register-candidato", "", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", detail(t, rec))
}

func TestRegisterCandidate_Validation(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name   string
		modify func(map[string]string)
		want   string
	}{
		{"minor", func(f map[string]string) { f["fecha_nacimiento"] = time.Now().AddDate(-17, 0, 0).Format("2006-01-02") }, "at least 18"},
		{"weak password", func(f map[string]string) { f["password"] = "password" }, "password must be"},
		{"bad gender", func(f map[string]string) { f["genero"] = "x" }, "genero must be"},
		{"bad email", func(f map[string]string) { f["email"] = "not-an-email" }, "valid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := candidateFields("val@example.com")
			tt.modify(fields)
			body, ct := multipartBody(t, fields)
			rec := env.do(t, http.MethodPost, "/api/v1/register-candidato", "", body, ct)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, detail(t, rec), tt.want)
		})
	}
}

func TestRegisterCandidate_RejectsNonPDFCV(t *testing.T) {
	env := newTestEnv(t, false)

	body, ct := multipartBody(t, candidateFields("ana@example.com"), formFile{"cv_file", "cv.docx", []byte("x")})
	rec := env.do(t, http.MethodPost, "/api/v1/register-candidato", "", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t, false)
	env.registerCandidate(t, "ana@example.com")

	payload, _ := json.Marshal(LoginRequest{Email: "ana@example.com", Password: "secret123"})
	rec := env.do(t, http.MethodPost, "/api/v1/login", "", bytes.NewBuffer(payload), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, models.RoleCandidate, resp.User.Role)

	rec = env.do(t, http.MethodGet, "/api/v1/me", resp.AccessToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "ana@example.com", me.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	// Dates go out without a time part
	assert.Contains(t, rec.Body.String(), `"fecha_nacimiento":"1995-04-02"`)
	require.NotNil(t, me.DateOfBirth)
	assert.Equal(t, "1995-04-02", me.DateOfBirth.Format(models.DateLayout))
}

func TestLogin_BadCredentials(t *testing.T) {
	env := newTestEnv(t, false)
	env.registerCandidate(t, "ana@example.com")

	payload, _ := json.Marshal(LoginRequest{Email: "ana@example.com", Password: "wrong-pass1"})
	rec := env.do(t, http.MethodPost, "/api/v1/login", "", bytes.NewBuffer(payload), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestMe_RequiresValidToken(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/api/v1/me", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/me", "garbage", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGating(t *testing.T) {
	env := newTestEnv(t, false)
	env.registerCandidate(t, "ana@example.com")
	candidateToken := env.login(t, "ana@example.com", "secret123")
	adminToken := env.login(t, "admin@talentfit.io", "admin1234")

	rec := env.do(t, http.MethodGet, "/api/v1/admin/users", candidateToken, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/companies/my-recruiters", candidateToken, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/users?skip=0&limit=10", adminToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var users []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	body, ct := multipartBody(t, map[string]string{"descripcion": "nope"})
	rec = env.do(t, http.MethodPut, "/api/v1/me/empresa", candidateToken, body, ct)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateCandidateProfile(t *testing.T) {
	env := newTestEnv(t, false)
	env.registerCandidate(t, "ana@example.com")
	token := env.login(t, "ana@example.com", "secret123")

	body, ct := multipartBody(t, map[string]string{"nombre": "Ana María", "genero": "otro"},
		formFile{"profile_picture", "me.png", []byte("png")})
	rec := env.do(t, http.MethodPut, "/api/v1/me/candidato", token, body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "Ana María", user.Name)
	require.NotNil(t, user.Gender)
	assert.Equal(t, models.GenderOther, *user.Gender)
	require.NotNil(t, user.ProfilePicture)

	rec = env.do(t, http.MethodGet, "/profile_pictures/"+*user.ProfilePicture, "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompanyApproval(t *testing.T) {
	env := newTestEnv(t, false)
	company := env.registerCompany(t, "hr@acme.com")
	assert.False(t, company.Verified)
	adminToken := env.login(t, "admin@talentfit.io", "admin1234")

	rec := env.do(t, http.MethodGet, "/api/v1/admin/companies/pending", adminToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending, 1)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/companies/verify?company_email=hr@acme.com", adminToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/companies/pending", adminToken, nil, "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Empty(t, pending)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/companies/verify?company_email=missing@acme.com", adminToken, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecruiterEndpoints(t *testing.T) {
	env := newTestEnv(t, false)
	company := env.registerCompany(t, "hr@acme.com")
	env.registerCandidate(t, "ana@example.com")
	companyToken := env.login(t, "hr@acme.com", "secret123")
	candidateToken := env.login(t, "ana@example.com", "secret123")

	rec := env.do(t, http.MethodPost, "/api/v1/companies/add-recruiter?recruiter_email=ana@example.com", companyToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/companies/add-recruiter?recruiter_email=ana@example.com", companyToken, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/companies/my-recruiters", companyToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var recruiters struct {
		Recruiters []RecruiterEntry `json:"recruiters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recruiters))
	require.Len(t, recruiters.Recruiters, 1)
	assert.Equal(t, "ana@example.com", recruiters.Recruiters[0].Email)

	rec = env.do(t, http.MethodGet, "/api/v1/me/recruiting-for", candidateToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var companies struct {
		Companies []CompanyEntry `json:"companies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &companies))
	require.Len(t, companies.Companies, 1)
	assert.Equal(t, company.ID, companies.Companies[0].ID)

	rec = env.do(t, http.MethodDelete, "/api/v1/me/resign-from-company/"+company.ID, candidateToken, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/companies/remove-recruiter?recruiter_email=ana@example.com", companyToken, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerificationEndpoints(t *testing.T) {
	env := newTestEnv(t, true)
	user := env.registerCandidate(t, "ana@example.com")
	assert.False(t, user.Verified)

	code := env.mailer.code("ana@example.com")
	require.Len(t, code, 6)

	body, ct := multipartBody(t, map[string]string{"email": "ana@example.com", "code": code})
	rec := env.do(t, http.MethodPost, "/api/v1/verify-email", "", body, ct)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body, ct = multipartBody(t, map[string]string{"email": "ana@example.com", "verification_code": "12345"})
	rec = env.do(t, http.MethodPost, "/api/v1/complete-registration", "", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body, ct = multipartBody(t, map[string]string{"email": "ana@example.com", "verification_code": code})
	rec = env.do(t, http.MethodPost, "/api/v1/complete-registration", "", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token := env.login(t, "ana@example.com", "secret123")
	rec = env.do(t, http.MethodGet, "/api/v1/me", token, nil, "")
	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.True(t, me.Verified)

	body, ct = multipartBody(t, map[string]string{"email": "ana@example.com"})
	rec = env.do(t, http.MethodPost, "/api/v1/resend-verification", "", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternalUserEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	user := env.registerCandidate(t, "ana@example.com")

	rec := env.do(t, http.MethodGet, "/api/v1/internal/users/"+user.ID, "", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/internal/users/"+user.ID, nil)
	req.Header.Set(internalKeyHeader, testInternalKey)
	rr := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ana@example.com")
}

func TestIsAdult(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, isAdult(time.Date(2008, 6, 15, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, isAdult(time.Date(2008, 6, 16, 0, 0, 0, 0, time.UTC), now))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, validPassword("secret123"))
	assert.False(t, validPassword("short1"))
	assert.False(t, validPassword("onlyletters"))
	assert.False(t, validPassword("12345678"))
}
