package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const dateLayout = "2006-01-02"

// Login authenticates the user and returns the session credentials
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req, err := jsonRequest(http.MethodPost, "/login", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}

	return &resp, nil
}

// Me returns the account the token belongs to
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/me", token: token}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterCandidate creates a candidate account
func (c *Client) RegisterCandidate(ctx context.Context, in CandidateRequest, files ...Attachment) (*User, error) {
	req, err := multipartRequest(http.MethodPost, "/register-candidato", "", []formField{
		{"email", in.Email},
		{"password", in.Password},
		{"nombre", in.Name},
		{"apellido", in.LastName},
		{"genero", string(in.Gender)},
		{"fecha_nacimiento", in.DateOfBirth.Format(dateLayout)},
	}, files)
	if err != nil {
		return nil, err
	}

	var user User
	if err := c.do(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterCompany creates a company account
func (c *Client) RegisterCompany(ctx context.Context, in CompanyRequest, files ...Attachment) (*User, error) {
	req, err := multipartRequest(http.MethodPost, "/register-empresa", "", []formField{
		{"email", in.Email},
		{"password", in.Password},
		{"nombre", in.Name},
		{"descripcion", in.Description},
	}, files)
	if err != nil {
		return nil, err
	}

	var user User
	if err := c.do(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CompleteRegistration consumes a verification code and activates the account
func (c *Client) CompleteRegistration(ctx context.Context, email, code string) (*User, error) {
	req, err := multipartRequest(http.MethodPost, "/complete-registration", "", []formField{
		{"email", email},
		{"verification_code", code},
	}, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// VerifyEmail checks a verification code without consuming it
func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	req, err := multipartRequest(http.MethodPost, "/verify-email", "", []formField{
		{"email", email},
		{"code", code},
	}, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// ResendVerification asks for a new verification code
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	req, err := multipartRequest(http.MethodPost, "/resend-verification", "", []formField{
		{"email", email},
	}, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// UpdateCandidate changes the candidate profile of the token's owner
func (c *Client) UpdateCandidate(ctx context.Context, token string, in CandidateUpdate, files ...Attachment) (*User, error) {
	var fields []formField
	fields = optionalField(fields, "nombre", in.Name)
	fields = optionalField(fields, "apellido", in.LastName)
	if in.Gender != nil {
		fields = append(fields, formField{"genero", string(*in.Gender)})
	}
	if in.DateOfBirth != nil {
		fields = append(fields, formField{"fecha_nacimiento", in.DateOfBirth.Format(dateLayout)})
	}

	return c.updateProfile(ctx, "/me/candidato", token, fields, files)
}

// UpdateCompany changes the company profile of the token's owner
func (c *Client) UpdateCompany(ctx context.Context, token string, in CompanyUpdate, files ...Attachment) (*User, error) {
	var fields []formField
	fields = optionalField(fields, "nombre", in.Name)
	fields = optionalField(fields, "descripcion", in.Description)

	return c.updateProfile(ctx, "/me/empresa", token, fields, files)
}

func (c *Client) updateProfile(ctx context.Context, path, token string, fields []formField, files []Attachment) (*User, error) {
	req, err := multipartRequest(http.MethodPut, path, token, fields, files)
	if err != nil {
		return nil, err
	}

	var user User
	if err := c.do(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns a page of all accounts (admin only)
func (c *Client) ListUsers(ctx context.Context, token string, skip, limit int) ([]User, error) {
	return c.listUsers(ctx, "/admin/users", token, skip, limit)
}

// ListCandidates returns a page of candidate accounts (admin only)
func (c *Client) ListCandidates(ctx context.Context, token string, skip, limit int) ([]User, error) {
	return c.listUsers(ctx, "/admin/candidates", token, skip, limit)
}

// ListPendingCompanies returns companies awaiting approval (admin only)
func (c *Client) ListPendingCompanies(ctx context.Context, token string, skip, limit int) ([]User, error) {
	return c.listUsers(ctx, "/admin/companies/pending", token, skip, limit)
}

func (c *Client) listUsers(ctx context.Context, path, token string, skip, limit int) ([]User, error) {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))

	var users []User
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: query, token: token}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// VerifyCompany approves a company account (admin only)
func (c *Client) VerifyCompany(ctx context.Context, token, companyEmail string) error {
	query := url.Values{"company_email": {companyEmail}}
	return c.do(ctx, request{method: http.MethodPost, path: "/admin/companies/verify", query: query, token: token}, nil)
}

// AddRecruiter assigns a candidate as recruiter of the token's company
func (c *Client) AddRecruiter(ctx context.Context, token, recruiterEmail string) error {
	query := url.Values{"recruiter_email": {recruiterEmail}}
	return c.do(ctx, request{method: http.MethodPost, path: "/companies/add-recruiter", query: query, token: token}, nil)
}

// ListRecruiters returns the recruiters of the token's company
func (c *Client) ListRecruiters(ctx context.Context, token string) ([]Recruiter, error) {
	var resp struct {
		Recruiters []Recruiter `json:"recruiters"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/companies/my-recruiters", token: token}, &resp); err != nil {
		return nil, err
	}
	return resp.Recruiters, nil
}

// RemoveRecruiter unassigns a recruiter from the token's company
func (c *Client) RemoveRecruiter(ctx context.Context, token, recruiterEmail string) error {
	query := url.Values{"recruiter_email": {recruiterEmail}}
	return c.do(ctx, request{method: http.MethodDelete, path: "/companies/remove-recruiter", query: query, token: token}, nil)
}

// RecruitingFor returns the companies the token's owner recruits for
func (c *Client) RecruitingFor(ctx context.Context, token string) ([]RecruitingCompany, error) {
	var resp struct {
		Companies []RecruitingCompany `json:"companies"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/me/recruiting-for", token: token}, &resp); err != nil {
		return nil, err
	}
	return resp.Companies, nil
}

// ResignFromCompany stops recruiting for a company
func (c *Client) ResignFromCompany(ctx context.Context, token, companyID string) error {
	path := "/me/resign-from-company/" + url.PathEscape(companyID)
	return c.do(ctx, request{method: http.MethodDelete, path: path, token: token}, nil)
}
