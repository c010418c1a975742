package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/talentfit/talentfit/internal/models"
)

// ID is a record identifier. Backends send it as a string or a number.
type ID string

// UnmarshalJSON accepts "abc", 42 and null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = ID(n.String())
	return nil
}

// timeLayouts are tried in order when decoding a Time
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
}

// Time decodes RFC3339 timestamps, timestamps without a zone and plain dates
type Time struct {
	time.Time
}

// UnmarshalJSON parses any of timeLayouts. Zone-less values are taken as UTC.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid time %s", data)
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid time %q", s)
}

// User is the account record returned by the API
type User struct {
	ID             ID             `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"nombre"`
	Role           models.Role    `json:"role"`
	Verified       bool           `json:"verified"`
	ProfilePicture *string        `json:"profile_picture,omitempty"`
	LastName       *string        `json:"apellido,omitempty"`
	Gender         *models.Gender `json:"genero,omitempty"`
	DateOfBirth    *Time          `json:"fecha_nacimiento,omitempty"`
	CVFilename     *string        `json:"cv_filename,omitempty"`
	Description    *string        `json:"descripcion,omitempty"`
	CreatedAt      *Time          `json:"created_at,omitempty"`
}

// DisplayName joins the name and, for candidates, the last name
func (u *User) DisplayName() string {
	if u.LastName != nil && *u.LastName != "" {
		return u.Name + " " + *u.LastName
	}
	return u.Name
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session credentials
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
}

// CandidateRequest holds candidate registration fields
type CandidateRequest struct {
	Email       string
	Password    string
	Name        string
	LastName    string
	Gender      models.Gender
	DateOfBirth time.Time
}

// CompanyRequest holds company registration fields
type CompanyRequest struct {
	Email       string
	Password    string
	Name        string
	Description string
}

// CandidateUpdate holds optional candidate profile changes
type CandidateUpdate struct {
	Name        *string
	LastName    *string
	Gender      *models.Gender
	DateOfBirth *time.Time
}

// CompanyUpdate holds optional company profile changes
type CompanyUpdate struct {
	Name        *string
	Description *string
}

// Recruiter is one entry of a company's recruiter list
type Recruiter struct {
	ID         ID      `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"nombre"`
	LastName   *string `json:"apellido"`
	AssignedAt Time    `json:"assigned_at"`
}

// RecruitingCompany is a company a candidate recruits for
type RecruitingCompany struct {
	ID          ID      `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
	AssignedAt  Time    `json:"assigned_at"`
}
