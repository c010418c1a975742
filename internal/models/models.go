package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Role is the account category. It is the only input to authorization decisions.
type Role string

const (
	RoleCandidate Role = "candidato"
	RoleCompany   Role = "empresa"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role
var Roles = []Role{RoleCandidate, RoleCompany, RoleAdmin}

// ParseRole converts a wire value into a Role, rejecting anything outside the closed set
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid role '%s', must be one of: candidato, empresa, admin", s)
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Gender of a candidate
type Gender string

const (
	GenderMale   Gender = "masculino"
	GenderFemale Gender = "femenino"
	GenderOther  Gender = "otro"
)

// ParseGender converts a wire value into a Gender
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale, GenderOther:
		return Gender(s), nil
	}
	return "", fmt.Errorf("invalid gender '%s', must be one of: masculino, femenino, otro", s)
}

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User is a job board account. Role-specific columns are nullable.
type User struct {
	BaseModel
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"not null"`
	Role           Role      `json:"role" gorm:"type:varchar(16);not null;index"`
	Verified       bool      `json:"verified" gorm:"not null;default:false"`
	Name           string    `json:"nombre" gorm:"not null"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Set once the owner proved control of the address with a verification code
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`

	// Candidate fields
	LastName    *string    `json:"apellido,omitempty"`
	Gender      *Gender    `json:"genero,omitempty" gorm:"type:varchar(16)"`
	DateOfBirth *time.Time `json:"fecha_nacimiento,omitempty"`
	CVFilename  *string    `json:"cv_filename,omitempty"`

	// Company fields
	Description *string `json:"descripcion,omitempty" gorm:"type:text"`
}

// DateLayout is the wire format of calendar dates such as fecha_nacimiento
const DateLayout = "2006-01-02"

// userJSON drops User's JSON methods so they can reuse the default encoding
type userJSON User

// MarshalJSON writes fecha_nacimiento as a plain date
func (u User) MarshalJSON() ([]byte, error) {
	var dob *string
	if u.DateOfBirth != nil {
		formatted := u.DateOfBirth.Format(DateLayout)
		dob = &formatted
	}
	return json.Marshal(struct {
		userJSON
		DateOfBirth *string `json:"fecha_nacimiento,omitempty"`
	}{userJSON(u), dob})
}

// UnmarshalJSON reads fecha_nacimiento as a plain date
func (u *User) UnmarshalJSON(data []byte) error {
	aux := struct {
		*userJSON
		DateOfBirth *string `json:"fecha_nacimiento,omitempty"`
	}{userJSON: (*userJSON)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	u.DateOfBirth = nil
	if aux.DateOfBirth != nil {
		dob, err := time.Parse(DateLayout, *aux.DateOfBirth)
		if err != nil {
			return fmt.Errorf("invalid fecha_nacimiento: %w", err)
		}
		u.DateOfBirth = &dob
	}
	return nil
}

// CompanyRecruiter links a company account to a candidate acting as its recruiter
type CompanyRecruiter struct {
	BaseModel
	CompanyID   string    `json:"company_id" gorm:"not null;uniqueIndex:idx_company_recruiter"`
	RecruiterID string    `json:"recruiter_id" gorm:"not null;uniqueIndex:idx_company_recruiter"`
	AssignedAt  time.Time `json:"assigned_at" gorm:"not null"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`

	Company   *User `json:"company,omitempty" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Recruiter *User `json:"recruiter,omitempty" gorm:"foreignKey:RecruiterID;constraint:OnDelete:CASCADE"`
}

// VerificationCode is a pending e-mail verification. Only the code hash is stored.
type VerificationCode struct {
	BaseModel
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CodeHash  string    `json:"-" gorm:"type:varchar(64);not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	Attempts  int       `json:"attempts" gorm:"not null;default:0"`
}

// Expired reports whether the code is past its expiry at the given time
func (v *VerificationCode) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&User{}, &CompanyRecruiter{}, &VerificationCode{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}
