package accounts

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/talentfit/talentfit/internal/auth"
	"github.com/talentfit/talentfit/internal/models"
)

// CandidateInput holds the fields of a candidate registration
type CandidateInput struct {
	Email       string
	Password    string
	Name        string
	LastName    string
	Gender      models.Gender
	DateOfBirth time.Time
}

// CompanyInput holds the fields of a company registration
type CompanyInput struct {
	Email       string
	Password    string
	Name        string
	Description string
}

// Attachments are optional uploaded files
type Attachments struct {
	ProfilePicture *multipart.FileHeader
	CV             *multipart.FileHeader
}

// ProfileUpdate holds optional profile fields; nil leaves a field unchanged
type ProfileUpdate struct {
	Name        *string
	LastName    *string
	Gender      *models.Gender
	DateOfBirth *time.Time
	Description *string
}

// RegisterCandidate creates a candidate account. The account is verified
// immediately unless e-mail verification is required, in which case a code is sent.
func (s *Service) RegisterCandidate(ctx context.Context, in CandidateInput, files Attachments) (*models.User, error) {
	lastName := in.LastName
	gender := in.Gender
	dob := in.DateOfBirth

	user := &models.User{
		Role:        models.RoleCandidate,
		Verified:    !s.opts.RequireEmailVerification,
		Name:        in.Name,
		LastName:    &lastName,
		Gender:      &gender,
		DateOfBirth: &dob,
	}

	return s.register(ctx, user, in.Email, in.Password, files)
}

// RegisterCompany creates a company account. Companies stay unverified until an admin approves them.
func (s *Service) RegisterCompany(ctx context.Context, in CompanyInput, files Attachments) (*models.User, error) {
	description := in.Description

	user := &models.User{
		Role:        models.RoleCompany,
		Verified:    false,
		Name:        in.Name,
		Description: &description,
	}

	// companies do not upload a CV
	files.CV = nil
	return s.register(ctx, user, in.Email, in.Password, files)
}

func (s *Service) register(ctx context.Context, user *models.User, email, password string, files Attachments) (*models.User, error) {
	user.Email = NormalizeEmail(email)

	if _, err := s.GetByEmail(ctx, user.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.storeAttachments(user, files); err != nil {
		return nil, err
	}

	if !s.opts.RequireEmailVerification {
		now := s.now()
		user.EmailVerifiedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Str("role", string(user.Role)).
		Msg("User registered")

	if s.opts.RequireEmailVerification {
		if err := s.issueCode(ctx, user.Email); err != nil {
			// the account exists; the user can ask for a new code
			s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to issue verification code")
		}
	}

	return user, nil
}

// UpdateProfile applies non-nil fields to the user. Candidate-only fields are
// rejected for companies and vice versa.
func (s *Service) UpdateProfile(ctx context.Context, userID string, role models.Role, upd ProfileUpdate, files Attachments) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, ErrWrongRole
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}

	switch role {
	case models.RoleCandidate:
		if upd.Description != nil {
			return nil, ErrWrongRole
		}
		if upd.LastName != nil {
			user.LastName = upd.LastName
		}
		if upd.Gender != nil {
			user.Gender = upd.Gender
		}
		if upd.DateOfBirth != nil {
			user.DateOfBirth = upd.DateOfBirth
		}
	case models.RoleCompany:
		if upd.LastName != nil || upd.Gender != nil || upd.DateOfBirth != nil {
			return nil, ErrWrongRole
		}
		if upd.Description != nil {
			user.Description = upd.Description
		}
		files.CV = nil
	default:
		return nil, ErrWrongRole
	}

	if err := s.storeAttachments(user, files); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Profile updated")
	return user, nil
}

func (s *Service) storeAttachments(user *models.User, files Attachments) error {
	if files.ProfilePicture != nil && files.ProfilePicture.Size > 0 {
		name, err := s.files.SaveProfilePicture(files.ProfilePicture, user.Email)
		if err != nil {
			return fmt.Errorf("failed to save profile picture: %w", err)
		}
		user.ProfilePicture = &name
	}

	if files.CV != nil && files.CV.Size > 0 {
		name, err := s.files.SaveCV(files.CV, user.Email)
		if err != nil {
			return fmt.Errorf("failed to save CV: %w", err)
		}
		user.CVFilename = &name
	}

	return nil
}
