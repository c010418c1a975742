package accounts

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/talentfit/talentfit/internal/auth"
	"github.com/talentfit/talentfit/internal/models"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongRole          = errors.New("operation not allowed for this role")
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 100
)

// FileStore persists uploaded files and returns their stored names
type FileStore interface {
	SaveProfilePicture(fh *multipart.FileHeader, email string) (string, error)
	SaveCV(fh *multipart.FileHeader, email string) (string, error)
}

// Mailer delivers verification codes
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// Limiter throttles verification code resends per e-mail
type Limiter interface {
	Allow(ctx context.Context, identifier string) error
}

// Options configures account policy
type Options struct {
	RequireEmailVerification bool
	VerificationCodeTTL      time.Duration
	MaxCodeAttempts          int
}

// Service handles account registration, profiles, verification and recruiter links
type Service struct {
	db      *gorm.DB
	files   FileStore
	mailer  Mailer
	limiter Limiter
	opts    Options
	logger  zerolog.Logger
	now     func() time.Time
}

// NewService creates a new accounts service. limiter may be nil.
func NewService(db *gorm.DB, files FileStore, mailer Mailer, limiter Limiter, opts Options, logger zerolog.Logger) *Service {
	if opts.VerificationCodeTTL <= 0 {
		opts.VerificationCodeTTL = 15 * time.Minute
	}
	if opts.MaxCodeAttempts <= 0 {
		opts.MaxCodeAttempts = 5
	}
	return &Service{
		db:      db,
		files:   files,
		mailer:  mailer,
		limiter: limiter,
		opts:    opts,
		logger:  logger.With().Str("component", "accounts_service").Logger(),
		now:     time.Now,
	}
}

// NormalizeEmail lower-cases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate checks credentials and returns the matching user
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetByEmail finds a user by e-mail
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// GetByID finds a user by ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := models.FindByID(s.db.WithContext(ctx), id, &user); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// EnsureAdmin creates an admin account for email if none exists yet
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) (*models.User, error) {
	existing, err := s.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return nil, fmt.Errorf("%s exists with role %s", existing.Email, existing.Role)
		}
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		Email:           NormalizeEmail(email),
		PasswordHash:    hash,
		Role:            models.RoleAdmin,
		Verified:        true,
		Name:            name,
		EmailVerifiedAt: &now,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("Admin account created")
	return user, nil
}

func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return skip, limit
}
