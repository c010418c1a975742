package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentfit/talentfit/internal/auth"
	"github.com/talentfit/talentfit/internal/models"
	"github.com/talentfit/talentfit/internal/ratelimit"
)

var (
	ErrCodeNotFound      = errors.New("no pending verification for this email")
	ErrInvalidCode       = errors.New("invalid verification code")
	ErrCodeExpired       = errors.New("verification code expired")
	ErrTooManyAttempts   = errors.New("too many verification attempts")
	ErrAlreadyVerified   = errors.New("email already verified")
	ErrResendRateLimited = errors.New("too many verification requests, try again later")
)

// IssueVerificationCode generates a fresh code for the user's e-mail, replacing
// any pending one, and hands it to the mailer.
func (s *Service) IssueVerificationCode(ctx context.Context, email string) error {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerifiedAt != nil {
		return ErrAlreadyVerified
	}
	return s.issueCode(ctx, user.Email)
}

func (s *Service) issueCode(ctx context.Context, email string) error {
	code, err := auth.GenerateVerificationCode()
	if err != nil {
		return err
	}

	record := models.VerificationCode{
		Email:     email,
		CodeHash:  auth.HashVerificationCode(code),
		ExpiresAt: s.now().Add(s.opts.VerificationCodeTTL),
		Attempts:  0,
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "attempts"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := s.mailer.SendVerificationCode(ctx, email, code); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}

	s.logger.Info().Str("email", email).Time("expires_at", record.ExpiresAt).Msg("Verification code issued")
	return nil
}

// VerifyEmail checks a code without consuming it. Each failed check counts
// towards the attempt limit.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) error {
	_, err := s.checkCode(ctx, NormalizeEmail(email), code)
	return err
}

// CompleteRegistration consumes a valid code, marks the address as proven and
// activates the account.
func (s *Service) CompleteRegistration(ctx context.Context, email, code string) (*models.User, error) {
	email = NormalizeEmail(email)

	record, err := s.checkCode(ctx, email, code)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		now := s.now()
		user.EmailVerifiedAt = &now
		user.Verified = true
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		return tx.Delete(record).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", email).Msg("Registration completed")
	return &user, nil
}

// ResendVerification issues a new code, subject to the resend limiter
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	if s.limiter != nil {
		err := s.limiter.Allow(ctx, email)
		switch {
		case errors.Is(err, ratelimit.ErrRateLimited):
			s.logger.Warn().Str("email", email).Msg("Verification resend refused")
			return ErrResendRateLimited
		case err != nil:
			// Redis outage must not block account activation
			s.logger.Error().Err(err).Msg("Resend limiter unavailable, allowing request")
		}
	}

	return s.IssueVerificationCode(ctx, email)
}

// CleanupExpiredCodes deletes verification codes that expired before now
func (s *Service) CleanupExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.VerificationCode{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired codes: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.logger.Info().Int64("deleted", result.RowsAffected).Msg("Expired verification codes removed")
	}
	return result.RowsAffected, nil
}

func (s *Service) checkCode(ctx context.Context, email, code string) (*models.VerificationCode, error) {
	var record models.VerificationCode
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to load verification code: %w", err)
	}

	if record.Expired(s.now()) {
		return nil, ErrCodeExpired
	}
	if record.Attempts >= s.opts.MaxCodeAttempts {
		return nil, ErrTooManyAttempts
	}

	if !auth.MatchVerificationCode(code, record.CodeHash) {
		if err := s.db.WithContext(ctx).Model(&models.VerificationCode{}).
			Where("id = ?", record.ID).
			UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error; err != nil {
			s.logger.Error().Err(err).Str("email", email).Msg("Failed to record verification attempt")
		}
		return nil, ErrInvalidCode
	}

	return &record, nil
}
