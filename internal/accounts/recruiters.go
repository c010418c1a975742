package accounts

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/talentfit/talentfit/internal/models"
)

var (
	ErrNotCandidate       = errors.New("recruiters must be candidate accounts")
	ErrAlreadyAssigned    = errors.New("user is already a recruiter for this company")
	ErrRecruiterNotLinked = errors.New("recruiter relationship not found")
)

// AddRecruiter links the candidate with recruiterEmail to the company.
// A previously deactivated link is reactivated.
func (s *Service) AddRecruiter(ctx context.Context, companyID, recruiterEmail string) (*models.CompanyRecruiter, error) {
	recruiter, err := s.GetByEmail(ctx, recruiterEmail)
	if err != nil {
		return nil, err
	}
	if recruiter.Role != models.RoleCandidate {
		return nil, ErrNotCandidate
	}

	db := s.db.WithContext(ctx)

	var link models.CompanyRecruiter
	err = db.Where("company_id = ? AND recruiter_id = ?", companyID, recruiter.ID).First(&link).Error
	switch {
	case err == nil:
		if link.IsActive {
			return nil, ErrAlreadyAssigned
		}
		link.IsActive = true
		link.AssignedAt = s.now()
		if err := db.Save(&link).Error; err != nil {
			return nil, fmt.Errorf("failed to reactivate recruiter: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		link = models.CompanyRecruiter{
			CompanyID:   companyID,
			RecruiterID: recruiter.ID,
			AssignedAt:  s.now(),
			IsActive:    true,
		}
		if err := db.Create(&link).Error; err != nil {
			return nil, fmt.Errorf("failed to add recruiter: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up recruiter link: %w", err)
	}

	link.Recruiter = recruiter
	s.logger.Info().
		Str("company_id", companyID).
		Str("recruiter_id", recruiter.ID).
		Msg("Recruiter added")

	return &link, nil
}

// ListRecruiters returns the active recruiter links of a company with the recruiter loaded
func (s *Service) ListRecruiters(ctx context.Context, companyID string) ([]models.CompanyRecruiter, error) {
	var links []models.CompanyRecruiter
	err := s.db.WithContext(ctx).
		Preload("Recruiter").
		Where("company_id = ? AND is_active = ?", companyID, true).
		Order("assigned_at ASC, id ASC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recruiters: %w", err)
	}
	return links, nil
}

// RemoveRecruiter deletes the link between a company and a recruiter
func (s *Service) RemoveRecruiter(ctx context.Context, companyID, recruiterEmail string) error {
	recruiter, err := s.GetByEmail(ctx, recruiterEmail)
	if err != nil {
		return err
	}
	return s.unlink(ctx, companyID, recruiter.ID)
}

// RecruitingFor returns the active links of a recruiter with the company loaded
func (s *Service) RecruitingFor(ctx context.Context, recruiterID string) ([]models.CompanyRecruiter, error) {
	var links []models.CompanyRecruiter
	err := s.db.WithContext(ctx).
		Preload("Company").
		Where("recruiter_id = ? AND is_active = ?", recruiterID, true).
		Order("assigned_at ASC, id ASC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return links, nil
}

// Resign removes the recruiter from a company
func (s *Service) Resign(ctx context.Context, recruiterID, companyID string) error {
	return s.unlink(ctx, companyID, recruiterID)
}

func (s *Service) unlink(ctx context.Context, companyID, recruiterID string) error {
	result := s.db.WithContext(ctx).
		Where("company_id = ? AND recruiter_id = ?", companyID, recruiterID).
		Delete(&models.CompanyRecruiter{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove recruiter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecruiterNotLinked
	}

	s.logger.Info().
		Str("company_id", companyID).
		Str("recruiter_id", recruiterID).
		Msg("Recruiter removed")
	return nil
}
