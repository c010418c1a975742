package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/talentfit/talentfit/internal/models"
)

var ErrNotCompany = errors.New("user is not a company")

// ListUsers returns a page of all accounts, oldest first
func (s *Service) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	return s.list(ctx, skip, limit, "1 = 1")
}

// ListCandidates returns a page of candidate accounts
func (s *Service) ListCandidates(ctx context.Context, skip, limit int) ([]models.User, error) {
	return s.list(ctx, skip, limit, "role = ?", models.RoleCandidate)
}

// ListPendingCompanies returns companies awaiting approval
func (s *Service) ListPendingCompanies(ctx context.Context, skip, limit int) ([]models.User, error) {
	return s.list(ctx, skip, limit, "role = ? AND verified = ?", models.RoleCompany, false)
}

// ApproveCompany marks a company account as verified
func (s *Service) ApproveCompany(ctx context.Context, companyEmail string) (*models.User, error) {
	company, err := s.GetByEmail(ctx, companyEmail)
	if err != nil {
		return nil, err
	}
	if company.Role != models.RoleCompany {
		return nil, ErrNotCompany
	}
	if company.Verified {
		return company, nil
	}

	company.Verified = true
	if err := s.db.WithContext(ctx).Model(company).Update("verified", true).Error; err != nil {
		return nil, fmt.Errorf("failed to approve company: %w", err)
	}

	s.logger.Info().Str("company_id", company.ID).Str("email", company.Email).Msg("Company approved")
	return company, nil
}

func (s *Service) list(ctx context.Context, skip, limit int, query string, args ...interface{}) ([]models.User, error) {
	skip, limit = clampPage(skip, limit)

	var users []models.User
	err := s.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at ASC, id ASC").
		Offset(skip).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
