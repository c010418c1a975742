package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentfit/talentfit/internal/accounts"
	"github.com/talentfit/talentfit/internal/models"
)

// PageQuery holds skip/limit pagination parameters
type PageQuery struct {
	Skip  int `form:"skip" validate:"min=0"`
	Limit int `form:"limit" validate:"min=0,max=1000"`
}

func (s *Server) bindPage(c *gin.Context) (PageQuery, bool) {
	page := PageQuery{Limit: accounts.DefaultPageLimit}
	if err := c.ShouldBindQuery(&page); err != nil {
		unprocessable(c, err.Error())
		return page, false
	}
	if err := s.validator.Struct(page); err != nil {
		unprocessable(c, validationMessage(err))
		return page, false
	}
	return page, true
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} models.User
// @Router /admin/users [get]
func (s *Server) listUsers(c *gin.Context) {
	s.listPage(c, s.accounts.ListUsers)
}

// @Summary List candidates
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Router /admin/candidates [get]
func (s *Server) listCandidates(c *gin.Context) {
	s.listPage(c, s.accounts.ListCandidates)
}

// @Summary List companies pending approval
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Router /admin/companies/pending [get]
func (s *Server) listPendingCompanies(c *gin.Context) {
	s.listPage(c, s.accounts.ListPendingCompanies)
}

func (s *Server) listPage(c *gin.Context, list func(ctx context.Context, skip, limit int) ([]models.User, error)) {
	page, ok := s.bindPage(c)
	if !ok {
		return
	}

	users, err := list(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		s.writeError(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, users)
}

// @Summary Approve company
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param company_email query string true "Company e-mail"
// @Success 200 {object} map[string]interface{}
// @Router /admin/companies/verify [post]
func (s *Server) verifyCompany(c *gin.Context) {
	email := c.Query("company_email")
	if email == "" {
		unprocessable(c, "company_email is required")
		return
	}

	company, err := s.accounts.ApproveCompany(c.Request.Context(), email)
	if err != nil {
		s.writeError(c, err, "Failed to approve company")
		return
	}

	session, _ := GetSessionData(c)
	s.logger.Info().
		Str("company_id", company.ID).
		Str("approved_by", session.UserID).
		Msg("Company verified by admin")

	c.JSON(http.StatusOK, gin.H{
		"message": "Company " + company.Email + " verified",
		"company": company,
	})
}
