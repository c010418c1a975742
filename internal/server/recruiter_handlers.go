package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RecruiterEntry is one row of GET /companies/my-recruiters
type RecruiterEntry struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Nombre     string    `json:"nombre"`
	Apellido   *string   `json:"apellido"`
	AssignedAt time.Time `json:"assigned_at"`
}

// CompanyEntry is one row of GET /me/recruiting-for
type CompanyEntry struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Nombre      string    `json:"nombre"`
	Descripcion *string   `json:"descripcion"`
	AssignedAt  time.Time `json:"assigned_at"`
}

func (s *Server) addRecruiter(c *gin.Context) {
	email := c.Query("recruiter_email")
	if email == "" {
		unprocessable(c, "recruiter_email is required")
		return
	}

	session, _ := GetSessionData(c)
	if _, err := s.accounts.AddRecruiter(c.Request.Context(), session.UserID, email); err != nil {
		s.writeError(c, err, "Failed to add recruiter")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recruiter " + email + " assigned"})
}

func (s *Server) listRecruiters(c *gin.Context) {
	session, _ := GetSessionData(c)

	links, err := s.accounts.ListRecruiters(c.Request.Context(), session.UserID)
	if err != nil {
		s.writeError(c, err, "Failed to list recruiters")
		return
	}

	recruiters := make([]RecruiterEntry, 0, len(links))
	for _, link := range links {
		if link.Recruiter == nil {
			continue
		}
		recruiters = append(recruiters, RecruiterEntry{
			ID:         link.Recruiter.ID,
			Email:      link.Recruiter.Email,
			Nombre:     link.Recruiter.Name,
			Apellido:   link.Recruiter.LastName,
			AssignedAt: link.AssignedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"recruiters": recruiters})
}

func (s *Server) removeRecruiter(c *gin.Context) {
	email := c.Query("recruiter_email")
	if email == "" {
		unprocessable(c, "recruiter_email is required")
		return
	}

	session, _ := GetSessionData(c)
	if err := s.accounts.RemoveRecruiter(c.Request.Context(), session.UserID, email); err != nil {
		s.writeError(c, err, "Failed to remove recruiter")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recruiter removed"})
}

func (s *Server) recruitingFor(c *gin.Context) {
	session, _ := GetSessionData(c)

	links, err := s.accounts.RecruitingFor(c.Request.Context(), session.UserID)
	if err != nil {
		s.writeError(c, err, "Failed to list companies")
		return
	}

	companies := make([]CompanyEntry, 0, len(links))
	for _, link := range links {
		if link.Company == nil {
			continue
		}
		companies = append(companies, CompanyEntry{
			ID:          link.Company.ID,
			Email:       link.Company.Email,
			Nombre:      link.Company.Name,
			Descripcion: link.Company.Description,
			AssignedAt:  link.AssignedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (s *Server) resignFromCompany(c *gin.Context) {
	session, _ := GetSessionData(c)

	if err := s.accounts.Resign(c.Request.Context(), session.UserID, c.Param("company_id")); err != nil {
		s.writeError(c, err, "Failed to resign")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "You are no longer a recruiter for this company"})
}
