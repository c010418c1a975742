package server

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentfit/talentfit/internal/accounts"
	"github.com/talentfit/talentfit/internal/models"
)

// CandidateForm is the multipart body of POST /register-candidato
type CandidateForm struct {
	Email           string    `form:"email" validate:"required,email"`
	Password        string    `form:"password" validate:"required,password"`
	Nombre          string    `form:"nombre" validate:"required"`
	Apellido        string    `form:"apellido" validate:"required"`
	Genero          string    `form:"genero" validate:"required,gender"`
	FechaNacimiento time.Time `form:"fecha_nacimiento" time_format:"2006-01-02" time_utc:"1" validate:"required,adult"`
}

// CompanyForm is the multipart body of POST /register-empresa
type CompanyForm struct {
	Email       string `form:"email" validate:"required,email"`
	Password    string `form:"password" validate:"required,password"`
	Nombre      string `form:"nombre" validate:"required"`
	Descripcion string `form:"descripcion" validate:"required"`
}

// CandidateUpdateForm is the multipart body of PUT /me/candidato
type CandidateUpdateForm struct {
	Nombre          *string    `form:"nombre"`
	Apellido        *string    `form:"apellido"`
	Genero          *string    `form:"genero" validate:"omitempty,gender"`
	FechaNacimiento *time.Time `form:"fecha_nacimiento" time_format:"2006-01-02" time_utc:"1" validate:"omitempty,adult"`
}

// CompanyUpdateForm is the multipart body of PUT /me/empresa
type CompanyUpdateForm struct {
	Nombre      *string `form:"nombre"`
	Descripcion *string `form:"descripcion"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// bindForm binds a multipart or urlencoded body and runs the struct validators
func (s *Server) bindForm(c *gin.Context, form interface{}) bool {
	if err := c.ShouldBind(form); err != nil {
		unprocessable(c, err.Error())
		return false
	}
	if err := s.validator.Struct(form); err != nil {
		unprocessable(c, validationMessage(err))
		return false
	}
	return true
}

func optionalFile(c *gin.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}

func attachments(c *gin.Context) accounts.Attachments {
	return accounts.Attachments{
		ProfilePicture: optionalFile(c, "profile_picture"),
		CV:             optionalFile(c, "cv_file"),
	}
}

// @Summary Register candidate
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /register-candidato [post]
func (s *Server) registerCandidate(c *gin.Context) {
	var form CandidateForm
	if !s.bindForm(c, &form) {
		return
	}

	user, err := s.accounts.RegisterCandidate(c.Request.Context(), accounts.CandidateInput{
		Email:       form.Email,
		Password:    form.Password,
		Name:        form.Nombre,
		LastName:    form.Apellido,
		Gender:      models.Gender(form.Genero),
		DateOfBirth: form.FechaNacimiento,
	}, attachments(c))
	if err != nil {
		s.writeError(c, err, "Failed to register candidate")
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Register company
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /register-empresa [post]
func (s *Server) registerCompany(c *gin.Context) {
	var form CompanyForm
	if !s.bindForm(c, &form) {
		return
	}

	user, err := s.accounts.RegisterCompany(c.Request.Context(), accounts.CompanyInput{
		Email:       form.Email,
		Password:    form.Password,
		Name:        form.Nombre,
		Description: form.Descripcion,
	}, attachments(c))
	if err != nil {
		s.writeError(c, err, "Failed to register company")
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} map[string]interface{}
// @Router /login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, err.Error())
		return
	}

	user, err := s.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
		}
		s.writeError(c, err, "Failed to authenticate")
		return
	}

	token, err := s.tokens.GenerateToken(user.Email, user.Role)
	if err != nil {
		s.writeError(c, err, "Failed to generate token")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User logged in")

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]interface{}
// @Router /me [get]
func (s *Server) getCurrentUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Update candidate profile
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /me/candidato [put]
func (s *Server) updateCandidateProfile(c *gin.Context) {
	var form CandidateUpdateForm
	if !s.bindForm(c, &form) {
		return
	}

	update := accounts.ProfileUpdate{
		Name:        form.Nombre,
		LastName:    form.Apellido,
		DateOfBirth: form.FechaNacimiento,
	}
	if form.Genero != nil {
		gender := models.Gender(*form.Genero)
		update.Gender = &gender
	}

	s.updateProfile(c, models.RoleCandidate, update)
}

// @Summary Update company profile
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /me/empresa [put]
func (s *Server) updateCompanyProfile(c *gin.Context) {
	var form CompanyUpdateForm
	if !s.bindForm(c, &form) {
		return
	}

	s.updateProfile(c, models.RoleCompany, accounts.ProfileUpdate{
		Name:        form.Nombre,
		Description: form.Descripcion,
	})
}

func (s *Server) updateProfile(c *gin.Context, role models.Role, update accounts.ProfileUpdate) {
	session, _ := GetSessionData(c)

	files := accounts.Attachments{ProfilePicture: optionalFile(c, "profile_picture")}
	if role == models.RoleCandidate {
		files.CV = optionalFile(c, "cv_file")
	}

	user, err := s.accounts.UpdateProfile(c.Request.Context(), session.UserID, role, update, files)
	if err != nil {
		s.writeError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}
