package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CompleteRegistrationForm is the body of POST /complete-registration
type CompleteRegistrationForm struct {
	Email            string `form:"email" validate:"required,email"`
	VerificationCode string `form:"verification_code" validate:"required,len=6,numeric"`
}

// VerifyEmailForm is the body of POST /verify-email
type VerifyEmailForm struct {
	Email string `form:"email" validate:"required,email"`
	Code  string `form:"code" validate:"required,len=6,numeric"`
}

// ResendVerificationForm is the body of POST /resend-verification
type ResendVerificationForm struct {
	Email string `form:"email" validate:"required,email"`
}

// @Summary Complete registration
// @Description Consumes a verification code and activates the account
// @Tags verification
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /complete-registration [post]
func (s *Server) completeRegistration(c *gin.Context) {
	var form CompleteRegistrationForm
	if !s.bindForm(c, &form) {
		return
	}

	user, err := s.accounts.CompleteRegistration(c.Request.Context(), form.Email, form.VerificationCode)
	if err != nil {
		s.writeError(c, err, "Failed to complete registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registration completed",
		"user":    user,
	})
}

// @Summary Verify email code
// @Description Checks a verification code without consuming it
// @Tags verification
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /verify-email [post]
func (s *Server) verifyEmail(c *gin.Context) {
	var form VerifyEmailForm
	if !s.bindForm(c, &form) {
		return
	}

	if err := s.accounts.VerifyEmail(c.Request.Context(), form.Email, form.Code); err != nil {
		s.writeError(c, err, "Failed to verify email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code is valid", "valid": true})
}

// @Summary Resend verification code
// @Tags verification
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /resend-verification [post]
func (s *Server) resendVerification(c *gin.Context) {
	var form ResendVerificationForm
	if !s.bindForm(c, &form) {
		return
	}

	if err := s.accounts.ResendVerification(c.Request.Context(), form.Email); err != nil {
		s.writeError(c, err, "Failed to resend verification code")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}
