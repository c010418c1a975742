package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentfit/talentfit/internal/accounts"
	"github.com/talentfit/talentfit/internal/uploads"
)

// statusFor maps service errors to HTTP status codes and client-facing messages
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, accounts.ErrEmailTaken):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect email or password"
	case errors.Is(err, accounts.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, accounts.ErrWrongRole):
		return http.StatusForbidden, "Operation not allowed for this account type"
	case errors.Is(err, accounts.ErrNotCompany):
		return http.StatusBadRequest, "User is not a company"
	case errors.Is(err, accounts.ErrNotCandidate):
		return http.StatusBadRequest, "Only candidates can be recruiters"
	case errors.Is(err, accounts.ErrAlreadyAssigned):
		return http.StatusBadRequest, "This recruiter is already assigned to your company"
	case errors.Is(err, accounts.ErrRecruiterNotLinked):
		return http.StatusNotFound, "Recruiter relationship not found"
	case errors.Is(err, accounts.ErrCodeNotFound):
		return http.StatusNotFound, "No pending verification for this email"
	case errors.Is(err, accounts.ErrInvalidCode):
		return http.StatusBadRequest, "Invalid verification code"
	case errors.Is(err, accounts.ErrCodeExpired):
		return http.StatusGone, "Verification code expired, request a new one"
	case errors.Is(err, accounts.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "Too many attempts, request a new code"
	case errors.Is(err, accounts.ErrAlreadyVerified):
		return http.StatusBadRequest, "Email already verified"
	case errors.Is(err, accounts.ErrResendRateLimited):
		return http.StatusTooManyRequests, "Too many verification requests, try again later"
	case errors.Is(err, uploads.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "File exceeds the 10MB limit"
	case errors.Is(err, uploads.ErrFileType):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, uploads.ErrInvalidPath):
		return http.StatusBadRequest, "Invalid file name"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeError responds with {"detail": ...}; unexpected errors are logged
func (s *Server) writeError(c *gin.Context, err error, action string) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg(action)
	}
	c.JSON(status, gin.H{"detail": message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": message})
}

func unprocessable(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": message})
}
