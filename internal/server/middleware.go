package server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/talentfit/talentfit/internal/accounts"
	"github.com/talentfit/talentfit/internal/auth"
	"github.com/talentfit/talentfit/internal/models"
)

const (
	bearerPrefix      = "Bearer "
	internalKeyHeader = "X-Internal-Api-Key"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidToken      = errors.New("invalid token")
)

func setSession(c *gin.Context, sessionData *auth.SessionData, user *models.User) {
	c.Set("session", sessionData)
	c.Set("user", user)
}

// GetSessionData returns the session stored by JWTAuthMiddleware
func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

// currentUser returns the account loaded by JWTAuthMiddleware
func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	if statusCode == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(statusCode, gin.H{"detail": message})
}

// JWTAuthMiddleware validates the bearer token and loads the account it names
func JWTAuthMiddleware(tokens *auth.TokenIssuer, users *accounts.Service, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			respondWithError(c, log, http.StatusUnauthorized, err, "Not authenticated")
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			respondWithError(c, log, http.StatusUnauthorized, ErrInvalidToken, "Could not validate credentials")
			return
		}

		// Verify user still exists
		user, err := users.GetByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			respondWithError(c, log, http.StatusUnauthorized, err, "Could not validate credentials")
			return
		}

		setSession(c, &auth.SessionData{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		}, user)

		c.Next()
	}
}

// RequireRole ensures the authenticated user holds one of the given roles
func RequireRole(log zerolog.Logger, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, exists := GetSessionData(c)
		if !exists {
			respondWithError(c, log, http.StatusUnauthorized, errors.New("no session"), "Not authenticated")
			return
		}

		for _, role := range roles {
			if sessionData.Role == role {
				c.Next()
				return
			}
		}

		respondWithError(c, log, http.StatusForbidden, errors.New("role not allowed"), "Insufficient permissions")
	}
}

// InternalAPIKeyMiddleware guards service-to-service routes. An empty key rejects every request.
func InternalAPIKeyMiddleware(key string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(internalKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			respondWithError(c, log, http.StatusForbidden, errors.New("bad internal key"), "Invalid or missing internal API key")
			return
		}
		c.Next()
	}
}
