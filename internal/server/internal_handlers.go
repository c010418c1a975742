package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getUserInternal serves other backends (jobs, matching) that resolve user IDs
func (s *Server) getUserInternal(c *gin.Context) {
	user, err := s.accounts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, user)
}
