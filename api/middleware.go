package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/example/fooddash/pkg/apperr"
	"github.com/example/fooddash/pkg/state"
	"github.com/gin-gonic/gin"
)

const (
	ctxApp   = "app"
	ctxToken = "token"
)

// sessionRequired resolves the bearer token to the session's aggregator.
func (s *Server) sessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		app, err := s.manager.Get(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(ctxApp, app)
		c.Set(ctxToken, token)
		c.Next()
	}
}

func (s *Server) app(c *gin.Context) *state.App {
	return c.MustGet(ctxApp).(*state.App)
}

// writeError maps the error taxonomy onto HTTP statuses; the aggregator
// propagates every failure, presentation is decided here.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindAuth:
		status = http.StatusUnauthorized
	case apperr.KindDomain:
		if errors.Is(err, apperr.ErrNotFound) {
			status = http.StatusNotFound
		} else {
			status = http.StatusConflict
		}
	case apperr.KindGateway:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
