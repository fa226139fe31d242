package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JoaoPedroVicentin/daily-diet-api/internal/service"
)

const (
	callerIDKey       = "caller_id"
	sessionCookieName = "sessionId"
)

// SessionAuthMiddleware resuelve la cookie de sesión a un id de usuario y lo
// guarda en el contexto. Sin sesión resolvible, el request termina en 401
// antes de llegar a cualquier handler de comidas.
func SessionAuthMiddleware(sessions service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session store not configured"})
			c.Abort()
			return
		}

		token, err := c.Cookie(sessionCookieName)
		if err != nil || strings.TrimSpace(token) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			c.Abort()
			return
		}

		userID, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve session"})
			}
			c.Abort()
			return
		}

		c.Set(callerIDKey, userID)
		c.Next()
	}
}

// GetCallerID obtiene el id del usuario autenticado desde el contexto.
func GetCallerID(c *gin.Context) (string, bool) {
	val, ok := c.Get(callerIDKey)
	if !ok {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok
}
