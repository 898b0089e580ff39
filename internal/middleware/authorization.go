package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"stars_raffle_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type Authorization struct {
	adminToken string
}

func NewAuthorization(adminToken string) *Authorization {
	return &Authorization{
		adminToken: adminToken,
	}
}

// AdminOnly guards the admin API with a static bearer token from config.
func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		if a.adminToken == "" {
			log.Error("admin token is not configured")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin api disabled"})
			return
		}

		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			log.Info("unauthorized access attempt to admin endpoint",
				zap.String("remote_addr", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next()
	}
}
