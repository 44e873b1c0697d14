package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Karma_Forum/internal/pkg"
	"Karma_Forum/internal/repository/redis"
)

const ContextUserIDKey = "user_id"

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": "invalid authorization format"})
			c.Abort()
			return
		}

		tokenStr := parts[1]
		userRep := &redis.UserRepository{}

		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": "invalid or expired token"})
			c.Abort()
			return
		}

		// redis校验是否是当前有效的token（单点登录）
		originToken, err := userRep.GetUserToken(claims.UserID)
		if err != nil || originToken != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": "account has logged in elsewhere"})
			c.Abort()
			return
		}

		// 校验通过后续期
		if err := userRep.ExtendUserToken(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal server error"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}
