package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/surveyhub/config"
	"github.com/avolkov/surveyhub/models"
	"github.com/avolkov/surveyhub/utils"
)

const CtxUser = "user"

// AuthJWT checks Authorization: Bearer <token>, validates the JWT, loads the
// user and injects it into the context.
func AuthJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromHeader(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}

		c.Set(CtxUser, user)
		c.Next()
	}
}

// OptionalAuth injects the user when a valid bearer token is present and
// treats everything else as anonymous. It never rejects a request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := userFromHeader(c); ok {
			c.Set(CtxUser, user)
		}
		c.Next()
	}
}

func userFromHeader(c *gin.Context) (models.User, bool) {
	var user models.User

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return user, false
	}
	rawToken := strings.TrimSpace(authHeader[7:])

	claims, err := utils.VerifyToken(rawToken)
	if err != nil {
		return user, false
	}

	// UserID in the claims is a string; parse it to look up the primary key.
	uid, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return user, false
	}

	if err := config.DB.First(&user, uid).Error; err != nil {
		return user, false
	}
	return user, true
}
