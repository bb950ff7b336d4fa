package controllers

import (
	"net/http"
	"strings"

	dbpkg "banku/db"
	"banku/models"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "auth_user"

// AuthRequired validates the Bearer token and loads the user from DB into context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}
		token := strings.TrimSpace(h[len("Bearer "):])
		claims, ok := parseAndVerifyJWT(token, getJWTSecret())
		if !ok {
			RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if claims.Exp > 0 && timeNow().Unix() > claims.Exp {
			RespondError(c, "token expired", http.StatusUnauthorized)
			c.Abort()
			return
		}

		db := dbpkg.DBInstance(c)
		if db == nil {
			RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
			c.Abort()
			return
		}
		var user models.User
		if err := db.First(&user, claims.Sub).Error; err != nil {
			RespondError(c, "user not found", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if !user.Enabled {
			RespondError(c, "user disabled", http.StatusForbidden)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// GetUserLogged returns the user loaded by AuthRequired.
func GetUserLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
