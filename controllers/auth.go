package controllers

import (
	"net/http"
	"time"

	dbpkg "banku/db"
	"banku/models"
	"banku/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type LoginRequest struct {
	Username string `json:"username" form:"username"` // country_commercial_id
	Password string `json:"password" form:"password"`
}

// JWTToken é o par access/refresh devolvido por Login e Refresh.
// Expiries em unix millis.
type JWTToken struct {
	AccessToken         string `json:"access_token"`
	AccessTokenExpires  int64  `json:"access_token_expires"`
	RefreshToken        string `json:"refresh_token"`
	RefreshTokenExpires int64  `json:"refresh_token_expires"`
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		RespondError(c, "username e password são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.Where("country_commercial_id = ?", req.Username).First(&user).Error; err != nil {
		RespondError(c, "bad username or password", http.StatusUnauthorized)
		return
	}
	if !tools.CheckPasswordHash(req.Password, user.Password) {
		RespondError(c, "bad username or password", http.StatusUnauthorized)
		return
	}
	if !user.Enabled {
		RespondError(c, "user disabled", http.StatusForbidden)
		return
	}

	token, err := createTokenPair(db, user.ID, timeNow())
	if err != nil {
		RespondError(c, "erro ao assinar token", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, token)
}

// createTokenPair assina o access token e persiste um refresh token novo.
func createTokenPair(db *gorm.DB, userID int64, now time.Time) (JWTToken, error) {
	accessExp := now.Add(time.Duration(conf.Security.AccessTokenTTLMin) * time.Minute)

	accessToken, err := signHS256JWT(getJWTSecret(), map[string]any{
		"sub": userID,
		"iat": now.Unix(),
		"exp": accessExp.Unix(),
	})
	if err != nil {
		return JWTToken{}, err
	}

	refreshToken, refreshExp, err := issueRefreshToken(db, userID, now)
	if err != nil {
		return JWTToken{}, err
	}

	return JWTToken{
		AccessToken:         accessToken,
		AccessTokenExpires:  accessExp.UnixMilli(),
		RefreshToken:        refreshToken,
		RefreshTokenExpires: refreshExp.UnixMilli(),
	}, nil
}
