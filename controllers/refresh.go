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

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// Refresh troca um refresh token válido por um novo par (access+refresh).
// Regras de segurança:
// - Não armazenamos o token em texto no DB (apenas hash)
// - Rotação: ao usar, revogamos tokens anteriores e emitimos um novo
// - Sessão única: revoga TODOS os refresh tokens ativos do usuário (incluindo o atual)
func Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		RespondError(c, "refresh_token é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	now := timeNow()
	hash := tools.EncryptTextSHA512(req.RefreshToken)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ?", hash).First(&stored).Error; err != nil {
		RespondError(c, "refresh token inválido", http.StatusUnauthorized)
		return
	}

	if stored.IsRevoked() || stored.IsExpired(now) {
		RespondError(c, "refresh token expirado", http.StatusUnauthorized)
		return
	}

	if err := revokeAllUserRefreshTokens(db, stored.UserID, now); err != nil {
		RespondError(c, "erro ao revogar sessões anteriores", http.StatusInternalServerError)
		return
	}

	token, err := createTokenPair(db, stored.UserID, now)
	if err != nil {
		RespondError(c, "erro ao assinar token", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, token)
}

func issueRefreshToken(db *gorm.DB, userID int64, now time.Time) (string, time.Time, error) {
	token := tools.RandomKey()
	exp := now.Add(time.Duration(conf.Security.RefreshTokenTTLDays) * 24 * time.Hour)

	stored := models.RefreshToken{
		UserID:    userID,
		TokenHash: tools.EncryptTextSHA512(token),
		ExpiresAt: &exp,
	}
	if err := db.Create(&stored).Error; err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func revokeAllUserRefreshTokens(db *gorm.DB, userID int64, now time.Time) error {
	return db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", &now).Error
}
