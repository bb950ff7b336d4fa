package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	dbpkg "banku/db"
	"banku/mailer"
	"banku/models"
	"banku/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

const mailSendAttempts = 3

type PasswordChangeRequest struct {
	CountryCommercialID string `json:"country_commercial_id" form:"country_commercial_id"`
}

type PasswordChangeInput struct {
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
}

// POST /users/change-password/ (pública)
//
// Cria um pedido de troca de senha e manda a chave por e-mail. A chave nunca
// volta na resposta: ela só viaja no link do e-mail. Se o envio falhar em
// todas as tentativas, o pedido é apagado para não ficar meio-emitido.
func RequestPasswordChange(c *gin.Context) {
	var req PasswordChangeRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.CountryCommercialID) == "" {
		RespondError(c, "country_commercial_id é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.Where("country_commercial_id = ? AND enabled = ?", req.CountryCommercialID, true).
		First(&user).Error; err != nil {
		respondDomainError(c, ErrNotFound)
		return
	}

	now := timeNow()

	count, err := passwordRequestsToday(db, now)
	if err != nil {
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}
	if count >= conf.PasswordReset.MaxPerDay {
		respondDomainError(c, ErrRateLimited)
		return
	}

	expires := now.Add(time.Duration(conf.PasswordReset.TTLMinutes) * time.Minute)
	change := models.PasswordChange{
		ID:        tools.RandomKey(),
		UserID:    user.ID,
		Expires:   &expires,
		CreatedAt: &now,
	}
	if err := db.Create(&change).Error; err != nil {
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}

	if err := sendPasswordChangeMail(user, change.ID); err != nil {
		log.Printf("change-password: envio falhou user_id=%d err=%v", user.ID, err)
		// Rollback do pedido: chave não entregue não pode ficar viva.
		if derr := db.Delete(&change).Error; derr != nil {
			log.Printf("change-password: falha ao descartar pedido key=%s err=%v", change.ID, derr)
		}
		respondDomainError(c, ErrMailDelivery)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"detail": "Successfully created"})
}

// passwordRequestsToday conta os pedidos emitidos no dia corrente (janela
// global, não por usuário).
func passwordRequestsToday(db *gorm.DB, now time.Time) (int, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int
	err := db.Model(&models.PasswordChange{}).
		Where("created_at >= ?", startOfDay).
		Count(&count).Error
	return count, err
}

func sendPasswordChangeMail(user models.User, key string) error {
	name := strings.TrimSpace(user.FirstCompanyName + " " + user.FirstSurname)
	link := strings.Replace(conf.PasswordReset.FrontendURL, "{key}", key, 1)

	html, text, err := mailer.RenderChangePassword(mailer.ChangePasswordMail{
		Name: name,
		Link: link,
		Key:  key,
	})
	if err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < mailSendAttempts; i++ {
		lastErr = mailSender.Send(user.Email, "Recuperar contraseña en Banku", html, text)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// POST /users/change-password/:key (pública)
//
// Consome o pedido: valida, troca a senha e queima a chave na mesma transação.
// Chave desconhecida, queimada ou vencida responde o mesmo 404 genérico, sem
// dizer qual dos casos ocorreu. Uma segunda chamada com a mesma chave cai no
// 404 (idempotência do burn).
func SetPassword(c *gin.Context) {
	var input PasswordChangeInput
	if err := c.Bind(&input); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	// Validação antes de qualquer lookup.
	if input.Password != input.PasswordConfirm {
		RespondError(c, "passwords don't match", http.StatusBadRequest)
		return
	}
	if missing := tools.CheckPassword(input.Password); missing != "" {
		RespondError(c, "senha muito curta", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	key := c.Param("key")
	now := timeNow()

	hash, err := tools.HashPassword(input.Password)
	if err != nil {
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}

	// Leitura e queima da chave na mesma transação, com a linha travada no
	// postgres: dois consumos simultâneos da mesma chave nunca passam os dois.
	tx := db.Begin()
	if tx.Error != nil {
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}

	query := tx.Where("id = ?", key)
	if tx.Dialect().GetName() == "postgres" {
		query = query.Set("gorm:query_option", "FOR UPDATE")
	}
	var change models.PasswordChange
	if err := query.First(&change).Error; err != nil {
		tx.Rollback()
		respondDomainError(c, ErrNotFound)
		return
	}
	if !change.IsUsable(now) {
		tx.Rollback()
		respondDomainError(c, ErrNotFound)
		return
	}

	var user models.User
	if err := tx.First(&user, change.UserID).Error; err != nil {
		tx.Rollback()
		respondDomainError(c, ErrNotFound)
		return
	}

	if err := tx.Model(&user).Update("password", hash).Error; err != nil {
		tx.Rollback()
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}
	if err := tx.Model(&change).Update("burned", true).Error; err != nil {
		tx.Rollback()
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}
	// Força novo login em todas as sessões.
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
		tx.Rollback()
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"detail": "Success"})
}
