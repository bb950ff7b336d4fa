package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Erros de domínio. Handlers traduzem para status HTTP em respondDomainError;
// nenhum erro cru do banco ou do SMTP vaza para o cliente.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrAccountDisabled   = errors.New("account disabled")
	ErrInsufficientFunds = errors.New("the requested operation exceeds the minimum account amount")
	ErrRateLimited       = errors.New("enough password requests for today")
	ErrMailDelivery      = errors.New("unexpected internal error, try again")
)

func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		RespondError(c, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		RespondError(c, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrAccountDisabled):
		RespondError(c, err.Error(), http.StatusLocked)
	case errors.Is(err, ErrInsufficientFunds):
		// Mesmo 403 do caso sem permissão: o contrato do endpoint distingue
		// os dois só pela mensagem, não pelo status.
		RespondError(c, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrRateLimited):
		RespondError(c, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, ErrMailDelivery):
		RespondError(c, err.Error(), http.StatusInternalServerError)
	default:
		RespondError(c, "internal error", http.StatusInternalServerError)
	}
}

// isUniqueViolation detecta violação de chave única sem depender do dialeto.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicat")
}
