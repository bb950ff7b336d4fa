package controllers

import "github.com/gin-gonic/gin"

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

// RespondFieldError aponta o campo que falhou na validação (ex: chave única em uso).
func RespondFieldError(c *gin.Context, field, msg string, code int) {
	c.JSON(code, gin.H{"field": field, "error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(200, payload)
}
