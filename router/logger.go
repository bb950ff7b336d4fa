package router

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger registra método, rota, status e latência de cada request na saída
// padrão do log. Corpo e headers ficam de fora: ali passam senha e tokens.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		log.Printf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), elapsed)
	}
}
