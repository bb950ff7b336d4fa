package db

import (
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

const dbKey = "db"

// SetDBtoContext injeta a conexão no contexto de cada request.
// Handlers recuperam com DBInstance; nenhum pacote guarda a conexão em global.
func SetDBtoContext(database *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbKey, database)
		c.Next()
	}
}

// DBInstance devolve a conexão injetada por SetDBtoContext, ou nil se o
// middleware não rodou (rota mal montada).
func DBInstance(c *gin.Context) *gorm.DB {
	v, ok := c.Get(dbKey)
	if !ok {
		return nil
	}
	db, _ := v.(*gorm.DB)
	return db
}
