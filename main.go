package main

import (
	"log"
	"os"

	"banku/config"
	"banku/controllers"
	"banku/db"
	"banku/mailer"
	"banku/router"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg := config.Get(configPath)

	db.SetConfigurations(cfg)
	database, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	controllers.SetConfig(cfg)
	controllers.SetMailSender(mailer.NewSMTPSender(cfg))

	r := gin.New()
	r.Use(db.SetDBtoContext(database))
	router.Initialize(r, cfg)

	log.Printf("Banku API listening on :%s", cfg.ApiPort)
	if err := r.Run(":" + cfg.ApiPort); err != nil {
		log.Fatal(err)
	}
}
