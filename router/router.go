package router

import (
	"log"

	"banku/config"
	"banku/controllers"
	"banku/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares.
// Surface: público (login, refresh, change-password) + autenticado (users,
// accounts); dentro das rotas autenticadas a regra papel-ou-dono fica nos
// handlers, não em grupo.
func Initialize(r *gin.Engine, cfg config.Configuration) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api/v1")

	// Public (no auth)
	api.POST("/auth/login", Logger(), controllers.Login)
	api.POST("/auth/refresh", Logger(), controllers.Refresh)
	api.POST("/users/change-password/", Logger(), controllers.RequestPasswordChange)
	api.POST("/users/change-password/:key", Logger(), controllers.SetPassword)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())

	// Cadastro aberto ou restrito conforme config
	if cfg.Security.UserCreateWithoutAuth {
		api.POST("/users", Logger(), controllers.CreateUser)
	} else {
		auth.POST("/users", Logger(), controllers.CreateUser)
	}

	// Users
	auth.GET("/users", Logger(), controllers.ListUsers)
	auth.GET("/users/me", Logger(), controllers.RetrieveMe)
	auth.PATCH("/users/me", Logger(), controllers.PartialUpdateMe)
	auth.GET("/users/:cid", Logger(), controllers.RetrieveUser)
	auth.PATCH("/users/:cid", Logger(), controllers.PartialUpdateUser)

	// Accounts
	auth.GET("/accounts", Logger(), controllers.ListAccounts)
	auth.POST("/accounts", Logger(), controllers.CreateAccount)
	auth.GET("/accounts/:number", Logger(), controllers.RetrieveAccount)
	auth.PATCH("/accounts/:number", Logger(), controllers.PartialUpdateAccount)
	auth.POST("/accounts/:number/deposit", Logger(), controllers.AccountDeposit)
	auth.POST("/accounts/:number/withdraw", Logger(), controllers.AccountWithdraw)
	auth.GET("/accounts/:number/balance", Logger(), controllers.ListAccountBalance)

	log.Printf("Routes initialized")
}
