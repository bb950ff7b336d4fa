package config

import (
	"encoding/json"
	"log"
	"os"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Security struct {
		JwtSecret             string `json:"jwt_secret"`
		AccessTokenTTLMin     int    `json:"access_token_ttl_minutes"`
		RefreshTokenTTLDays   int    `json:"refresh_token_ttl_days"`
		UserCreateWithoutAuth bool   `json:"user_create_without_auth"`
	} `json:"security"`

	PasswordReset struct {
		TTLMinutes  int    `json:"ttl_minutes"`
		MaxPerDay   int    `json:"max_per_day"`
		FrontendURL string `json:"frontend_url"` // ex: https://app.banku.io/change-password/{key}
	} `json:"password_reset"`

	Mail struct {
		Host string `json:"host"`
		Port int    `json:"port"`
		User string `json:"user"`
		Pass string `json:"pass"`
		From string `json:"from"`
	} `json:"mail"`
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}

	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}
	if c.Security.AccessTokenTTLMin <= 0 {
		c.Security.AccessTokenTTLMin = 24 * 60
	}
	if c.Security.RefreshTokenTTLDays <= 0 {
		c.Security.RefreshTokenTTLDays = 30
	}
	if c.PasswordReset.TTLMinutes <= 0 {
		c.PasswordReset.TTLMinutes = 24 * 60
	}
	if c.PasswordReset.MaxPerDay <= 0 {
		c.PasswordReset.MaxPerDay = 50
	}
	if c.PasswordReset.FrontendURL == "" {
		c.PasswordReset.FrontendURL = "http://localhost:3000/change-password/{key}"
	}
	if c.Mail.Port <= 0 {
		c.Mail.Port = 587
	}

	return c
}
