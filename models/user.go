package models

import (
	"banku/tools"
)

const ROLE_USER = "user"
const ROLE_OP = "op"
const ROLE_ADMIN = "admin"

// User representa uma pessoa ou empresa cadastrada no banco.
// CountryCommercialID é o identificador fiscal usado como username no login.
type User struct {
	ID int64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`

	FirstCompanyName string `gorm:"not null" json:"first_company_name" form:"first_company_name"`
	FollowingNames   string `json:"following_names" form:"following_names"`
	FirstSurname     string `json:"first_surname" form:"first_surname"`
	LastSurname      string `json:"last_surname" form:"last_surname"`

	IsCompany bool `json:"is_company" form:"is_company"`

	Country             string `gorm:"not null;size:2" json:"country" form:"country"`
	CountryCommercialID string `gorm:"not null;unique_index:unq_user_country_commercial_id" json:"country_commercial_id" form:"country_commercial_id"`
	CountryPersonalID   string `json:"country_personal_id" form:"country_personal_id"`

	Email   string `gorm:"not null" json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Address string `json:"address" form:"address"`
	Enabled bool   `gorm:"not null;default:true" json:"enabled" form:"enabled"`

	Role string `gorm:"not null;default:'user'" json:"role" form:"role"`

	// Hash bcrypt; nunca volta no JSON.
	Password string `gorm:"not null" json:"-" form:"password"`
}

func (user User) MissingFields() string {
	if user.FirstCompanyName == "" {
		return "first_company_name"
	} else if user.Country == "" {
		return "country"
	} else if user.CountryCommercialID == "" {
		return "country_commercial_id"
	} else if user.Email == "" {
		return "email"
	} else if user.Password == "" {
		return "password"
	} else if tools.CheckPassword(user.Password) != "" {
		return tools.CheckPassword(user.Password)
	}
	return ""
}

func (user User) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	return false
}

// UserAccount liga um usuário dono a uma conta.
type UserAccount struct {
	ID            int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID        int64  `gorm:"not null;index" json:"user_id"`
	AccountNumber string `gorm:"not null;index" json:"account_number"`
}
