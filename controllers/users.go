package controllers

import (
	"net/http"

	dbpkg "banku/db"
	"banku/models"
	"banku/tools"

	"github.com/gin-gonic/gin"
)

const userOrder = "first_surname asc, last_surname asc, first_company_name asc, following_names asc"

// GET /users (autenticado)
func ListUsers(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	page, size, offset := pageParams(c)

	var total int
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}

	var users []models.User
	if err := db.Order(userOrder).Offset(offset).Limit(size).Find(&users).Error; err != nil {
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, Page{Items: users, Total: total, Page: page, Size: size})
}

// UserInput é o corpo de criação de usuário (a senha nunca sai em JSON do
// modelo, então o bind acontece aqui).
type UserInput struct {
	FirstCompanyName    string `json:"first_company_name" form:"first_company_name"`
	FollowingNames      string `json:"following_names" form:"following_names"`
	FirstSurname        string `json:"first_surname" form:"first_surname"`
	LastSurname         string `json:"last_surname" form:"last_surname"`
	IsCompany           bool   `json:"is_company" form:"is_company"`
	Country             string `json:"country" form:"country"`
	CountryCommercialID string `json:"country_commercial_id" form:"country_commercial_id"`
	CountryPersonalID   string `json:"country_personal_id" form:"country_personal_id"`
	Email               string `json:"email" form:"email"`
	Phone               string `json:"phone" form:"phone"`
	Address             string `json:"address" form:"address"`
	Role                string `json:"role" form:"role"`
	Password            string `json:"password" form:"password"`
}

func (in UserInput) toUser() models.User {
	return models.User{
		FirstCompanyName:    in.FirstCompanyName,
		FollowingNames:      in.FollowingNames,
		FirstSurname:        in.FirstSurname,
		LastSurname:         in.LastSurname,
		IsCompany:           in.IsCompany,
		Country:             in.Country,
		CountryCommercialID: in.CountryCommercialID,
		CountryPersonalID:   in.CountryPersonalID,
		Email:               in.Email,
		Phone:               in.Phone,
		Address:             in.Address,
		Role:                in.Role,
		Password:            in.Password,
		Enabled:             true,
	}
}

// POST /users
// Pública ou autenticada conforme config (user_create_without_auth).
// Papel elevado só pode ser atribuído por um admin logado.
func CreateUser(c *gin.Context) {
	db := dbpkg.DBInstance(c)

	var input UserInput
	if err := c.Bind(&input); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user := input.toUser()
	if missing := user.MissingFields(); missing != "" {
		RespondError(c, "faltando campo "+missing, http.StatusBadRequest)
		return
	}
	if !tools.ValidateEmail(user.Email) {
		RespondError(c, "e-mail inválido", http.StatusBadRequest)
		return
	}
	if user.Phone != "" && !tools.ValidatePhone(user.Phone) {
		RespondError(c, "telefone inválido", http.StatusBadRequest)
		return
	}

	logged, _ := GetUserLogged(c)
	if user.Role == "" || !logged.HasAnyRole(models.ROLE_ADMIN) {
		user.Role = models.ROLE_USER
	}

	hash, err := tools.HashPassword(user.Password)
	if err != nil {
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}
	user.Password = hash

	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			RespondFieldError(c, "country_commercial_id", "the commercial id is in use", http.StatusBadRequest)
			return
		}
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GET /users/me
func RetrieveMe(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	RespondSuccess(c, user)
}

// UserPatch distingue campo ausente (nil) de campo enviado.
// Senha e papel não passam por aqui: senha troca pelo fluxo de change-password,
// papel só via admin.
type UserPatch struct {
	FirstCompanyName    *string `json:"first_company_name"`
	FollowingNames      *string `json:"following_names"`
	FirstSurname        *string `json:"first_surname"`
	LastSurname         *string `json:"last_surname"`
	IsCompany           *bool   `json:"is_company"`
	Country             *string `json:"country"`
	CountryCommercialID *string `json:"country_commercial_id"`
	CountryPersonalID   *string `json:"country_personal_id"`
	Email               *string `json:"email"`
	Phone               *string `json:"phone"`
	Address             *string `json:"address"`
	Enabled             *bool   `json:"enabled"`
	Role                *string `json:"role"`
}

func mergeUserPatch(user *models.User, patch UserPatch, allowAdminFields bool) {
	if patch.FirstCompanyName != nil {
		user.FirstCompanyName = *patch.FirstCompanyName
	}
	if patch.FollowingNames != nil {
		user.FollowingNames = *patch.FollowingNames
	}
	if patch.FirstSurname != nil {
		user.FirstSurname = *patch.FirstSurname
	}
	if patch.LastSurname != nil {
		user.LastSurname = *patch.LastSurname
	}
	if patch.IsCompany != nil {
		user.IsCompany = *patch.IsCompany
	}
	if patch.Country != nil {
		user.Country = *patch.Country
	}
	if patch.CountryCommercialID != nil {
		user.CountryCommercialID = *patch.CountryCommercialID
	}
	if patch.CountryPersonalID != nil {
		user.CountryPersonalID = *patch.CountryPersonalID
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}
	if allowAdminFields {
		if patch.Enabled != nil {
			user.Enabled = *patch.Enabled
		}
		if patch.Role != nil {
			user.Role = *patch.Role
		}
	}
}

func applyUserPatch(c *gin.Context, where string, args []any, allowAdminFields bool) {
	db := dbpkg.DBInstance(c)

	var patch UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var user models.User
	if err := db.Where(where, args...).First(&user).Error; err != nil {
		respondDomainError(c, ErrNotFound)
		return
	}

	mergeUserPatch(&user, patch, allowAdminFields)
	if patch.Email != nil && !tools.ValidateEmail(user.Email) {
		RespondError(c, "e-mail inválido", http.StatusBadRequest)
		return
	}

	if err := db.Save(&user).Error; err != nil {
		if isUniqueViolation(err) {
			RespondFieldError(c, "country_commercial_id", "the commercial id is in use", http.StatusBadRequest)
			return
		}
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, user)
}

// PATCH /users/me
func PartialUpdateMe(c *gin.Context) {
	logged, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	applyUserPatch(c, "id = ?", []any{logged.ID}, false)
}

// GET /users/:cid (por country_commercial_id)
func RetrieveUser(c *gin.Context) {
	db := dbpkg.DBInstance(c)

	var user models.User
	if err := db.Where("country_commercial_id = ?", c.Param("cid")).First(&user).Error; err != nil {
		respondDomainError(c, ErrNotFound)
		return
	}
	RespondSuccess(c, user)
}

// PATCH /users/:cid (admin/op)
func PartialUpdateUser(c *gin.Context) {
	logged, ok := GetUserLogged(c)
	if !ok || !logged.HasAnyRole(models.ROLE_ADMIN, models.ROLE_OP) {
		respondDomainError(c, ErrForbidden)
		return
	}
	applyUserPatch(c, "country_commercial_id = ?", []any{c.Param("cid")}, true)
}
