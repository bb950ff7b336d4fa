package controllers

import (
	"math"
	"net/http"
	"strconv"

	dbpkg "banku/db"
	"banku/models"

	"github.com/gin-gonic/gin"
)

// GET /accounts (admin/op)
func ListAccounts(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok || !user.HasAnyRole(models.ROLE_ADMIN, models.ROLE_OP) {
		respondDomainError(c, ErrForbidden)
		return
	}

	db := dbpkg.DBInstance(c)
	page, size, offset := pageParams(c)

	var total int
	if err := db.Model(&models.Account{}).Count(&total).Error; err != nil {
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}

	var accounts []models.Account
	if err := db.Order("name asc").Offset(offset).Limit(size).Find(&accounts).Error; err != nil {
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, Page{Items: accounts, Total: total, Page: page, Size: size})
}

// POST /accounts (admin/op)
func CreateAccount(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok || !user.HasAnyRole(models.ROLE_ADMIN, models.ROLE_OP) {
		respondDomainError(c, ErrForbidden)
		return
	}

	db := dbpkg.DBInstance(c)

	var account models.Account
	if err := c.Bind(&account); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if missing := account.MissingFields(); missing != "" {
		RespondError(c, "faltando campo "+missing, http.StatusBadRequest)
		return
	}
	if account.ManagerUser == 0 {
		account.ManagerUser = user.ID
	}

	if err := db.Create(&account).Error; err != nil {
		if isUniqueViolation(err) {
			RespondFieldError(c, "number", "account number already in use", http.StatusBadRequest)
			return
		}
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// GET /accounts/:number (admin/op ou dono)
func RetrieveAccount(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	number := c.Param("number")

	if err := authorizeAccountAccess(db, user, number, false); err != nil {
		respondDomainError(c, err)
		return
	}

	var account models.Account
	if err := db.Where("number = ?", number).First(&account).Error; err != nil {
		respondDomainError(c, ErrNotFound)
		return
	}
	RespondSuccess(c, account)
}

// AccountPatch distingue campo ausente (nil) de campo enviado: só os campos
// presentes no corpo são aplicados.
type AccountPatch struct {
	ManagerUser         *int64   `json:"manager_user"`
	Name                *string  `json:"name"`
	Country             *string  `json:"country"`
	CountryPersonalID   *string  `json:"country_personal_id"`
	CountryCommercialID *string  `json:"country_commercial_id"`
	IsCompany           *bool    `json:"is_company"`
	CurrentAmount       *float64 `json:"current_amount"`
	MinAmount           *float64 `json:"min_amount"`
	Enabled             *bool    `json:"enabled"`
}

func mergeAccountPatch(account *models.Account, patch AccountPatch) {
	if patch.ManagerUser != nil {
		account.ManagerUser = *patch.ManagerUser
	}
	if patch.Name != nil {
		account.Name = *patch.Name
	}
	if patch.Country != nil {
		account.Country = *patch.Country
	}
	if patch.CountryPersonalID != nil {
		account.CountryPersonalID = *patch.CountryPersonalID
	}
	if patch.CountryCommercialID != nil {
		account.CountryCommercialID = *patch.CountryCommercialID
	}
	if patch.IsCompany != nil {
		account.IsCompany = *patch.IsCompany
	}
	if patch.CurrentAmount != nil {
		account.CurrentAmount = *patch.CurrentAmount
	}
	if patch.MinAmount != nil {
		account.MinAmount = *patch.MinAmount
	}
	if patch.Enabled != nil {
		account.Enabled = *patch.Enabled
	}
}

// PATCH /accounts/:number (admin/op ou dono de conta habilitada)
func PartialUpdateAccount(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	number := c.Param("number")

	if err := authorizeAccountAccess(db, user, number, true); err != nil {
		respondDomainError(c, err)
		return
	}

	var patch AccountPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var account models.Account
	if err := db.Where("number = ?", number).First(&account).Error; err != nil {
		respondDomainError(c, ErrNotFound)
		return
	}

	mergeAccountPatch(&account, patch)
	if err := db.Save(&account).Error; err != nil {
		RespondError(c, "internal error", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, account)
}

// POST /accounts/:number/deposit
func AccountDeposit(c *gin.Context) {
	accountTransaction(c, false)
}

// POST /accounts/:number/withdraw
func AccountWithdraw(c *gin.Context) {
	accountTransaction(c, true)
}

func accountTransaction(c *gin.Context, withdraw bool) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var detail TransactionDetail
	if err := c.Bind(&detail); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	// NaN e Inf passariam reto pela checagem de piso (toda comparação com NaN
	// é falsa) e o postgres aceita NaN em float8, corrompendo current_amount
	// para sempre. Barra aqui, antes de qualquer escrita.
	if detail.Amount <= 0 || math.IsNaN(detail.Amount) || math.IsInf(detail.Amount, 0) {
		RespondError(c, "amount deve ser um valor finito maior que zero", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	number := c.Param("number")

	transaction, err := applyAccountTransaction(db, user, number, detail, withdraw)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondSuccess(c, transaction)
}

// GET /accounts/:number/balance?start_ts=&end_ts=
func ListAccountBalance(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	number := c.Param("number")

	startTS, ok := optionalInt64Query(c, "start_ts")
	if !ok {
		return
	}
	endTS, ok := optionalInt64Query(c, "end_ts")
	if !ok {
		return
	}

	history, err := accountBalanceHistory(db, user, number, startTS, endTS)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	page, size, _ := pageParams(c)
	items, total := paginateSlice(history, page, size)
	RespondSuccess(c, Page{Items: items, Total: total, Page: page, Size: size})
}

func optionalInt64Query(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		RespondError(c, name+" inválido", http.StatusBadRequest)
		return nil, false
	}
	return &v, true
}
