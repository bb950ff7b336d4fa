package controllers

import (
	"banku/models"

	"github.com/jinzhu/gorm"
)

// isAccountOwner responde se o usuário está ligado à conta via user_accounts.
func isAccountOwner(db *gorm.DB, userID int64, number string) bool {
	var count int
	err := db.Model(&models.UserAccount{}).
		Where("user_id = ? AND account_number = ?", userID, number).
		Count(&count).Error
	return err == nil && count > 0
}

// authorizeAccountAccess aplica a regra de acesso a contas:
// papel elevado (admin/op) OU dono da conta, em curto-circuito.
// A checagem de conta habilitada só vale para o caminho do dono; papéis
// elevados operam também sobre contas desabilitadas.
// Erros: ErrNotFound (conta desconhecida), ErrAccountDisabled, ErrForbidden.
func authorizeAccountAccess(db *gorm.DB, user models.User, number string, checkEnabled bool) error {
	var account models.Account
	if err := db.Where("number = ?", number).First(&account).Error; err != nil {
		return ErrNotFound
	}

	if user.HasAnyRole(models.ROLE_ADMIN, models.ROLE_OP) {
		return nil
	}

	if checkEnabled && !account.Enabled {
		return ErrAccountDisabled
	}
	if !isAccountOwner(db, user.ID, number) {
		return ErrForbidden
	}
	return nil
}
