package controllers

import (
	"banku/models"

	"github.com/jinzhu/gorm"
)

// TransactionDetail é o corpo de um depósito ou saque.
// Amount é sempre positivo; o sinal vem da operação.
type TransactionDetail struct {
	Name                string  `json:"name" form:"name"`
	CountryCommercialID string  `json:"country_commercial_id" form:"country_commercial_id"`
	Note                string  `json:"note" form:"note"`
	Document            string  `json:"document" form:"document"`
	Amount              float64 `json:"amount" form:"amount"`
}

// applyAccountTransaction aplica um depósito ou saque preservando o piso da
// conta (CurrentAmount nunca fica abaixo de MinAmount).
//
// A sequência lê-checa-escreve sobre current_amount roda dentro de uma única
// transação com a linha da conta travada (FOR UPDATE no postgres), então dois
// saques concorrentes na mesma conta nunca passam pela checagem com um saldo
// defasado.
func applyAccountTransaction(
	db *gorm.DB, actor models.User, number string,
	detail TransactionDetail, withdraw bool,
) (models.AccountTransaction, error) {
	if err := authorizeAccountAccess(db, actor, number, true); err != nil {
		return models.AccountTransaction{}, err
	}

	amount := detail.Amount
	if withdraw {
		amount = -amount
	}

	tx := db.Begin()
	if tx.Error != nil {
		return models.AccountTransaction{}, tx.Error
	}

	var account models.Account
	query := tx.Where("number = ?", number)
	if tx.Dialect().GetName() == "postgres" {
		query = query.Set("gorm:query_option", "FOR UPDATE")
	}
	if err := query.First(&account).Error; err != nil {
		tx.Rollback()
		return models.AccountTransaction{}, ErrNotFound
	}

	if account.CurrentAmount+amount < account.MinAmount {
		tx.Rollback()
		return models.AccountTransaction{}, ErrInsufficientFunds
	}

	transaction := models.AccountTransaction{
		Date:          timeNow().UnixMilli(),
		AccountNumber: number,
		UserID:        actor.ID,
		Document:      detail.Document,
		Description:   detail.Note,
		Amount:        amount,
	}

	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		return models.AccountTransaction{}, err
	}
	if err := tx.Model(&models.Account{}).
		Where("number = ?", number).
		Update("current_amount", gorm.Expr("current_amount + ?", amount)).Error; err != nil {
		tx.Rollback()
		return models.AccountTransaction{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.AccountTransaction{}, err
	}
	return transaction, nil
}

// accountBalanceHistory reconstrói o saldo histórico da conta.
//
// A soma corrente parte de (saldo atual - soma de todas as transações) e é
// sempre calculada sobre a sequência completa, ordenada por data (desempate
// por id); os limites de data decidem apenas quais linhas saem na resposta.
// Sem filtros, o account_amount da última linha é o saldo armazenado.
//
// Os dois limites combinam com OU lógico, não E: com um único limite
// informado o outro lado da disjunção é sempre verdadeiro e nenhuma linha é
// filtrada. É o contrato publicado do endpoint e clientes dependem dele;
// trocar por E muda as respostas e é uma quebra de compatibilidade.
func accountBalanceHistory(
	db *gorm.DB, actor models.User, number string,
	startTS, endTS *int64,
) ([]models.AccountBalanceTransaction, error) {
	if err := authorizeAccountAccess(db, actor, number, true); err != nil {
		return nil, err
	}

	var account models.Account
	if err := db.Where("number = ?", number).First(&account).Error; err != nil {
		return nil, ErrNotFound
	}

	var transactions []models.AccountTransaction
	if err := db.Where("account_number = ?", number).
		Order("date asc, id asc").
		Find(&transactions).Error; err != nil {
		return nil, err
	}

	var total float64
	for _, t := range transactions {
		total += t.Amount
	}
	running := account.CurrentAmount - total

	history := make([]models.AccountBalanceTransaction, 0, len(transactions))
	for _, t := range transactions {
		running += t.Amount
		if (startTS == nil || t.Date >= *startTS) || (endTS == nil || t.Date <= *endTS) {
			history = append(history, models.AccountBalanceTransaction{
				AccountTransaction: t,
				AccountAmount:      running,
			})
		}
	}
	return history, nil
}
