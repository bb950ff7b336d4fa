package models

// AccountTransaction é uma entrada imutável do extrato (append-only).
// Amount é assinado: negativo = saque, positivo = depósito.
type AccountTransaction struct {
	ID            int64   `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Date          int64   `gorm:"not null;index" json:"date"` // unix millis
	AccountNumber string  `gorm:"not null;index" json:"account_number"`
	UserID        int64   `gorm:"not null" json:"user_id"`
	Document      string  `json:"document"`
	Description   string  `json:"description"`
	Amount        float64 `gorm:"not null" json:"amount"`
}

func (AccountTransaction) TableName() string {
	return "accounts_transactions"
}

// AccountBalanceTransaction é uma transação anotada com o saldo da conta
// imediatamente após ela (usada no extrato com saldo corrente).
type AccountBalanceTransaction struct {
	AccountTransaction
	AccountAmount float64 `json:"account_amount"`
}
