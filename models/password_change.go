package models

import "time"

// PasswordChange representa um pedido de troca de senha ("esqueci minha senha").
// O ID é a própria chave opaca que viaja no link do e-mail; um pedido é usável
// enquanto Burned == false e agora <= Expires.
type PasswordChange struct {
	ID      string     `gorm:"primary_key" json:"id"`
	UserID  int64      `gorm:"not null;index" json:"user_id"`
	Expires *time.Time `json:"expires"`
	Burned  bool       `gorm:"not null;default:false" json:"burned"`

	CreatedAt *time.Time `json:"created_at"`
}

func (PasswordChange) TableName() string {
	return "user_password_change_requests"
}

func (pc PasswordChange) IsUsable(now time.Time) bool {
	if pc.Burned {
		return false
	}
	if pc.Expires == nil {
		return false
	}
	return !now.After(*pc.Expires)
}
