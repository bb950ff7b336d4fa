package models

import "time"

// RefreshToken é a sessão de longa duração de um usuário. O token em si só
// existe na resposta do login; no banco fica apenas o hash, então um vazamento
// do DB não entrega sessões válidas.
// RevokedAt preenchido encerra a sessão (rotação no refresh, troca de senha).
type RefreshToken struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	TokenHash string     `gorm:"not null;unique_index" json:"-"`
	RevokedAt *time.Time `json:"revoked_at"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (rt RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt RefreshToken) IsExpired(now time.Time) bool {
	if rt.ExpiresAt == nil {
		return false
	}
	return now.After(*rt.ExpiresAt)
}
