package tools

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// EncryptTextSHA512 é usado para guardar apenas o hash de tokens opacos
// (refresh tokens) no banco.
func EncryptTextSHA512(text string) string {
	sum := sha512.Sum512([]byte(text))
	return hex.EncodeToString(sum[:])
}

// RandomKey gera uma chave opaca criptograficamente aleatória (uuid v4 sem hífens).
func RandomKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
