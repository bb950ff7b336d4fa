package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"
)

// jwtClaims é o mínimo necessário para autenticação.
// O token emitido pelo Login usa o padrão:
//   { "sub": <userId>, "iat": ..., "exp": ... }
type jwtClaims struct {
	Sub int64 `json:"sub"`
	Exp int64 `json:"exp"`
	Iat int64 `json:"iat"`
}

func getJWTSecret() string {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return v
	}
	if conf.Security.JwtSecret != "" {
		return conf.Security.JwtSecret
	}
	return "CHANGE_ME"
}

func signHS256JWT(secret string, claims map[string]any) (string, error) {
	header := map[string]any{"alg": "HS256", "typ": "JWT"}
	headB, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	payloadB, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	enc := base64.RawURLEncoding
	unsigned := enc.EncodeToString(headB) + "." + enc.EncodeToString(payloadB)

	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write([]byte(unsigned))
	sig := enc.EncodeToString(h.Sum(nil))
	return unsigned + "." + sig, nil
}

// parseAndVerifyJWT verifies HS256 JWT signed by our Login handler.
func parseAndVerifyJWT(token string, secret string) (jwtClaims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return jwtClaims{}, false
	}

	signingInput := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signingInput))
	sig := mac.Sum(nil)
	expected := base64.RawURLEncoding.EncodeToString(sig)

	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return jwtClaims{}, false
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return jwtClaims{}, false
	}

	var claims jwtClaims
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return jwtClaims{}, false
	}

	if claims.Sub == 0 {
		return jwtClaims{}, false
	}
	return claims, true
}
