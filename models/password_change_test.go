package models

import (
	"testing"
	"time"
)

func TestPasswordChangeIsUsable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name   string
		change PasswordChange
		want   bool
	}{
		{"viva", PasswordChange{Expires: &future}, true},
		{"no limite", PasswordChange{Expires: &now}, true},
		{"vencida", PasswordChange{Expires: &past}, false},
		{"queimada", PasswordChange{Expires: &future, Burned: true}, false},
		{"sem expiração", PasswordChange{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.change.IsUsable(now); got != tc.want {
				t.Fatalf("IsUsable = %v, esperado %v", got, tc.want)
			}
		})
	}
}

func TestUserHasAnyRole(t *testing.T) {
	admin := User{Role: ROLE_ADMIN}
	if !admin.HasAnyRole(ROLE_ADMIN, ROLE_OP) {
		t.Fatal("admin deveria passar")
	}
	user := User{Role: ROLE_USER}
	if user.HasAnyRole(ROLE_ADMIN, ROLE_OP) {
		t.Fatal("usuário comum não deveria passar")
	}
}
