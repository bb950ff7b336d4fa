package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"banku/models"
	"banku/tools"
)

type sentMail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type stubSender struct {
	sent  []sentMail
	calls int
	fail  bool
}

func (s *stubSender) Send(to, subject, html, text string) error {
	s.calls++
	if s.fail {
		return errors.New("smtp: connection refused")
	}
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, HTML: html, Text: text})
	return nil
}

func useStubSender(t *testing.T, fail bool) *stubSender {
	t.Helper()
	stub := &stubSender{fail: fail}
	SetMailSender(stub)
	t.Cleanup(func() { SetMailSender(nil) })
	return stub
}

func TestRequestPasswordChangeSendsKeyByMailOnly(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	stub := useStubSender(t, false)
	createTestUser(t, db, "11111111-1", models.ROLE_USER, "secret1")

	w := doJSON(t, r, "POST", "/api/v1/users/change-password/", "",
		map[string]string{"country_commercial_id": "11111111-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, esperado 201: %s", w.Code, w.Body.String())
	}

	var change models.PasswordChange
	if err := db.First(&change).Error; err != nil {
		t.Fatalf("pedido não persistido: %v", err)
	}
	if change.Burned {
		t.Fatal("pedido novo não pode nascer queimado")
	}

	// A chave viaja só no e-mail, nunca na resposta.
	if strings.Contains(w.Body.String(), change.ID) {
		t.Fatal("resposta vazou a chave do pedido")
	}
	if len(stub.sent) != 1 {
		t.Fatalf("%d e-mails enviados, esperado 1", len(stub.sent))
	}
	if !strings.Contains(stub.sent[0].HTML, change.ID) {
		t.Fatal("e-mail não contém a chave")
	}
	if !strings.Contains(stub.sent[0].HTML, "http://front.test/change-password/"+change.ID) {
		t.Fatal("e-mail não contém o link com a chave")
	}
}

func TestRequestPasswordChangeUnknownUser(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	useStubSender(t, false)

	w := doJSON(t, r, "POST", "/api/v1/users/change-password/", "",
		map[string]string{"country_commercial_id": "nao-existe"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, esperado 404", w.Code)
	}
}

func TestRequestPasswordChangeDisabledUser(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	useStubSender(t, false)

	user := createTestUser(t, db, "22222222-2", models.ROLE_USER, "secret1")
	db.Model(&user).Update("enabled", false)

	w := doJSON(t, r, "POST", "/api/v1/users/change-password/", "",
		map[string]string{"country_commercial_id": "22222222-2"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, esperado 404", w.Code)
	}
}

func TestRequestPasswordChangeRateLimited(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	useStubSender(t, false)
	user := createTestUser(t, db, "33333333-3", models.ROLE_USER, "secret1")

	cfg := testConfig()
	cfg.PasswordReset.MaxPerDay = 1
	SetConfig(cfg)
	t.Cleanup(func() { SetConfig(testConfig()) })

	// Cota do dia já consumida por um pedido existente.
	now := time.Now()
	exp := now.Add(time.Hour)
	db.Create(&models.PasswordChange{ID: tools.RandomKey(), UserID: user.ID, Expires: &exp, CreatedAt: &now})

	w := doJSON(t, r, "POST", "/api/v1/users/change-password/", "",
		map[string]string{"country_commercial_id": "33333333-3"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, esperado 429", w.Code)
	}

	var count int
	db.Model(&models.PasswordChange{}).Count(&count)
	if count != 1 {
		t.Fatalf("pedido criado mesmo com a cota do dia estourada (%d linhas)", count)
	}
}

func TestRequestPasswordChangeMailFailureDiscardsKey(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	stub := useStubSender(t, true)
	createTestUser(t, db, "44444444-4", models.ROLE_USER, "secret1")

	w := doJSON(t, r, "POST", "/api/v1/users/change-password/", "",
		map[string]string{"country_commercial_id": "44444444-4"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, esperado 500", w.Code)
	}
	if stub.calls != mailSendAttempts {
		t.Fatalf("%d tentativas de envio, esperado %d", stub.calls, mailSendAttempts)
	}
	// Sem detalhe de SMTP na resposta.
	if strings.Contains(w.Body.String(), "smtp") {
		t.Fatalf("resposta vazou detalhe do SMTP: %s", w.Body.String())
	}

	var count int
	db.Model(&models.PasswordChange{}).Count(&count)
	if count != 0 {
		t.Fatalf("pedido sobreviveu à falha de entrega (%d linhas)", count)
	}
}

func TestSetPasswordBurnsKeyExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "55555555-5", models.ROLE_USER, "velha-senha")

	now := time.Now()
	exp := now.Add(time.Hour)
	change := models.PasswordChange{ID: tools.RandomKey(), UserID: user.ID, Expires: &exp, CreatedAt: &now}
	db.Create(&change)

	body := map[string]string{"password": "nova-senha", "password_confirm": "nova-senha"}

	w := doJSON(t, r, "POST", "/api/v1/users/change-password/"+change.ID, "", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200: %s", w.Code, w.Body.String())
	}

	var fresh models.User
	db.First(&fresh, user.ID)
	if !tools.CheckPasswordHash("nova-senha", fresh.Password) {
		t.Fatal("senha não foi trocada")
	}
	if tools.CheckPasswordHash("velha-senha", fresh.Password) {
		t.Fatal("senha antiga continua válida")
	}

	var burned models.PasswordChange
	db.Where("id = ?", change.ID).First(&burned)
	if !burned.Burned {
		t.Fatal("chave não foi queimada")
	}

	// Segunda chamada com a mesma chave: 404, senha intocada.
	w = doJSON(t, r, "POST", "/api/v1/users/change-password/"+change.ID, "",
		map[string]string{"password": "outra-senha", "password_confirm": "outra-senha"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("reuso da chave: status = %d, esperado 404", w.Code)
	}
	db.First(&fresh, user.ID)
	if !tools.CheckPasswordHash("nova-senha", fresh.Password) {
		t.Fatal("reuso da chave alterou a senha")
	}
}

// A leitura e a queima da chave acontecem na mesma transação, então dois
// consumos disputando a mesma chave nunca passam os dois: um troca a senha,
// o outro leva 404.
func TestSetPasswordConcurrentConsumes(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "99999999-9", models.ROLE_USER, "velha-senha")

	now := time.Now()
	exp := now.Add(time.Hour)
	change := models.PasswordChange{ID: tools.RandomKey(), UserID: user.ID, Expires: &exp, CreatedAt: &now}
	db.Create(&change)

	const attempts = 4
	codes := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		password := fmt.Sprintf("senha-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := doJSON(t, r, "POST", "/api/v1/users/change-password/"+change.ID, "",
				map[string]string{"password": password, "password_confirm": password})
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)

	succeeded := 0
	for code := range codes {
		switch code {
		case http.StatusOK:
			succeeded++
		case http.StatusNotFound:
		default:
			t.Fatalf("consumo concorrente: status inesperado %d", code)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d consumos passaram, esperado exatamente 1", succeeded)
	}

	var burned models.PasswordChange
	db.Where("id = ?", change.ID).First(&burned)
	if !burned.Burned {
		t.Fatal("chave ficou viva após o consumo")
	}
}

func TestSetPasswordExpiredKey(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "66666666-6", models.ROLE_USER, "secret1")

	now := time.Now()
	exp := now.Add(-time.Minute)
	change := models.PasswordChange{ID: tools.RandomKey(), UserID: user.ID, Expires: &exp, CreatedAt: &now}
	db.Create(&change)

	w := doJSON(t, r, "POST", "/api/v1/users/change-password/"+change.ID, "",
		map[string]string{"password": "nova-senha", "password_confirm": "nova-senha"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("chave vencida: status = %d, esperado 404", w.Code)
	}
}

func TestSetPasswordMismatchValidatedBeforeLookup(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "77777777-7", models.ROLE_USER, "secret1")

	now := time.Now()
	exp := now.Add(time.Hour)
	change := models.PasswordChange{ID: tools.RandomKey(), UserID: user.ID, Expires: &exp, CreatedAt: &now}
	db.Create(&change)

	w := doJSON(t, r, "POST", "/api/v1/users/change-password/"+change.ID, "",
		map[string]string{"password": "nova-senha", "password_confirm": "diferente"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("senhas diferentes: status = %d, esperado 400", w.Code)
	}

	var untouched models.PasswordChange
	db.Where("id = ?", change.ID).First(&untouched)
	if untouched.Burned {
		t.Fatal("validação falhou mas a chave foi queimada")
	}
}

func TestSetPasswordRevokesRefreshTokens(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user := createTestUser(t, db, "88888888-8", models.ROLE_USER, "secret1")

	now := time.Now()
	if _, _, err := issueRefreshToken(db, user.ID, now); err != nil {
		t.Fatalf("emitindo refresh token: %v", err)
	}

	exp := now.Add(time.Hour)
	change := models.PasswordChange{ID: tools.RandomKey(), UserID: user.ID, Expires: &exp, CreatedAt: &now}
	db.Create(&change)

	w := doJSON(t, r, "POST", "/api/v1/users/change-password/"+change.ID, "",
		map[string]string{"password": "nova-senha", "password_confirm": "nova-senha"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var count int
	db.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Fatalf("%d refresh tokens sobraram após troca de senha", count)
	}
}
