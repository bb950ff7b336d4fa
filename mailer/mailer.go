package mailer

import (
	"banku/config"

	gomail "gopkg.in/gomail.v2"
)

// Sender abstrai o envio de notificações por e-mail. Falhas voltam como erro
// para o chamador decidir (retry, rollback); nunca como panic.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPSender(cfg config.Configuration) *SMTPSender {
	return &SMTPSender{
		host: cfg.Mail.Host,
		port: cfg.Mail.Port,
		user: cfg.Mail.User,
		pass: cfg.Mail.Pass,
		from: cfg.Mail.From,
	}
}

func (s *SMTPSender) Send(to, subject, htmlBody, textBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	return d.DialAndSend(m)
}
