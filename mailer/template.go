package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var changePasswordTmpl = template.Must(template.New("change-password").Parse(`<html>
<body>
  <p>Hola {{.Name}},</p>
  <p>Recibimos un pedido para cambiar tu contraseña en Banku.</p>
  <p><a href="{{.Link}}">Crear nueva contraseña</a></p>
  <p>Si el enlace no funciona, usá esta clave: <b>{{.Key}}</b></p>
  <p>Si no pediste este cambio, ignorá este mensaje.</p>
</body>
</html>`))

type ChangePasswordMail struct {
	Name string
	Link string
	Key  string
}

// RenderChangePassword devolve os corpos html e texto do e-mail de recuperação.
func RenderChangePassword(data ChangePasswordMail) (html string, text string, err error) {
	var buf bytes.Buffer
	if err := changePasswordTmpl.Execute(&buf, data); err != nil {
		return "", "", err
	}
	text = fmt.Sprintf(
		"Hola %s,\n\nRecibimos un pedido para cambiar tu contraseña en Banku.\n\n%s\n\nClave: %s\n",
		data.Name, data.Link, data.Key,
	)
	return buf.String(), text, nil
}
