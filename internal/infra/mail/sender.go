package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/smartzap/smartzap-events/internal/entity"
)

type AlertMailer struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func NewAlertMailer(host string, port int, user, password, from, to string) *AlertMailer {
	return &AlertMailer{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

var alertTemplate = template.Must(template.New("alert").Parse(`
<h2>🚨 Alerta crítico no SmartZap</h2>
<p><strong>Tipo:</strong> {{.Type}}</p>
<p><strong>Código:</strong> {{.Code}}</p>
<p><strong>Mensagem:</strong> {{.Message}}</p>
{{if .InstanceID}}<p><strong>Instância:</strong> {{.InstanceID}}</p>{{end}}
<p>Abra o dashboard para mais detalhes.</p>
`))

// SendCriticalAlert avisa o operador por email quando um alerta crítico
// é criado pelo pipeline de webhook.
func (s *AlertMailer) SendCriticalAlert(alert *entity.AccountAlert) error {
	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, alert); err != nil {
		return fmt.Errorf("erro ao montar corpo do email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("🚨 SmartZap: alerta de conta (%s)", alert.Type))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
