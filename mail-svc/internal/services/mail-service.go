package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender delivers composed messages; *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type MailService struct {
	sender       Sender
	mailFrom     string
	mailFromName string
	baseURL      string
	logger       *zap.Logger
}

func NewMailService(sender Sender, mailFrom, mailFromName, baseURL string, logger *zap.Logger) (*MailService, error) {
	if sender == nil || mailFrom == "" {
		return nil, errors.New("mail sender and MAIL_FROM are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailService{
		sender:       sender,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
		baseURL:      baseURL,
		logger:       logger,
	}, nil
}

func NewSMTPDialer(host string, port int, username, password string) (*gomail.Dialer, error) {
	if host == "" || port == 0 {
		return nil, errors.New("SMTP_HOST and SMTP_PORT are required")
	}
	return gomail.NewDialer(host, port, username, password), nil
}

var approvedTemplate = template.Must(template.New("approved").Parse(
	`<p>Hi {{.Name}},</p>
<p>Your Bachelor Point account has been approved. You can now post and browse listings.</p>
{{if .Link}}<p><a href="{{.Link}}">Open Bachelor Point</a></p>{{end}}`))

var bannedTemplate = template.Must(template.New("banned").Parse(
	`<p>Hi {{.Name}},</p>
<p>Your Bachelor Point account has been returned to pending review. Listings stay hidden from you until an administrator approves the account again.</p>`))

func (s *MailService) SendAccountApproved(to, name string) error {
	return s.send(to, "Your account has been approved", approvedTemplate, name)
}

func (s *MailService) SendAccountBanned(to, name string) error {
	return s.send(to, "Your account is under review", bannedTemplate, name)
}

func (s *MailService) send(to, subject string, tmpl *template.Template, name string) error {
	if to == "" {
		return errors.New("missing recipient")
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, map[string]string{
		"Name": name,
		"Link": s.baseURL,
	}); err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.mailFrom, s.mailFromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send %s mail: %w", tmpl.Name(), err)
	}
	s.logger.Info("mail sent", zap.String("template", tmpl.Name()), zap.String("to", to))
	return nil
}
