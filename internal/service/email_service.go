package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"career_insight_engine/internal/config"
	"career_insight_engine/internal/model"
	"career_insight_engine/internal/util"
)

// InvitationTemplateParams feeds the invitation and reminder templates.
type InvitationTemplateParams struct {
	UserName    string
	UserTitle   string
	CompanyName string
	AdvisorName string
	Message     string
	ResponseURL string
}

var invitationTemplate = template.Must(template.New("invitation").Parse(`
<p>Hi {{.AdvisorName}},</p>
<p>{{.UserName}}{{if .UserTitle}} ({{.UserTitle}}{{if .CompanyName}} at {{.CompanyName}}{{end}}){{end}}
is working through a career self-assessment and would value your perspective on their strengths.</p>
{{if .Message}}<blockquote>{{.Message}}</blockquote>{{end}}
<p>It takes about ten minutes: <a href="{{.ResponseURL}}">share your feedback</a>.</p>
`))

var reminderTemplate = template.Must(template.New("reminder").Parse(`
<p>Hi {{.AdvisorName}},</p>
<p>A quick reminder that {{.UserName}} asked for your perspective on their career strengths.
The form is still open: <a href="{{.ResponseURL}}">share your feedback</a>.</p>
`))

// EmailService sends invitation mail over SMTP. Sends are bounded by the
// configured timeout; a timed-out send reports an error so the caller can
// leave the invitation untouched.
type EmailService struct {
	cfg    config.EmailConfig
	server string
	auth   smtp.Auth

	// sendMail is swappable in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg config.EmailConfig) *EmailService {
	return &EmailService{
		cfg:      cfg,
		server:   cfg.Host + ":" + cfg.Port,
		auth:     smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
		sendMail: smtp.SendMail,
	}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Port != "" && s.cfg.From != ""
}

// SendInvitation mails the advisor their response link.
func (s *EmailService) SendInvitation(ctx context.Context, inv *model.AdvisorInvitation, params InvitationTemplateParams) error {
	subject := fmt.Sprintf("%s is asking for your career feedback", params.UserName)
	return s.sendTemplate(ctx, inv.AdvisorEmail, subject, invitationTemplate, params)
}

// SendReminder nudges an advisor who has not responded yet.
func (s *EmailService) SendReminder(ctx context.Context, inv *model.AdvisorInvitation, params InvitationTemplateParams) error {
	subject := fmt.Sprintf("Reminder: %s would value your feedback", params.UserName)
	return s.sendTemplate(ctx, inv.AdvisorEmail, subject, reminderTemplate, params)
}

func (s *EmailService) sendTemplate(ctx context.Context, to, subject string, tmpl *template.Template, params InvitationTemplateParams) error {
	if !s.IsConfigured() {
		return util.ErrEmailNotConfigured
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, params); err != nil {
		return fmt.Errorf("render email template: %w", err)
	}

	return s.send(ctx, []string{to}, subject, body.String())
}

func (s *EmailService) send(ctx context.Context, to []string, subject, htmlBody string) error {
	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n%s\r\n", htmlBody)

	timeout := s.cfg.SendTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// net/smtp has no context support; run the dial-and-send in a goroutine
	// and abandon it on timeout.
	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(s.server, s.auth, s.cfg.From, to, msg.Bytes())
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("email dispatch: %w", ctx.Err())
	}
}
