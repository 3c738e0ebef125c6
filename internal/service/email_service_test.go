package service

import (
	"career_insight_engine/internal/config"
	"career_insight_engine/internal/model"
	"career_insight_engine/internal/util"
	"context"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configuredEmailService() *EmailService {
	return NewEmailService(config.EmailConfig{
		Host:        "smtp.example.com",
		Port:        "587",
		Username:    "mailer",
		Password:    "secret",
		From:        "noreply@example.com",
		FromName:    "Career Insight Engine",
		SendTimeout: time.Second,
	})
}

func TestEmailServiceUnconfigured(t *testing.T) {
	svc := NewEmailService(config.EmailConfig{})
	assert.False(t, svc.IsConfigured())

	err := svc.SendInvitation(context.Background(), &model.AdvisorInvitation{}, InvitationTemplateParams{})
	assert.ErrorIs(t, err, util.ErrEmailNotConfigured)
}

func TestSendInvitationRendersTemplate(t *testing.T) {
	svc := configuredEmailService()

	var capturedTo []string
	var capturedMsg string
	svc.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		capturedTo = to
		capturedMsg = string(msg)
		return nil
	}

	inv := &model.AdvisorInvitation{AdvisorEmail: "dana@example.com", AdvisorName: "Dana Reyes"}
	err := svc.SendInvitation(context.Background(), inv, InvitationTemplateParams{
		UserName:    "Jordan Lee",
		UserTitle:   "Staff Engineer",
		CompanyName: "Acme",
		AdvisorName: "Dana Reyes",
		Message:     "Would love your honest take.",
		ResponseURL: "https://app.example.com/advisor/respond/invitation_abc",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"dana@example.com"}, capturedTo)
	assert.Contains(t, capturedMsg, "Jordan Lee is asking for your career feedback")
	assert.Contains(t, capturedMsg, "Hi Dana Reyes,")
	assert.Contains(t, capturedMsg, "Staff Engineer")
	assert.Contains(t, capturedMsg, "Would love your honest take.")
	assert.Contains(t, capturedMsg, "https://app.example.com/advisor/respond/invitation_abc")
	assert.Contains(t, capturedMsg, "Career Insight Engine <noreply@example.com>")
}

func TestSendReminderRendersTemplate(t *testing.T) {
	svc := configuredEmailService()

	var capturedMsg string
	svc.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		capturedMsg = string(msg)
		return nil
	}

	inv := &model.AdvisorInvitation{AdvisorEmail: "dana@example.com", AdvisorName: "Dana Reyes"}
	err := svc.SendReminder(context.Background(), inv, InvitationTemplateParams{
		UserName:    "Jordan Lee",
		AdvisorName: "Dana Reyes",
		ResponseURL: "https://app.example.com/advisor/respond/invitation_abc",
	})
	require.NoError(t, err)

	assert.Contains(t, capturedMsg, "Reminder: Jordan Lee would value your feedback")
	assert.Contains(t, capturedMsg, "still open")
}

func TestSendTimesOut(t *testing.T) {
	svc := configuredEmailService()
	svc.cfg.SendTimeout = 20 * time.Millisecond

	block := make(chan struct{})
	defer close(block)
	svc.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		<-block
		return nil
	}

	inv := &model.AdvisorInvitation{AdvisorEmail: "dana@example.com"}
	err := svc.SendInvitation(context.Background(), inv, InvitationTemplateParams{UserName: "Jordan Lee"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
