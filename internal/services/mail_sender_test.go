package services

import (
	"context"
	"strings"
	"testing"

	"kodbank/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestNewMailSender_FallsBackToLog(t *testing.T) {
	sender := NewMailSender(&config.NotificationConfig{SMTPHost: "smtp.example.com", SMTPPort: 587}, newTestLogger())

	_, ok := sender.(*LogSender)
	assert.True(t, ok)
	assert.NoError(t, sender.Send(context.Background(), "owner@example.com", "subject", "body"))
	assert.ErrorIs(t, sender.Send(context.Background(), "", "subject", "body"), ErrMissingRecipient)
}

func TestNewMailSender_SMTP(t *testing.T) {
	sender := NewMailSender(&config.NotificationConfig{
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		Email:    "bank@example.com",
		Password: "app-password",
		From:     "KodnestBank <no-reply@kodnestbank.com>",
	}, newTestLogger())

	smtpSender, ok := sender.(*SMTPSender)
	assert.True(t, ok)
	assert.Equal(t, "smtp.example.com:587", smtpSender.addr)
	assert.ErrorIs(t, smtpSender.Send(context.Background(), "", "s", "b"), ErrMissingRecipient)
}

func TestBuildMessage(t *testing.T) {
	message := string(buildMessage("KodnestBank <no-reply@kodnestbank.com>", "owner@example.com",
		"Deposit Alert - KodnestBank", "Dear Owner,\n\nline"))

	assert.Contains(t, message, "From: KodnestBank <no-reply@kodnestbank.com>\r\n")
	assert.Contains(t, message, "To: owner@example.com\r\n")
	assert.Contains(t, message, "Subject: Deposit Alert - KodnestBank\r\n")
	assert.Contains(t, message, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(message, "\r\n\r\nDear Owner,\r\n\r\nline"))
}

func TestBuildMessage_EncodesNonASCIISubject(t *testing.T) {
	message := string(buildMessage("a@example.com", "b@example.com", "₹ alert", "body"))

	assert.Contains(t, message, "Subject: =?UTF-8?b?")
}
