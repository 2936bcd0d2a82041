package service_test

import (
	"context"
	"testing"
	"time"

	"delivery-web-server/config"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailService(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.SMTPConfig
		expectedErr bool
	}{
		{
			name: "default timeout",
			cfg:  &config.SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"},
		},
		{
			name: "explicit timeout",
			cfg:  &config.SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com", SendTimeout: "5s"},
		},
		{
			name:        "bad timeout",
			cfg:         &config.SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com", SendTimeout: "пять секунд"},
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := service.NewMailService(tt.cfg, 24*time.Hour)
			if tt.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestSendDeliveryLink_BadRecipient(t *testing.T) {
	svc, err := service.NewMailService(&config.SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"}, time.Hour)
	require.NoError(t, err)

	err = svc.SendDeliveryLink(context.Background(), "not-an-email", "report.pdf", "http://access-url")

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestSendDeliveryLink_SMTPNotConfigured(t *testing.T) {
	// без хоста и отправителя письмо отклоняется до обращения к серверу
	svc, err := service.NewMailService(&config.SMTPConfig{}, time.Hour)
	require.NoError(t, err)

	err = svc.SendDeliveryLink(context.Background(), "friend@example.com", "report.pdf", "http://access-url")

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransport)
}
