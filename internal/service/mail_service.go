package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/mail"
	"time"

	"delivery-web-server/config"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/util"

	"gopkg.in/gomail.v2"
)

//go:embed templates/delivery_link.html
var mailTemplates embed.FS

type MailService struct {
	cfg         *config.SMTPConfig
	template    *template.Template
	sendTimeout time.Duration
	linkTTL     time.Duration
}

func NewMailService(cfg *config.SMTPConfig, linkTTL time.Duration) (*MailService, error) {
	tmpl, err := template.ParseFS(mailTemplates, "templates/delivery_link.html")
	if err != nil {
		return nil, util.LogError("[MailService] ошибка разбора шаблона письма", err)
	}

	sendTimeout := 30 * time.Second
	if cfg.SendTimeout != "" {
		sendTimeout, err = time.ParseDuration(cfg.SendTimeout)
		if err != nil {
			return nil, util.LogError("[MailService] ошибка парсинга", err)
		}
	}

	return &MailService{
		cfg:         cfg,
		template:    tmpl,
		sendTimeout: sendTimeout,
		linkTTL:     linkTTL,
	}, nil
}

// SendDeliveryLink : отправляет получателю письмо со ссылкой на скачивание.
// Адрес и настройки SMTP проверяются до обращения к серверу,
// сама отправка ограничена sendTimeout.
func (s *MailService) SendDeliveryLink(ctx context.Context, recipientEmail string, filenameOriginal string, accessURL string) error {
	if _, err := mail.ParseAddress(recipientEmail); err != nil {
		return fmt.Errorf("некорректный адрес получателя %q: %w", recipientEmail, model.ErrValidation)
	}
	if s.cfg.Host == "" || s.cfg.From == "" {
		return fmt.Errorf("SMTP не сконфигурирован: %w", model.ErrTransport)
	}

	body, err := s.renderBody(filenameOriginal, accessURL)
	if err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.cfg.From)
	message.SetHeader("To", recipientEmail)
	message.SetHeader("Subject", fmt.Sprintf("Вам отправлен файл: %s", filenameOriginal))
	message.SetBody("text/html", body)

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	// gomail не принимает контекст, поэтому отправку ограничиваем вручную
	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(message)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("ошибка отправки письма: %v: %w", err, model.ErrTransport)
		}
		return nil
	case <-time.After(s.sendTimeout):
		return fmt.Errorf("таймаут отправки письма (%s): %w", s.sendTimeout, model.ErrTransport)
	case <-ctx.Done():
		return fmt.Errorf("отправка письма прервана: %v: %w", ctx.Err(), model.ErrTransport)
	}
}

func (s *MailService) renderBody(filenameOriginal string, accessURL string) (string, error) {
	data := struct {
		Filename   string
		AccessURL  string
		ValidHours int
	}{
		Filename:   filenameOriginal,
		AccessURL:  accessURL,
		ValidHours: int(s.linkTTL.Hours()),
	}

	var buf bytes.Buffer
	if err := s.template.Execute(&buf, data); err != nil {
		return "", util.LogError("[MailService] ошибка рендеринга шаблона письма", err)
	}

	return buf.String(), nil
}
