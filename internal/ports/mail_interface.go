package ports

import "context"

// MailSender : отправка писем получателям.
// Реализация обязана укладываться в таймаут из конфигурации
// и проверять адрес до обращения к SMTP.
type MailSender interface {
	SendDeliveryLink(ctx context.Context, recipientEmail string, filenameOriginal string, accessURL string) error
}
