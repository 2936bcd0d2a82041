package requestresponse

import (
	"time"

	"delivery-web-server/internal/model"
)

// DeliveryResponse : описывает отправку для JSON-ответа
type DeliveryResponse struct {
	UUID             string `json:"id" example:"qwdj1q4o34u34ih759ou1"`
	FilenameOriginal string `json:"name" example:"report.pdf"`
	MimeType         string `json:"mime" example:"application/pdf"`
	SizeBytes        int64  `json:"size" example:"102400"`
	RecipientEmail   string `json:"recipient" example:"friend@example.com"`
	ScheduledAt      string `json:"scheduled_at" example:"2025-09-01T10:00:00Z"`
	Status           string `json:"status" example:"pending"`
	LastError        string `json:"last_error,omitempty" example:"smtp: connection refused"`
	SentAt           string `json:"sent_at,omitempty" example:"2025-09-01T10:00:03Z"`
	CreatedAt        string `json:"created" example:"2025-08-23T12:34:56Z"`
	AccessURL        string `json:"access_url,omitempty" example:"https://files.example.com/access/sfuqwejqjoiu93e29"`
}

// DeliveryResponseFromModel : конвертирует model.Delivery в DeliveryResponse
func DeliveryResponseFromModel(delivery *model.Delivery, accessURL string) DeliveryResponse {
	resp := DeliveryResponse{
		UUID:             delivery.UUID,
		FilenameOriginal: delivery.FilenameOriginal,
		MimeType:         delivery.MimeType,
		SizeBytes:        delivery.SizeBytes,
		RecipientEmail:   delivery.RecipientEmail,
		ScheduledAt:      delivery.ScheduledAt.Format(time.RFC3339),
		Status:           delivery.Status,
		CreatedAt:        delivery.CreatedAt.Format(time.RFC3339),
		AccessURL:        accessURL,
	}
	if delivery.LastError != nil {
		resp.LastError = *delivery.LastError
	}
	if delivery.SentAt != nil {
		resp.SentAt = delivery.SentAt.Format(time.RFC3339)
	}
	return resp
}

// CreateDeliveryResponse : описывает ответ при создании отправки
type CreateDeliveryResponse struct {
	Data CreateDeliveryData `json:"data"`
}

type CreateDeliveryData struct {
	Delivery DeliveryResponse `json:"delivery"`
}

// GetDeliveryResponse : описывает ответ для одной отправки
type GetDeliveryResponse struct {
	Data GetDeliveryData `json:"data"`
}

type GetDeliveryData struct {
	Delivery DeliveryResponse `json:"delivery,omitempty"`
}

// ListDeliveriesResponse : ответ API со списком отправок
type ListDeliveriesResponse struct {
	Data struct {
		Deliveries []DeliveryResponse `json:"deliveries"`
	} `json:"data"`
	Count int `json:"count" example:"10"`
}

// UpdateDeliveryRequest : тело запроса на перенос отправки.
// Отсутствующие поля остаются без изменений.
type UpdateDeliveryRequest struct {
	RecipientEmail *string `json:"recipient,omitempty" example:"other@example.com"`
	ScheduledAt    *string `json:"scheduled_at,omitempty" example:"2025-09-02T08:00:00Z"`
}

// DispatchRunResponse : сводка прогона диспетчера по запросу
type DispatchRunResponse struct {
	Data model.BatchResult `json:"data"`
}

// AccessResponse : ответ на обращение по токену доступа.
// ExpiresIn задается в секундах.
type AccessResponse struct {
	Data      AccessData `json:"data"`
	ExpiresIn string     `json:"expires_in,omitempty" example:"86400"`
}

type AccessData struct {
	FilenameOriginal string `json:"name" example:"report.pdf"`
	MimeType         string `json:"mime" example:"application/pdf"`
	SizeBytes        int64  `json:"size" example:"102400"`
	DownloadURL      string `json:"download_url"`
}

// WatchSnapshot : полный снимок списка отправок владельца,
// отправляется в websocket при каждом изменении
type WatchSnapshot struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
	Count      int                `json:"count"`
	At         string             `json:"at" example:"2025-08-23T12:34:56Z"`
}

// ResponseMessage : общий ответ для подтверждения действий
type ResponseMessage struct {
	Response map[string]interface{} `json:"response,omitempty"`
	Error    *ErrorResponse         `json:"error,omitempty"`
	Data     interface{}            `json:"data,omitempty"`
}
