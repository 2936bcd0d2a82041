package model

import "time"

// Статусы жизненного цикла отправки.
// Разрешённые переходы: pending -> sent, pending -> failed, failed -> pending (повтор вручную).
// Статус sent терминальный.
const (
	DeliveryStatusPending = "pending"
	DeliveryStatusSent    = "sent"
	DeliveryStatusFailed  = "failed"
)

type Delivery struct {
	UUID             string     `db:"uuid" json:"uuid"`
	OwnerUUID        string     `db:"owner_uuid" json:"owner_uuid"`
	FilenameOriginal string     `db:"filename_original" json:"filename_original"`
	SizeBytes        int64      `db:"size_bytes" json:"size_bytes"`
	MimeType         string     `db:"mime_type" json:"mime_type"`
	StoragePath      string     `db:"storage_path" json:"storage_path"`
	RecipientEmail   string     `db:"recipient_email" json:"recipient_email"`
	ScheduledAt      time.Time  `db:"scheduled_at" json:"scheduled_at"`
	AccessToken      string     `db:"access_token" json:"access_token"`
	Status           string     `db:"status" json:"status"`
	LastError        *string    `db:"last_error" json:"last_error,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
	SentAt           *time.Time `db:"sent_at" json:"sent_at,omitempty"`
}

type AccessResult struct {
	Delivery    *Delivery
	DownloadURL string // временная pre-signed ссылка на скачивание
}

// Типы событий канала уведомлений об изменениях
const (
	ChangeCreated       = "created"
	ChangeUpdated       = "updated"
	ChangeDeleted       = "deleted"
	ChangeStatusChanged = "status_changed"
)

// ChangeEvent : сигнал об изменении отправки. Полезная нагрузка носит
// уведомительный характер: подписчики перечитывают состояние из БД,
// а не применяют событие к своей копии.
type ChangeEvent struct {
	Type      string    `json:"type"`
	UUID      string    `json:"uuid,omitempty"`
	OwnerUUID string    `json:"owner_uuid,omitempty"`
	At        time.Time `json:"at"`
}
