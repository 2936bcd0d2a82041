package ports

import (
	"context"
	"io"
	"time"

	"delivery-web-server/internal/model"

	"github.com/jmoiron/sqlx"
)

// DeliveryRepository : SQL слой.
// Методы смены статуса условные: они затрагивают строку только в ожидаемом
// исходном статусе и возвращают model.ErrPreconditionFailed, если строка уже
// изменена конкурентным процессом.
type DeliveryRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, delivery *model.Delivery) (*model.Delivery, error)
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, ownerUUID string) (*model.Delivery, error)
	GetByToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.Delivery, error)
	ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Delivery, error)
	ListDue(ctx context.Context, exec sqlx.ExtContext, now time.Time) ([]model.Delivery, error)
	UpdateSchedule(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, ownerUUID string, recipientEmail string, scheduledAt time.Time) error
	MarkSent(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, sentAt time.Time) error
	MarkFailed(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, reason string) error
	ResetToPending(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, ownerUUID string) error
	Delete(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, ownerUUID string) (string, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

type DeliveryService interface {
	Schedule(ctx context.Context, delivery *model.Delivery, content io.Reader) (*model.Delivery, error)
	GetDelivery(ctx context.Context, deliveryUUID string, ownerUUID string) (*model.Delivery, error)
	ListDeliveries(ctx context.Context, ownerUUID string) ([]model.Delivery, error)
	Reschedule(ctx context.Context, deliveryUUID string, ownerUUID string, recipientEmail *string, scheduledAt *time.Time) (*model.Delivery, error)
	Cancel(ctx context.Context, deliveryUUID string, ownerUUID string) error
	Retry(ctx context.Context, deliveryUUID string, ownerUUID string) (*model.Delivery, error)
	ResolveByToken(ctx context.Context, token string) (*model.AccessResult, error)
}
