package ports

import (
	"context"

	"delivery-web-server/internal/model"
)

// CacheRepository : Redis слой. Ключом служит токен доступа,
// по нему читает горячий путь /access/{token}.
type CacheRepository interface {
	SetDelivery(ctx context.Context, delivery *model.Delivery) error
	GetDeliveryByToken(ctx context.Context, token string) (*model.Delivery, error)
	DeleteDelivery(ctx context.Context, token string) error
}
