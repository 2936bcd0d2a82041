package ports

import (
	"context"

	"delivery-web-server/internal/model"
)

// ChangeNotifier : канал сигналов об изменениях отправок.
// Publish рассылает событие всем экземплярам сервиса,
// Subscribe регистрирует локального подписчика и возвращает функцию отписки.
type ChangeNotifier interface {
	Publish(ctx context.Context, event model.ChangeEvent) error
	Subscribe(fn func(model.ChangeEvent)) func()
}
