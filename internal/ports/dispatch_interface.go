package ports

import (
	"context"

	"delivery-web-server/internal/model"
)

// Dispatcher : один прогон обработки готовых к отправке записей
type Dispatcher interface {
	RunOnce(ctx context.Context) (*model.BatchResult, error)
}

// TriggerCoordinator : единая точка запуска диспетчера.
// Совмещает ручные запуски, сигналы об изменениях и периодический таймер,
// конкурентные вызовы схлопываются в один прогон.
type TriggerCoordinator interface {
	RunDispatch(ctx context.Context) (*model.BatchResult, error)
	NotifyChange()
	Subscribe(fn func(model.BatchResult)) func()
}
