package client

import (
	"context"

	"delivery-web-server/internal/model"

	"go.uber.org/zap"
)

// ListFunc : чтение полного списка отправок владельца
type ListFunc func(ctx context.Context) ([]model.Delivery, error)

// Watcher : сверяет локальный снимок отправок владельца с хранилищем.
// Любое уведомление трактуется только как сигнал перечитать список,
// данные из события к снимку напрямую не применяются: поля события
// могут быть устаревшими относительно параллельной записи диспетчера.
type Watcher struct {
	list   ListFunc
	logger *zap.Logger

	wake    chan struct{}
	updates chan []model.Delivery
}

func NewWatcher(list ListFunc, logger *zap.Logger) *Watcher {
	return &Watcher{
		list:    list,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		updates: make(chan []model.Delivery, 1),
	}
}

// Notify : сигнал перечитать состояние. Не блокируется, повторные
// сигналы до очередной сверки схлопываются в один.
func (w *Watcher) Notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Updates : канал свежих снимков. Если потребитель не успевает,
// устаревший снимок вытесняется более новым.
func (w *Watcher) Updates() <-chan []model.Delivery {
	return w.updates
}

// Run : начальная сверка и цикл перечитывания, блокируется до отмены контекста
func (w *Watcher) Run(ctx context.Context) {
	w.reconcile(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
			w.reconcile(ctx)
		}
	}
}

func (w *Watcher) reconcile(ctx context.Context) {
	deliveries, err := w.list(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Warn("не удалось перечитать список отправок", zap.Error(err))
		return
	}

	select {
	case <-w.updates:
	default:
	}

	w.updates <- deliveries
}
