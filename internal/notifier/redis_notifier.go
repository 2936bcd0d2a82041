package notifier

import (
	"context"
	"encoding/json"
	"sync"

	"delivery-web-server/config"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/util"

	"go.uber.org/zap"
)

// RedisNotifier рассылает сигналы об изменениях отправок через Redis pub/sub
// и раздаёт принятые события локальным подписчикам. Потеря события не
// критична: периодический прогон диспетчера всё равно подберёт запись,
// а наблюдатели перечитывают состояние из БД целиком.
type RedisNotifier struct {
	client  *config.RedisClient
	channel string
	logger  *zap.Logger

	mu          sync.Mutex
	subscribers map[int]func(model.ChangeEvent)
	nextID      int
}

func NewRedisNotifier(client *config.RedisClient, channel string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:      client,
		channel:     channel,
		logger:      logger,
		subscribers: make(map[int]func(model.ChangeEvent)),
	}
}

// Publish : отправляет событие всем экземплярам сервиса
func (n *RedisNotifier) Publish(ctx context.Context, event model.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return util.LogError("[Notifier] ошибка сериализации события", err)
	}

	if err := n.client.Client.Publish(ctx, n.channel, data).Err(); err != nil {
		return util.LogError("[Notifier] ошибка публикации события", err)
	}

	return nil
}

// Subscribe : регистрирует локального подписчика, возвращает функцию отписки
func (n *RedisNotifier) Subscribe(fn func(model.ChangeEvent)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subscribers[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subscribers, id)
	}
}

// Start : запускает цикл приёма событий из Redis. Блокирует до отмены ctx.
func (n *RedisNotifier) Start(ctx context.Context) {
	pubsub := n.client.Client.Subscribe(ctx, n.channel)
	defer pubsub.Close()

	n.logger.Info("подписка на канал изменений запущена", zap.String("channel", n.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			n.logger.Info("подписка на канал изменений остановлена")
			return
		case msg, ok := <-ch:
			if ok == false {
				return
			}

			var event model.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				// событие сигнальное, битое сообщение пропускаем
				n.logger.Warn("не удалось разобрать событие из канала", zap.Error(err))
				continue
			}

			n.dispatch(event)
		}
	}
}

func (n *RedisNotifier) dispatch(event model.ChangeEvent) {
	n.mu.Lock()
	subscribers := make([]func(model.ChangeEvent), 0, len(n.subscribers))
	for _, fn := range n.subscribers {
		subscribers = append(subscribers, fn)
	}
	n.mu.Unlock()

	for _, fn := range subscribers {
		fn(event)
	}
}
