package handler

import (
	"context"
	"net/http"
	"time"

	"delivery-web-server/internal/client"
	"delivery-web-server/internal/model"
	requestresponse "delivery-web-server/internal/model/requestresponse"
	"delivery-web-server/internal/ports"
	"delivery-web-server/internal/security"
	"delivery-web-server/internal/util"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

const watchWriteTimeout = 10 * time.Second

type WatchHandler struct {
	deliveryService ports.DeliveryService
	trigger         ports.TriggerCoordinator
	notifier        ports.ChangeNotifier
	logger          *zap.Logger
}

func NewWatchHandler(
	deliveryService ports.DeliveryService,
	trigger ports.TriggerCoordinator,
	notifier ports.ChangeNotifier,
	logger *zap.Logger,
) *WatchHandler {
	return &WatchHandler{
		deliveryService: deliveryService,
		trigger:         trigger,
		notifier:        notifier,
		logger:          logger,
	}
}

// WatchDeliveries godoc
// @Summary Живой список отправок по websocket
// @Description Открывает websocket и шлет полный снимок списка после каждого прогона диспетчера или изменения записи.
// Снимок каждый раз перечитывается из БД целиком, данные из событий не используются. Фильтры q, status и tab применяются к каждому снимку.
// @Tags Deliveries
// @Param q query string false "Подстрока для поиска по имени файла или получателю"
// @Param status query string false "Статусы через запятую: pending,sent,failed"
// @Param tab query string false "Вкладка: all, upcoming или history" default(all)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 101 "Соединение переключено на websocket"
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/deliveries/watch [get]
func (h *WatchHandler) WatchDeliveries(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	query, statuses, tab := filterParams(r)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Warn("не удалось установить websocket-соединение", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "внутренняя ошибка")

	// клиент ничего не присылает, чтение нужно только для обнаружения закрытия
	ctx := conn.CloseRead(r.Context())

	ownerUUID := claims.UserUUID
	watcher := client.NewWatcher(func(ctx context.Context) ([]model.Delivery, error) {
		return h.deliveryService.ListDeliveries(ctx, ownerUUID)
	}, h.logger)

	unsubscribeRuns := h.trigger.Subscribe(func(model.BatchResult) {
		watcher.Notify()
	})
	defer unsubscribeRuns()

	unsubscribeChanges := h.notifier.Subscribe(func(event model.ChangeEvent) {
		if event.OwnerUUID == "" || event.OwnerUUID == ownerUUID {
			watcher.Notify()
		}
	})
	defer unsubscribeChanges()

	go watcher.Run(ctx)

	h.logger.Info("открыт websocket списка отправок", zap.String("owner", ownerUUID))

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case deliveries := <-watcher.Updates():
			filtered := client.Filter(deliveries, query, statuses, tab)

			snapshot := requestresponse.WatchSnapshot{
				Deliveries: make([]requestresponse.DeliveryResponse, 0, len(filtered)),
				Count:      len(filtered),
				At:         time.Now().UTC().Format(time.RFC3339),
			}
			for i := range filtered {
				snapshot.Deliveries = append(snapshot.Deliveries,
					requestresponse.DeliveryResponseFromModel(&filtered[i], ""))
			}

			writeCtx, cancel := context.WithTimeout(ctx, watchWriteTimeout)
			err := wsjson.Write(writeCtx, conn, snapshot)
			cancel()
			if err != nil {
				if ctx.Err() == nil {
					h.logger.Warn("не удалось отправить снимок в websocket", zap.Error(err))
				}
				return
			}
		}
	}
}
