package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"delivery-web-server/config"
	"delivery-web-server/internal/metrics"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DispatchService за один прогон находит готовые к отправке записи,
// рассылает письма и сводит статусы к sent/failed. Конкурентные прогоны,
// в том числе из других экземпляров сервиса, безопасны: статус меняется
// условным UPDATE, проигравший процесс пропускает запись без ошибки.
// Отправка письма и запись статуса не атомарны: при сбое между ними запись
// остаётся pending и письмо может уйти повторно (at-least-once доставка).
type DispatchService struct {
	database           *config.Database
	deliveryRepository ports.DeliveryRepository
	cacheRepository    ports.CacheRepository
	mailSender         ports.MailSender
	notifier           ports.ChangeNotifier
	logger             *zap.Logger

	publicBaseURL string
	workers       int
	limiter       *rate.Limiter

	now func() time.Time
}

func NewDispatchService(
	database *config.Database,
	deliveryRepository ports.DeliveryRepository,
	cacheRepository ports.CacheRepository,
	mailSender ports.MailSender,
	notifier ports.ChangeNotifier,
	cfg *config.DispatchConfig,
	publicBaseURL string,
	logger *zap.Logger,
) *DispatchService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	ratePerSecond := cfg.RatePerSecond
	if ratePerSecond <= 0 {
		ratePerSecond = 10
	}

	return &DispatchService{
		database:           database,
		deliveryRepository: deliveryRepository,
		cacheRepository:    cacheRepository,
		mailSender:         mailSender,
		notifier:           notifier,
		logger:             logger,
		publicBaseURL:      strings.TrimRight(publicBaseURL, "/"),
		workers:            workers,
		limiter:            rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
		now:                time.Now,
	}
}

// RunOnce : один прогон диспетчера. Неудача отдельной записи не прерывает
// прогон и попадает в сводку, ошибкой метода считается только недоступность БД.
func (s *DispatchService) RunOnce(ctx context.Context) (*model.BatchResult, error) {
	started := s.now()
	metrics.DispatchRunsTotal.Inc()

	due, err := s.deliveryRepository.ListDue(ctx, s.database, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("[DispatchService] не удалось получить готовые записи: %w", err)
	}

	result := &model.BatchResult{Details: []model.DispatchDetail{}}
	if len(due) == 0 {
		// пустой прогон дешёвый: почтовый транспорт не трогаем
		metrics.DispatchDuration.Observe(s.now().Sub(started).Seconds())
		return result, nil
	}

	s.logger.Info("запуск прогона диспетчера", zap.Int("due", len(due)))

	details := make([]model.DispatchDetail, len(due))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)

	for i := range due {
		i := i
		group.Go(func() error {
			details[i] = s.processDelivery(groupCtx, &due[i])
			return nil
		})
	}

	// группа используется как ограниченный пул, ошибок изнутри не приходит
	_ = group.Wait()

	result.Processed = len(details)
	result.Details = details
	for _, detail := range details {
		if detail.Success {
			result.Success++
		} else {
			result.Failed++
		}
	}

	metrics.DispatchDuration.Observe(s.now().Sub(started).Seconds())
	s.logger.Info("прогон диспетчера завершен",
		zap.Int("processed", result.Processed),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
		zap.Duration("took", s.now().Sub(started)))

	return result, nil
}

// processDelivery : обработка одной записи. Письмо отправляется не более
// одного раза за прогон, итог фиксируется условным UPDATE.
func (s *DispatchService) processDelivery(ctx context.Context, delivery *model.Delivery) model.DispatchDetail {
	detail := model.DispatchDetail{UUID: delivery.UUID}

	if err := s.limiter.Wait(ctx); err != nil {
		// запись осталась pending, её подберет следующий прогон
		detail.Error = fmt.Sprintf("прогон прерван: %v", err)
		return detail
	}

	accessURL := fmt.Sprintf("%s/access/%s", s.publicBaseURL, delivery.AccessToken)

	sendErr := s.mailSender.SendDeliveryLink(ctx, delivery.RecipientEmail, delivery.FilenameOriginal, accessURL)
	if sendErr != nil {
		metrics.EmailsFailedTotal.Inc()
		s.logger.Warn("письмо не отправлено",
			zap.String("uuid", delivery.UUID),
			zap.Error(sendErr))

		if err := s.deliveryRepository.MarkFailed(ctx, s.database, delivery.UUID, sendErr.Error()); err != nil {
			if errors.Is(err, model.ErrPreconditionFailed) {
				// запись уже увел другой процесс, для нас она обработана
				detail.Success = true
				return detail
			}
			detail.Error = fmt.Sprintf("письмо не отправлено: %v, статус не записан: %v", sendErr, err)
			return detail
		}

		s.afterStatusChange(ctx, delivery)
		detail.Error = sendErr.Error()
		return detail
	}

	metrics.EmailsSentTotal.Inc()

	if err := s.deliveryRepository.MarkSent(ctx, s.database, delivery.UUID, s.now().UTC()); err != nil {
		if errors.Is(err, model.ErrPreconditionFailed) {
			// конкурентный прогон успел первым, это не ошибка
			detail.Success = true
			return detail
		}

		// письмо ушло, а статус не записался. Фиксируем аномалию в сводке:
		// запись осталась pending, следующий прогон перечитает её из БД
		s.logger.Error("письмо отправлено, но статус не обновлен",
			zap.String("uuid", delivery.UUID),
			zap.Error(err))
		detail.Success = true
		detail.Error = fmt.Sprintf("письмо отправлено, статус не обновлен: %v", err)
		return detail
	}

	s.afterStatusChange(ctx, delivery)
	detail.Success = true
	return detail
}

// afterStatusChange : сброс кэша и сигнал наблюдателям, оба шага необязательные
func (s *DispatchService) afterStatusChange(ctx context.Context, delivery *model.Delivery) {
	if err := s.cacheRepository.DeleteDelivery(ctx, delivery.AccessToken); err != nil {
		s.logger.Warn("не удалось сбросить кэш отправки",
			zap.String("uuid", delivery.UUID),
			zap.Error(err))
	}

	event := model.ChangeEvent{
		Type:      model.ChangeStatusChanged,
		UUID:      delivery.UUID,
		OwnerUUID: delivery.OwnerUUID,
		At:        s.now().UTC(),
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logger.Warn("не удалось опубликовать событие изменения",
			zap.String("uuid", delivery.UUID),
			zap.Error(err))
	}
}
