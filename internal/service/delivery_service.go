package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"path/filepath"
	"time"

	"delivery-web-server/config"
	"delivery-web-server/internal/metrics"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/ports"
	"delivery-web-server/internal/util"

	"github.com/google/uuid"
)

const accessTokenLength = 32

type DeliveryService struct {
	database           *config.Database
	deliveryRepository ports.DeliveryRepository
	cacheRepository    ports.CacheRepository
	storageInterface   ports.S3Storage
	notifier           ports.ChangeNotifier
	trigger            ports.TriggerCoordinator
	linkTTL            time.Duration
	now                func() time.Time
}

func NewDeliveryService(
	database *config.Database,
	deliveryRepository ports.DeliveryRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	notifier ports.ChangeNotifier,
	trigger ports.TriggerCoordinator,
	linkTTL time.Duration,
) *DeliveryService {
	return &DeliveryService{
		database:           database,
		deliveryRepository: deliveryRepository,
		cacheRepository:    cacheRepository,
		storageInterface:   storageInterface,
		notifier:           notifier,
		trigger:            trigger,
		linkTTL:            linkTTL,
		now:                time.Now,
	}
}

// Schedule : принимает файл, сохраняет его в хранилище и ставит отправку в очередь.
// Время отправки приводится к UTC, токен доступа подбирается в той же
// транзакции, что и вставка записи.
func (s *DeliveryService) Schedule(ctx context.Context, delivery *model.Delivery, content io.Reader) (*model.Delivery, error) {
	if delivery.OwnerUUID == "" {
		return nil, fmt.Errorf("[DeliveryService] владелец не определен: %w", model.ErrAuthRequired)
	}
	if _, err := mail.ParseAddress(delivery.RecipientEmail); err != nil {
		return nil, fmt.Errorf("[DeliveryService] некорректный адрес получателя: %w", model.ErrValidation)
	}
	if delivery.FilenameOriginal == "" {
		return nil, fmt.Errorf("[DeliveryService] имя файла не задано: %w", model.ErrValidation)
	}
	if delivery.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("[DeliveryService] время отправки не задано: %w", model.ErrValidation)
	}

	delivery.UUID = uuid.New().String()
	delivery.ScheduledAt = delivery.ScheduledAt.UTC()
	delivery.StoragePath = fmt.Sprintf("users/%s/deliveries/%s%s",
		delivery.OwnerUUID, delivery.UUID, filepath.Ext(delivery.FilenameOriginal))

	if err := s.storageInterface.UploadObject(ctx, delivery.StoragePath, content, delivery.SizeBytes, delivery.MimeType); err != nil {
		return nil, fmt.Errorf("[DeliveryService] не удалось сохранить файл: %v: %w", err, model.ErrTransport)
	}

	exec, rollback, commit, err := s.deliveryRepository.BeginTX(ctx)
	if err != nil {
		s.removeObjectQuietly(ctx, delivery.StoragePath)
		return nil, util.LogError("[DeliveryService] не удалось начать транзакцию", err)
	}
	defer rollback()

	token, err := util.GenerateUniqueToken(ctx, exec, accessTokenLength)
	if err != nil {
		s.removeObjectQuietly(ctx, delivery.StoragePath)
		return nil, util.LogError("[DeliveryService] не удалось подобрать токен доступа", err)
	}
	delivery.AccessToken = token

	created, err := s.deliveryRepository.Create(ctx, exec, delivery)
	if err != nil {
		s.removeObjectQuietly(ctx, delivery.StoragePath)
		return nil, util.LogError("[DeliveryService] не удалось сохранить отправку в БД", err)
	}

	if err := commit(); err != nil {
		s.removeObjectQuietly(ctx, delivery.StoragePath)
		return nil, util.LogError("[DeliveryService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[DeliveryService] отправка %s запланирована на %s",
		created.UUID, created.ScheduledAt.Format(time.RFC3339))

	s.publishChange(ctx, model.ChangeCreated, created)

	// запись со временем в прошлом должна уйти сразу, не дожидаясь таймера
	if created.ScheduledAt.After(s.now().UTC()) == false {
		s.kickDispatch()
	}

	return created, nil
}

// GetDelivery : возвращает отправку владельцу
func (s *DeliveryService) GetDelivery(ctx context.Context, deliveryUUID string, ownerUUID string) (*model.Delivery, error) {
	if ownerUUID == "" {
		return nil, fmt.Errorf("[DeliveryService] владелец не определен: %w", model.ErrAuthRequired)
	}

	delivery, err := s.deliveryRepository.GetByUUID(ctx, s.database, deliveryUUID, ownerUUID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, util.LogError("[DeliveryService] не удалось получить отправку", err)
	}

	return delivery, nil
}

// ListDeliveries : все отправки владельца, свежие первыми
func (s *DeliveryService) ListDeliveries(ctx context.Context, ownerUUID string) ([]model.Delivery, error) {
	if ownerUUID == "" {
		return nil, fmt.Errorf("[DeliveryService] владелец не определен: %w", model.ErrAuthRequired)
	}

	deliveries, err := s.deliveryRepository.ListByOwner(ctx, s.database, ownerUUID)
	if err != nil {
		return nil, util.LogError("[DeliveryService] не удалось получить список отправок", err)
	}

	return deliveries, nil
}

// Reschedule : переносит отправку на другое время или получателя.
// Разрешено только пока запись в статусе pending.
func (s *DeliveryService) Reschedule(ctx context.Context, deliveryUUID string, ownerUUID string, recipientEmail *string, scheduledAt *time.Time) (*model.Delivery, error) {
	if ownerUUID == "" {
		return nil, fmt.Errorf("[DeliveryService] владелец не определен: %w", model.ErrAuthRequired)
	}
	if recipientEmail == nil && scheduledAt == nil {
		return nil, fmt.Errorf("[DeliveryService] нет полей для обновления: %w", model.ErrValidation)
	}

	exec, rollback, commit, err := s.deliveryRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[DeliveryService] не удалось начать транзакцию", err)
	}
	defer rollback()

	delivery, err := s.deliveryRepository.GetByUUID(ctx, exec, deliveryUUID, ownerUUID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, util.LogError("[DeliveryService] не удалось получить отправку", err)
	}

	newRecipient := delivery.RecipientEmail
	if recipientEmail != nil {
		if _, err := mail.ParseAddress(*recipientEmail); err != nil {
			return nil, fmt.Errorf("[DeliveryService] некорректный адрес получателя: %w", model.ErrValidation)
		}
		newRecipient = *recipientEmail
	}

	newScheduledAt := delivery.ScheduledAt
	if scheduledAt != nil {
		newScheduledAt = scheduledAt.UTC()
	}

	if err := s.deliveryRepository.UpdateSchedule(ctx, exec, deliveryUUID, ownerUUID, newRecipient, newScheduledAt); err != nil {
		if errors.Is(err, model.ErrPreconditionFailed) {
			return nil, fmt.Errorf("[DeliveryService] перенос возможен только для ожидающих отправок: %w", model.ErrPreconditionFailed)
		}
		return nil, util.LogError("[DeliveryService] не удалось перенести отправку", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[DeliveryService] не удалось закоммитить транзакцию", err)
	}

	delivery.RecipientEmail = newRecipient
	delivery.ScheduledAt = newScheduledAt

	if err := s.cacheRepository.DeleteDelivery(ctx, delivery.AccessToken); err != nil {
		fmt.Printf("[DeliveryService] ошибка удаления отправки из кэша: %v\n", err)
	}

	s.publishChange(ctx, model.ChangeUpdated, delivery)

	if newScheduledAt.After(s.now().UTC()) == false {
		s.kickDispatch()
	}

	return delivery, nil
}

// Cancel : удаляет отправку и освобождает файл в хранилище.
// Ошибка удаления файла не фатальна, запись к этому моменту уже удалена.
func (s *DeliveryService) Cancel(ctx context.Context, deliveryUUID string, ownerUUID string) error {
	if ownerUUID == "" {
		return fmt.Errorf("[DeliveryService] владелец не определен: %w", model.ErrAuthRequired)
	}

	exec, rollback, commit, err := s.deliveryRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[DeliveryService] не удалось начать транзакцию", err)
	}
	defer rollback()

	delivery, err := s.deliveryRepository.GetByUUID(ctx, exec, deliveryUUID, ownerUUID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return util.LogError("[DeliveryService] не удалось получить отправку", err)
	}

	storagePath, err := s.deliveryRepository.Delete(ctx, exec, deliveryUUID, ownerUUID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return util.LogError("[DeliveryService] не удалось удалить отправку", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[DeliveryService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteDelivery(ctx, delivery.AccessToken); err != nil {
		fmt.Printf("[DeliveryService] ошибка удаления отправки из кэша: %v\n", err)
	}

	if err := s.storageInterface.DeleteObject(ctx, storagePath); err != nil {
		fmt.Printf("[DeliveryService] не удалось удалить файл из хранилища: %v\n", err)
	}

	log.Printf("[DeliveryService] отправка %s удалена", deliveryUUID)

	s.publishChange(ctx, model.ChangeDeleted, delivery)

	return nil
}

// Retry : возвращает неудачную отправку в очередь и сразу запускает диспетчер.
// Повтор разрешен только из статуса failed, успешные отправки не дублируются.
func (s *DeliveryService) Retry(ctx context.Context, deliveryUUID string, ownerUUID string) (*model.Delivery, error) {
	if ownerUUID == "" {
		return nil, fmt.Errorf("[DeliveryService] владелец не определен: %w", model.ErrAuthRequired)
	}

	exec, rollback, commit, err := s.deliveryRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[DeliveryService] не удалось начать транзакцию", err)
	}
	defer rollback()

	delivery, err := s.deliveryRepository.GetByUUID(ctx, exec, deliveryUUID, ownerUUID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, util.LogError("[DeliveryService] не удалось получить отправку", err)
	}

	if err := s.deliveryRepository.ResetToPending(ctx, exec, deliveryUUID, ownerUUID); err != nil {
		if errors.Is(err, model.ErrPreconditionFailed) {
			return nil, fmt.Errorf("[DeliveryService] повтор возможен только для неудачных отправок: %w", model.ErrPreconditionFailed)
		}
		return nil, util.LogError("[DeliveryService] не удалось вернуть отправку в очередь", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[DeliveryService] не удалось закоммитить транзакцию", err)
	}

	delivery.Status = model.DeliveryStatusPending
	delivery.LastError = nil

	if err := s.cacheRepository.DeleteDelivery(ctx, delivery.AccessToken); err != nil {
		fmt.Printf("[DeliveryService] ошибка удаления отправки из кэша: %v\n", err)
	}

	log.Printf("[DeliveryService] отправка %s возвращена в очередь", deliveryUUID)

	s.publishChange(ctx, model.ChangeUpdated, delivery)
	s.kickDispatch()

	return delivery, nil
}

// ResolveByToken : публичное обращение по токену доступа. Неизвестный и
// некорректный токены для вызывающего неразличимы. Первое обращение
// фиксирует sent условным UPDATE, но ссылку получатель получает даже
// если статус записать не удалось.
func (s *DeliveryService) ResolveByToken(ctx context.Context, token string) (*model.AccessResult, error) {
	if token == "" {
		metrics.AccessResolutionsTotal.WithLabelValues("not_found").Inc()
		return nil, model.ErrNotFound
	}

	delivery, err := s.cacheRepository.GetDeliveryByToken(ctx, token)
	if err != nil {
		log.Printf("[DeliveryService] ошибка чтения кэша: %v", err)
	}

	if delivery == nil {
		delivery, err = s.deliveryRepository.GetByToken(ctx, s.database, token)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				metrics.AccessResolutionsTotal.WithLabelValues("not_found").Inc()
				return nil, model.ErrNotFound
			}
			metrics.AccessResolutionsTotal.WithLabelValues("error").Inc()
			return nil, util.LogError("[DeliveryService] не удалось получить отправку по токену", err)
		}

		if err := s.cacheRepository.SetDelivery(ctx, delivery); err != nil {
			fmt.Printf("[DeliveryService] ошибка кэширования отправки: %v\n", err)
		}

		log.Printf("[DeliveryService] отправка %s взята из БД и кэширована в Redis", delivery.UUID)
	} else {
		log.Printf("[DeliveryService] отправка %s взята из кэша Redis", delivery.UUID)
	}

	if delivery.Status == model.DeliveryStatusPending {
		// первое обращение получателя: письмо дошло, фиксируем sent
		now := s.now().UTC()
		if err := s.deliveryRepository.MarkSent(ctx, s.database, delivery.UUID, now); err != nil {
			if errors.Is(err, model.ErrPreconditionFailed) {
				// в кэше лежала устаревшая копия, статус уже изменен другим процессом
				if err := s.cacheRepository.DeleteDelivery(ctx, token); err != nil {
					fmt.Printf("[DeliveryService] ошибка удаления отправки из кэша: %v\n", err)
				}
			} else {
				log.Printf("[DeliveryService] не удалось зафиксировать доступ по ссылке: %v", err)
			}
		} else {
			delivery.Status = model.DeliveryStatusSent
			delivery.SentAt = &now

			if err := s.cacheRepository.DeleteDelivery(ctx, token); err != nil {
				fmt.Printf("[DeliveryService] ошибка удаления отправки из кэша: %v\n", err)
			}

			s.publishChange(ctx, model.ChangeStatusChanged, delivery)
		}
	}

	downloadURL, err := s.storageInterface.GeneratePresignedGetURL(ctx, delivery.StoragePath, s.linkTTL)
	if err != nil {
		metrics.AccessResolutionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("[DeliveryService] не удалось сгенерировать ссылку: %v: %w", err, model.ErrTransport)
	}

	metrics.AccessResolutionsTotal.WithLabelValues("ok").Inc()

	return &model.AccessResult{
		Delivery:    delivery,
		DownloadURL: downloadURL,
	}, nil
}

// kickDispatch : разовый запуск диспетчера, ошибки не влияют на основной путь
func (s *DeliveryService) kickDispatch() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := s.trigger.RunDispatch(ctx); err != nil {
			log.Printf("[DeliveryService] немедленный запуск диспетчера не удался: %v", err)
		}
	}()
}

func (s *DeliveryService) publishChange(ctx context.Context, changeType string, delivery *model.Delivery) {
	event := model.ChangeEvent{
		Type:      changeType,
		UUID:      delivery.UUID,
		OwnerUUID: delivery.OwnerUUID,
		At:        s.now().UTC(),
	}

	if err := s.notifier.Publish(ctx, event); err != nil {
		fmt.Printf("[DeliveryService] ошибка публикации события: %v\n", err)
	}
}

func (s *DeliveryService) removeObjectQuietly(ctx context.Context, storagePath string) {
	if err := s.storageInterface.DeleteObject(ctx, storagePath); err != nil {
		fmt.Printf("[DeliveryService] не удалось удалить осиротевший файл %s: %v\n", storagePath, err)
	}
}
