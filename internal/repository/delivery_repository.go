package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"delivery-web-server/config"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type DeliveryRepository struct {
	*config.Database
}

func NewDeliveryRepository(database *config.Database) *DeliveryRepository {
	return &DeliveryRepository{database}
}

// Create : сохраняет новую отправку и возвращает строку с значениями по умолчанию из БД
func (r *DeliveryRepository) Create(ctx context.Context, exec sqlx.ExtContext, delivery *model.Delivery) (*model.Delivery, error) {
	query := `
		INSERT INTO deliveries (uuid, owner_uuid, filename_original, size_bytes, mime_type, storage_path,
		                        recipient_email, scheduled_at, access_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING uuid, owner_uuid, filename_original, size_bytes, mime_type, storage_path,
		          recipient_email, scheduled_at, access_token, status, last_error, created_at, updated_at, sent_at
	`

	created := &model.Delivery{}
	err := exec.QueryRowxContext(
		ctx,
		query,
		delivery.UUID,
		delivery.OwnerUUID,
		delivery.FilenameOriginal,
		delivery.SizeBytes,
		delivery.MimeType,
		delivery.StoragePath,
		delivery.RecipientEmail,
		delivery.ScheduledAt,
		delivery.AccessToken).StructScan(created)

	if err != nil {
		return nil, util.LogError("[DeliveryRepo] ошибка вставки данных в БД", err)
	}

	return created, nil
}

// GetByUUID : возвращает отправку, если пользователь её владелец
func (r *DeliveryRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, ownerUUID string) (*model.Delivery, error) {
	query := `
		SELECT uuid, owner_uuid, filename_original, size_bytes, mime_type, storage_path,
		       recipient_email, scheduled_at, access_token, status, last_error, created_at, updated_at, sent_at
		FROM deliveries
		WHERE uuid = $1 AND owner_uuid = $2
	`

	var delivery model.Delivery
	err := sqlx.GetContext(ctx, exec, &delivery, query, deliveryUUID, ownerUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, util.LogError("[DeliveryRepo] не удалось получить отправку", err)
	}

	return &delivery, nil
}

// GetByToken : ищет отправку по токену доступа. Неизвестный токен неотличим
// от некорректного, оба дают model.ErrNotFound.
func (r *DeliveryRepository) GetByToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.Delivery, error) {
	query := `
		SELECT uuid, owner_uuid, filename_original, size_bytes, mime_type, storage_path,
		       recipient_email, scheduled_at, access_token, status, last_error, created_at, updated_at, sent_at
		FROM deliveries
		WHERE access_token = $1
	`

	var delivery model.Delivery
	err := sqlx.GetContext(ctx, exec, &delivery, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, util.LogError("[DeliveryRepo] не удалось получить отправку по токену", err)
	}

	return &delivery, nil
}

// ListByOwner : выдаёт все отправки владельца, свежие первыми
func (r *DeliveryRepository) ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Delivery, error) {
	query := `
		SELECT uuid, owner_uuid, filename_original, size_bytes, mime_type, storage_path,
		       recipient_email, scheduled_at, access_token, status, last_error, created_at, updated_at, sent_at
		FROM deliveries
		WHERE owner_uuid = $1
		ORDER BY created_at DESC
	`

	deliveries := []model.Delivery{}
	rows, err := exec.QueryxContext(ctx, query, ownerUUID)
	if err != nil {
		return nil, util.LogError("[DeliveryRepo] не удалось получить список отправок", err)
	}
	defer rows.Close()

	for rows.Next() {
		var delivery model.Delivery
		if err := rows.StructScan(&delivery); err != nil {
			return nil, util.LogError("[DeliveryRepo] ошибка чтения строки", err)
		}
		deliveries = append(deliveries, delivery)
	}

	return deliveries, nil
}

// ListDue : записи, готовые к отправке на момент now.
// Отбираются только pending, failed в автоматическую выборку не попадают.
func (r *DeliveryRepository) ListDue(ctx context.Context, exec sqlx.ExtContext, now time.Time) ([]model.Delivery, error) {
	query := `
		SELECT uuid, owner_uuid, filename_original, size_bytes, mime_type, storage_path,
		       recipient_email, scheduled_at, access_token, status, last_error, created_at, updated_at, sent_at
		FROM deliveries
		WHERE status = 'pending' AND scheduled_at <= $1
		ORDER BY scheduled_at ASC
	`

	deliveries := []model.Delivery{}
	rows, err := exec.QueryxContext(ctx, query, now)
	if err != nil {
		return nil, util.LogError("[DeliveryRepo] не удалось получить готовые к отправке записи", err)
	}
	defer rows.Close()

	for rows.Next() {
		var delivery model.Delivery
		if err := rows.StructScan(&delivery); err != nil {
			return nil, util.LogError("[DeliveryRepo] ошибка чтения строки", err)
		}
		deliveries = append(deliveries, delivery)
	}

	return deliveries, nil
}

// UpdateSchedule : переносит отправку на другое время или адрес.
// Разрешено только пока запись в статусе pending.
func (r *DeliveryRepository) UpdateSchedule(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, ownerUUID string, recipientEmail string, scheduledAt time.Time) error {
	query := `
		UPDATE deliveries
		SET recipient_email = $3, scheduled_at = $4, updated_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2 AND status = 'pending'
	`

	result, err := exec.ExecContext(ctx, query, deliveryUUID, ownerUUID, recipientEmail, scheduledAt)
	if err != nil {
		return util.LogError("[DeliveryRepo] не удалось перенести отправку", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[DeliveryRepo] не удалось получить количество обновленных строк", err)
	}
	if rowsAffected == 0 {
		return model.ErrPreconditionFailed
	}

	return nil
}

// MarkSent : условный перевод в sent. Затрагивает строку только в статусе
// pending или failed, sent никогда не перезаписывается.
func (r *DeliveryRepository) MarkSent(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, sentAt time.Time) error {
	query := `
		UPDATE deliveries
		SET status = 'sent', sent_at = $2, last_error = NULL, updated_at = NOW()
		WHERE uuid = $1 AND status IN ('pending', 'failed')
	`

	result, err := exec.ExecContext(ctx, query, deliveryUUID, sentAt)
	if err != nil {
		return util.LogError("[DeliveryRepo] не удалось отметить отправку выполненной", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[DeliveryRepo] не удалось получить количество обновленных строк", err)
	}
	if rowsAffected == 0 {
		return model.ErrPreconditionFailed
	}

	return nil
}

// MarkFailed : условный перевод в failed с сохранением причины
func (r *DeliveryRepository) MarkFailed(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, reason string) error {
	query := `
		UPDATE deliveries
		SET status = 'failed', last_error = $2, updated_at = NOW()
		WHERE uuid = $1 AND status IN ('pending', 'failed')
	`

	result, err := exec.ExecContext(ctx, query, deliveryUUID, reason)
	if err != nil {
		return util.LogError("[DeliveryRepo] не удалось отметить отправку неудачной", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[DeliveryRepo] не удалось получить количество обновленных строк", err)
	}
	if rowsAffected == 0 {
		return model.ErrPreconditionFailed
	}

	return nil
}

// ResetToPending : возвращает неудачную отправку в очередь.
// Повтор разрешён только из статуса failed.
func (r *DeliveryRepository) ResetToPending(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, ownerUUID string) error {
	query := `
		UPDATE deliveries
		SET status = 'pending', last_error = NULL, updated_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2 AND status = 'failed'
	`

	result, err := exec.ExecContext(ctx, query, deliveryUUID, ownerUUID)
	if err != nil {
		return util.LogError("[DeliveryRepo] не удалось вернуть отправку в очередь", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[DeliveryRepo] не удалось получить количество обновленных строк", err)
	}
	if rowsAffected == 0 {
		return model.ErrPreconditionFailed
	}

	return nil
}

// Delete : удалить отправку может только владелец.
// Возвращает storage_path, чтобы сервис освободил файл в хранилище.
func (r *DeliveryRepository) Delete(ctx context.Context, exec sqlx.ExtContext, deliveryUUID string, ownerUUID string) (string, error) {
	query := `
		DELETE FROM deliveries
		WHERE uuid = $1 AND owner_uuid = $2
		RETURNING storage_path
	`

	var storagePath string
	err := sqlx.GetContext(ctx, exec, &storagePath, query, deliveryUUID, ownerUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNotFound
	}
	if err != nil {
		return "", util.LogError("[DeliveryRepo] не удалось удалить отправку", err)
	}

	return storagePath, nil
}

func (r *DeliveryRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}
