package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"delivery-web-server/config"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/util"

	"github.com/redis/go-redis/v9"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetDelivery(ctx context.Context, delivery *model.Delivery) error {
	data, err := json.Marshal(delivery)
	if err != nil {
		return util.LogError("ошибка сериализации отправки", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(delivery.AccessToken), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *CacheRepository) GetDeliveryByToken(ctx context.Context, token string) (*model.Delivery, error) {
	val, err := r.client.Client.Get(ctx, r.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения отправки из Redis", err)
	}

	var delivery model.Delivery
	if err := json.Unmarshal([]byte(val), &delivery); err != nil {
		return nil, util.LogError("ошибка десериализации отправки из кэша", err)
	}
	return &delivery, nil
}

func (r *CacheRepository) DeleteDelivery(ctx context.Context, token string) error {
	if err := r.client.Client.Del(ctx, r.key(token)).Err(); err != nil {
		return util.LogError("ошибка удаления отправки из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(token string) string {
	return fmt.Sprintf("delivery:token:%s", token)
}
