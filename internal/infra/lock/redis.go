package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/DC-BookingService/internal/config"
)

// ErrLockHeld возвращается, когда слот уже захвачен другим запросом
var ErrLockHeld = errors.New("lock: slot is locked by another request")

// releaseScript удаляет ключ только если значение совпадает с токеном владельца
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewRedisClient создает клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  time.Duration(cfg.DialTimeout) * time.Millisecond,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
	})
}

// SlotLocker advisory-блокировка слота (священник, дата, слот) в Redis.
// Гарантию единственности дает уникальный индекс в PostgreSQL, блокировка лишь
// отсекает параллельные попытки до обращения к БД.
type SlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotLocker(client *redis.Client, ttl time.Duration) *SlotLocker {
	return &SlotLocker{client: client, ttl: ttl}
}

// SlotKey ключ блокировки слота
func SlotKey(priestID uuid.UUID, date, timeSlot string) string {
	return fmt.Sprintf("slot:%s:%s:%s", priestID, date, timeSlot)
}

// Acquire захватывает слот. Возвращает функцию освобождения, которая снимает
// блокировку только если она все еще принадлежит этому вызову.
func (l *SlotLocker) Acquire(ctx context.Context, priestID uuid.UUID, date, timeSlot string) (func(), error) {
	key := SlotKey(priestID, date, timeSlot)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lock: acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func() {
		// Контекст запроса может быть уже отменен, освобождаем с собственным таймаутом
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}

	return release, nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
