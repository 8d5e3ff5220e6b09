package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/pkg/config"
)

var _ inventory.ItemLocker = (*RedisLocker)(nil)

const (
	redisKeyPrefix  = "lock:fni_item:"
	redisRetryDelay = 50 * time.Millisecond
)

// RedisLocker exclusión por ítem entre réplicas de la API.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisLocker construye el locker. ttl acota cuánto puede retenerse un ítem si el proceso muere.
func NewRedisLocker(rdb redislock.RedisClient, ttl time.Duration, log zerolog.Logger) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl, log: log}
}

// Lock reintenta hasta ttl; si otro escritor sigue reteniendo el ítem devuelve ErrConflict.
func (l *RedisLocker) Lock(ctx context.Context, itemID string) (func(), error) {
	retries := int(l.ttl / redisRetryDelay)
	lk, err := l.client.Obtain(ctx, redisKeyPrefix+itemID, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(redisRetryDelay), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("ítem %s bloqueado por otro escritor: %w", itemID, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain redis lock: %w", err)
	}

	return func() {
		// contexto propio: la liberación debe ocurrir aunque ctx ya esté cancelado
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lk.Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("item_id", itemID).Msg("liberar lock redis")
		}
	}, nil
}
