package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/pkg/config"
)

// Requiere un Redis real: REDIS_ADDR=localhost:6379 go test ./internal/infrastructure/lock/...
func TestRedisLocker_Integracion(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR no definido")
	}
	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer rdb.Close()

	holder := NewRedisLocker(rdb, 5*time.Second, zerolog.Nop())
	impatient := NewRedisLocker(rdb, 200*time.Millisecond, zerolog.Nop())
	itemID := "test-" + time.Now().Format("150405.000000")

	unlock, err := holder.Lock(ctx, itemID)
	require.NoError(t, err)

	_, err = impatient.Lock(ctx, itemID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	unlock()
	unlock2, err := impatient.Lock(ctx, itemID)
	require.NoError(t, err)
	unlock2()
}
