package lock

import (
	"context"

	"github.com/jhoicas/teaestate-api/internal/application/inventory"
)

var _ inventory.ItemLocker = (*Chain)(nil)

// Chain toma los lockers en orden y los libera en orden inverso. Con (local, redis)
// los escritores del mismo proceso hacen cola en memoria antes de competir en Redis.
type Chain struct {
	lockers []inventory.ItemLocker
}

// NewChain construye la cadena.
func NewChain(lockers ...inventory.ItemLocker) *Chain {
	return &Chain{lockers: lockers}
}

func (c *Chain) Lock(ctx context.Context, itemID string) (func(), error) {
	unlocks := make([]func(), 0, len(c.lockers))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, l := range c.lockers {
		unlock, err := l.Lock(ctx, itemID)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}
