// Package lock implementa inventory.ItemLocker: mutex por ítem en proceso o lock distribuido en Redis.
package lock

import (
	"context"
	"sync"

	"github.com/jhoicas/teaestate-api/internal/application/inventory"
)

var _ inventory.ItemLocker = (*LocalLocker)(nil)

type entry struct {
	ch   chan struct{} // buffer 1: lleno = tomado
	refs int
}

// LocalLocker exclusión por item_id dentro del proceso. Las entradas se liberan
// cuando nadie las usa, así el mapa no crece con el catálogo.
type LocalLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewLocalLocker construye el locker en memoria.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{entries: make(map[string]*entry)}
}

// Lock espera el turno del ítem o hasta que ctx termine.
func (l *LocalLocker) Lock(ctx context.Context, itemID string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[itemID]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[itemID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(itemID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(itemID, e)
		})
	}, nil
}

func (l *LocalLocker) release(itemID string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, itemID)
	}
}

// size entradas vivas (tests).
func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
