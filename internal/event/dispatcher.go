package event

import (
	"fmt"
	"sync"

	"github.com/AndrewHnidets/demo-repositories/internal/logger"
	"github.com/panjf2000/ants/v2"
)

// Handler consumes one event. Handlers run on the dispatcher pool and must
// not assume any transaction is still open.
type Handler func(evt Event) error

// Dispatcher fans events out to subscribers over a goroutine pool.
// Dispatch is fire-and-forget: failures are logged, never propagated.
type Dispatcher struct {
	pool     *ants.Pool
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher(poolSize int) (*Dispatcher, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create event pool: %w", err)
	}
	return &Dispatcher{
		pool:     pool,
		handlers: make(map[string][]Handler),
	}, nil
}

// Subscribe registers a handler for one event name.
func (d *Dispatcher) Subscribe(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// Dispatch submits the event to every subscriber.
func (d *Dispatcher) Dispatch(evt Event) {
	d.mu.RLock()
	handlers := d.handlers[evt.Name()]
	d.mu.RUnlock()

	for _, h := range handlers {
		h := h
		err := d.pool.Submit(func() {
			if err := h(evt); err != nil {
				logger.Error("Event handler for %s failed: %v", evt.Name(), err)
			}
		})
		if err != nil {
			logger.Error("Failed to submit event %s: %v", evt.Name(), err)
		}
	}
}

// Close releases the pool. Pending tasks finish first.
func (d *Dispatcher) Close() {
	d.pool.Release()
}
