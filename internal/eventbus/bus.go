package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
)

// Handler consumes one event. A handler's error or panic never reaches the
// publisher or sibling handlers.
type Handler func(ctx context.Context, evt domain.Event) error

const defaultDetachTimeout = 30 * time.Second

// Bus is the in-process publish/subscribe register. It is constructed at
// startup and injected into every component that publishes or subscribes; the
// handler registry is append-only after startup in practice.
type Bus struct {
	mu            sync.RWMutex
	handlers      map[string][]Handler
	logger        *zap.Logger
	detachTimeout time.Duration

	wg sync.WaitGroup // tracks detached publishes for shutdown
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		handlers:      make(map[string][]Handler),
		logger:        logger,
		detachTimeout: defaultDetachTimeout,
	}
}

// Subscribe registers a handler for future publishes of name. There is no
// replay: events published before registration are gone.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish invokes every handler subscribed under evt.Name, in registration
// order, and returns once all of them have settled. Handler errors and panics
// are logged and swallowed: dispatch attempted means success for the
// publisher. Callers that must not wait for handlers use PublishDetached.
func (b *Bus) Publish(ctx context.Context, evt domain.Event) {
	b.mu.RLock()
	handlers := b.handlers[evt.Name]
	b.mu.RUnlock()

	for i, h := range handlers {
		if err := b.invoke(ctx, h, evt); err != nil {
			b.logger.Warn("event handler failed",
				zap.String("event", evt.Name),
				zap.String("event_id", evt.ID),
				zap.String("correlation_id", evt.CorrelationID),
				zap.Int("handler", i),
				zap.Error(err))
		}
	}
}

// PublishDetached dispatches evt on its own goroutine with a fresh context,
// making the fire-and-forget contract explicit: the caller's request path
// never waits on, or fails because of, event delivery.
func (b *Bus) PublishDetached(evt domain.Event) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.detachTimeout)
		defer cancel()
		b.Publish(ctx, evt)
	}()
}

// Drain blocks until all detached publishes in flight have settled. Called
// during graceful shutdown.
func (b *Bus) Drain() {
	b.wg.Wait()
}

func (b *Bus) invoke(ctx context.Context, h Handler, evt domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, evt)
}
