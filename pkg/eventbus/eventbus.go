package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Сколько времени даём одному обработчику события.
const listenerTimeout = 30 * time.Second

// Event представляет собой любое событие в системе.
type Event interface {
	Name() string
}

// Listener - это обработчик (слушатель) событий.
type Listener func(ctx context.Context, event Event) error

// Bus - шина событий. Publish вызывает обработчики асинхронно, PublishSync по очереди в горутине издателя.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	inflight  sync.WaitGroup
	logger    *zap.Logger
}

// New создает новую шину событий.
func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

// Subscribe подписывает слушателя на определенное событие.
func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish публикует событие и сразу возвращает управление.
func (b *Bus) Publish(ctx context.Context, event Event) {
	eventName := event.Name()

	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[eventName]...)
	b.mu.RUnlock()

	for _, listener := range listeners {
		b.inflight.Add(1)
		go func(l Listener) {
			defer b.inflight.Done()
			b.deliver(ctx, l, event)
		}(listener)
	}
}

// PublishSync вызывает обработчиков по очереди и возвращается, когда все отработали.
// События одного издателя доходят до слушателей в порядке публикации.
func (b *Bus) PublishSync(ctx context.Context, event Event) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event.Name()]...)
	b.mu.RUnlock()

	for _, listener := range listeners {
		b.deliver(ctx, listener, event)
	}
}

func (b *Bus) deliver(ctx context.Context, l Listener, event Event) {
	// Контекст публикации не наследуем: задача может уже завершиться.
	ctxWithTimeout, cancel := context.WithTimeout(context.WithoutCancel(ctx), listenerTimeout)
	defer cancel()

	if err := l(ctxWithTimeout, event); err != nil {
		b.logger.Error("Ошибка в обработчике события",
			zap.String("event", event.Name()),
			zap.Error(err),
		)
	}
}

// Wait ждёт, пока отработают все запущенные обработчики.
func (b *Bus) Wait() {
	b.inflight.Wait()
}
