package event

import (
	"context"
	"sync"

	"pr-review-notifier/internal/domain"

	"github.com/sirupsen/logrus"
)

// Handler — подписчик на доменные события.
type Handler func(ctx context.Context, event domain.Event)

// Bus — синхронная внутрипроцессная шина доменных событий.
// Экземпляр принадлежит composition root; подписчики регистрируются
// по типизированному виду события, диспетчеризация статическая.
type Bus struct {
	mu     sync.RWMutex
	byKind map[domain.EventKind][]Handler
	all    []Handler
	logger *logrus.Logger
}

// NewBus создает пустую шину событий.
func NewBus(logger *logrus.Logger) *Bus {
	return &Bus{
		byKind: make(map[domain.EventKind][]Handler),
		logger: logger,
	}
}

// Subscribe регистрирует подписчика на один вид события.
func (b *Bus) Subscribe(kind domain.EventKind, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byKind[kind] = append(b.byKind[kind], handler)
}

// SubscribeAll регистрирует подписчика на все виды событий.
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, handler)
}

// Publish синхронно доставляет событие подписчикам в порядке регистрации.
// Паника одного подписчика не прерывает доставку остальным.
func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.all)+len(b.byKind[event.Kind]))
	handlers = append(handlers, b.byKind[event.Kind]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.deliver(ctx, handler, event)
	}
}

func (b *Bus) deliver(ctx context.Context, handler Handler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithFields(logrus.Fields{
				"event": event.Kind.String(),
				"pr_id": event.PRIdentifier.String(),
				"panic": r,
			}).Error("Event subscriber panicked")
		}
	}()
	handler(ctx, event)
}
