package notify

import (
	"context"

	"pr-review-notifier/internal/domain"
	"pr-review-notifier/internal/event"

	"github.com/sirupsen/logrus"
)

// Тексты уведомлений по видам событий.
var messages = map[domain.EventKind]string{
	domain.EventPRPutToReview: "Your PR has been put up for review :eyes:",
	domain.EventPRGTMed:       "Your PR has one more approval :+1:",
	domain.EventPRNotGTMed:    "Your PR has one more rejection :-1:",
	domain.EventPRCommented:   "Your PR has one more comment :speech_balloon:",
	domain.EventCIGreen:       "CI passed :white_check_mark:",
	domain.EventCIRed:         "CI failed :red_circle:",
	domain.EventPRMerged:      "Your PR has been merged :tada:",
}

// Dispatcher превращает доменные события в сообщения чат-платформы.
// Доставка best-effort: сбой по одному треду логируется и не мешает
// остальным, состояние агрегата источником истины остается в хранилище.
type Dispatcher struct {
	prRepo domain.PRRepository
	chat   domain.ChatClient
	logger *logrus.Logger
}

// NewDispatcher создает новый экземпляр Dispatcher.
func NewDispatcher(prRepo domain.PRRepository, chat domain.ChatClient, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		prRepo: prRepo,
		chat:   chat,
		logger: logger,
	}
}

// Register подписывает диспетчер на все виды событий шины.
func (d *Dispatcher) Register(bus *event.Bus) {
	bus.SubscribeAll(d.Dispatch)
}

// Dispatch отправляет по одному сообщению в каждый тред пул-реквеста.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.Event) {
	text, ok := messages[ev.Kind]
	if !ok {
		return
	}

	pr, err := d.prRepo.GetBy(ctx, ev.PRIdentifier)
	if err != nil {
		d.logger.WithFields(logrus.Fields{
			"pr_id": ev.PRIdentifier.String(),
			"event": ev.Kind.String(),
		}).WithError(err).Warn("Notification skipped: cannot load PR")
		return
	}

	for _, messageID := range pr.MessageIdentifiers {
		if err := d.chat.SendMessage(ctx, messageID, text); err != nil {
			d.logger.WithFields(logrus.Fields{
				"pr_id":      ev.PRIdentifier.String(),
				"event":      ev.Kind.String(),
				"message_id": messageID.String(),
			}).WithError(err).Error("Failed to deliver notification")
			continue
		}
	}
}
