package usecase

import (
	"context"
	"errors"
	"fmt"

	"pr-review-notifier/internal/domain"

	"github.com/sirupsen/logrus"
)

// MergePRHandler помечает агрегат пул-реквеста смерженным.
type MergePRHandler struct {
	prRepo      domain.PRRepository
	isSupported domain.IsSupported
	eventBus    domain.EventBus
	logger      *logrus.Logger
}

// NewMergePRHandler создает новый экземпляр MergePRHandler.
func NewMergePRHandler(
	prRepo domain.PRRepository,
	isSupported domain.IsSupported,
	eventBus domain.EventBus,
	logger *logrus.Logger,
) domain.MergePRUseCase {
	return &MergePRHandler{
		prRepo:      prRepo,
		isSupported: isSupported,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle фиксирует мерж. Операция идемпотентна: событие PRMerged
// публикуется только при первом переходе в смерженное состояние.
func (h *MergePRHandler) Handle(ctx context.Context, command domain.MergePR) error {
	if !h.isSupported.Repository(domain.RepositoryIdentifier(command.RepositoryIdentifier)) {
		h.logger.WithFields(logrus.Fields{
			"pr_id":      command.PRIdentifier,
			"repository": command.RepositoryIdentifier,
		}).Info("Merge ignored: repository is not supported")
		return nil
	}

	var (
		event domain.Event
		ok    bool
	)
	_, err := h.prRepo.UpdateBy(ctx, domain.PRIdentifier(command.PRIdentifier), func(pr *domain.PullRequest) error {
		event, ok = pr.RecordMerge()
		return nil
	})
	if errors.Is(err, domain.ErrPRNotFound) {
		h.logger.WithField("pr_id", command.PRIdentifier).Info("Merge ignored: PR is not in review")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to record merge: %w", err)
	}

	if ok {
		h.eventBus.Publish(ctx, event)
		h.logger.WithField("pr_id", command.PRIdentifier).Info("PR merged")
	}
	return nil
}
