package usecase

import (
	"context"
	"errors"
	"fmt"

	"pr-review-notifier/internal/domain"

	"github.com/sirupsen/logrus"
)

// CIStatusUpdateHandler применяет новый статус CI к агрегату пул-реквеста.
type CIStatusUpdateHandler struct {
	prRepo      domain.PRRepository
	isSupported domain.IsSupported
	eventBus    domain.EventBus
	logger      *logrus.Logger
}

// NewCIStatusUpdateHandler создает новый экземпляр CIStatusUpdateHandler.
func NewCIStatusUpdateHandler(
	prRepo domain.PRRepository,
	isSupported domain.IsSupported,
	eventBus domain.EventBus,
	logger *logrus.Logger,
) domain.CIStatusUpdateUseCase {
	return &CIStatusUpdateHandler{
		prRepo:      prRepo,
		isSupported: isSupported,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle запоминает последний статус CI (last-write-wins).
// Отсутствующий агрегат игнорируется по той же политике, что и для ревью.
func (h *CIStatusUpdateHandler) Handle(ctx context.Context, command domain.CIStatusUpdate) error {
	if !h.isSupported.Repository(domain.RepositoryIdentifier(command.RepositoryIdentifier)) {
		h.logger.WithFields(logrus.Fields{
			"pr_id":      command.PRIdentifier,
			"repository": command.RepositoryIdentifier,
		}).Info("CI status ignored: repository is not supported")
		return nil
	}

	status, err := domain.ParseCIStatus(string(command.Status))
	if err != nil {
		return err
	}

	var (
		event domain.Event
		ok    bool
	)
	_, err = h.prRepo.UpdateBy(ctx, domain.PRIdentifier(command.PRIdentifier), func(pr *domain.PullRequest) error {
		event, ok = pr.RecordCIStatus(status)
		return nil
	})
	if errors.Is(err, domain.ErrPRNotFound) {
		h.logger.WithField("pr_id", command.PRIdentifier).Info("CI status ignored: PR is not in review")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to record CI status: %w", err)
	}

	if ok {
		h.eventBus.Publish(ctx, event)
	}

	h.logger.WithFields(logrus.Fields{
		"pr_id":     command.PRIdentifier,
		"ci_status": string(status),
	}).Info("CI status recorded")
	return nil
}
