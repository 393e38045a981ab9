package usecase

import (
	"context"
	"errors"
	"fmt"

	"pr-review-notifier/internal/domain"

	"github.com/sirupsen/logrus"
)

// Результаты ревью, которые сервис умеет применять к агрегату.
const (
	ReviewAccepted  = "accepted"
	ReviewRefused   = "refused"
	ReviewRejected  = "rejected"
	ReviewCommented = "commented"
)

// NewReviewHandler применяет результат ревью к агрегату пул-реквеста.
type NewReviewHandler struct {
	prRepo      domain.PRRepository
	isSupported domain.IsSupported
	eventBus    domain.EventBus
	logger      *logrus.Logger
}

// NewNewReviewHandler создает новый экземпляр NewReviewHandler.
func NewNewReviewHandler(
	prRepo domain.PRRepository,
	isSupported domain.IsSupported,
	eventBus domain.EventBus,
	logger *logrus.Logger,
) domain.NewReviewUseCase {
	return &NewReviewHandler{
		prRepo:      prRepo,
		isSupported: isSupported,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle инкрементирует счетчик, соответствующий результату ревью.
// Неизвестный результат и отсутствующий агрегат игнорируются:
// ревью может прийти для PR, который сервис на ревью не ставил.
func (h *NewReviewHandler) Handle(ctx context.Context, command domain.NewReview) error {
	if !h.isSupported.Repository(domain.RepositoryIdentifier(command.RepositoryIdentifier)) {
		h.logger.WithFields(logrus.Fields{
			"pr_id":      command.PRIdentifier,
			"repository": command.RepositoryIdentifier,
		}).Info("Review ignored: repository is not supported")
		return nil
	}

	switch command.ReviewStatus {
	case ReviewAccepted, ReviewRefused, ReviewRejected, ReviewCommented:
	default:
		h.logger.WithFields(logrus.Fields{
			"pr_id":         command.PRIdentifier,
			"review_status": command.ReviewStatus,
		}).Debug("Review ignored: unsupported review status")
		return nil
	}

	var event domain.Event
	mutate := func(pr *domain.PullRequest) error {
		switch command.ReviewStatus {
		case ReviewAccepted:
			event, _ = pr.RecordAcceptedReview()
		case ReviewRefused, ReviewRejected:
			event, _ = pr.RecordRejectedReview()
		case ReviewCommented:
			event, _ = pr.RecordComment()
		}
		return nil
	}

	_, err := h.prRepo.UpdateBy(ctx, domain.PRIdentifier(command.PRIdentifier), mutate)
	if errors.Is(err, domain.ErrPRNotFound) {
		h.logger.WithField("pr_id", command.PRIdentifier).Info("Review ignored: PR is not in review")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to record review: %w", err)
	}

	h.eventBus.Publish(ctx, event)
	h.logger.WithFields(logrus.Fields{
		"pr_id":         command.PRIdentifier,
		"review_status": command.ReviewStatus,
	}).Info("Review recorded")
	return nil
}
