package usecase

import (
	"context"
	"fmt"

	"pr-review-notifier/internal/domain"

	"github.com/sirupsen/logrus"
)

// PutPRToReviewHandler реализует постановку пул-реквеста на ревью.
type PutPRToReviewHandler struct {
	prRepo      domain.PRRepository
	isSupported domain.IsSupported
	eventBus    domain.EventBus
	logger      *logrus.Logger
	announceNew bool
}

// NewPutPRToReviewHandler создает новый экземпляр PutPRToReviewHandler.
// announceNew управляет эмиссией события PRPutToReview при создании агрегата.
func NewPutPRToReviewHandler(
	prRepo domain.PRRepository,
	isSupported domain.IsSupported,
	eventBus domain.EventBus,
	logger *logrus.Logger,
	announceNew bool,
) domain.PutPRToReviewUseCase {
	return &PutPRToReviewHandler{
		prRepo:      prRepo,
		isSupported: isSupported,
		eventBus:    eventBus,
		logger:      logger,
		announceNew: announceNew,
	}
}

// Handle создает агрегат для нового идентификатора либо прикрепляет
// новый тред к существующему. Счетчики существующего агрегата не трогаются.
func (h *PutPRToReviewHandler) Handle(ctx context.Context, command domain.PutPRToReview) error {
	// 1. События вне allow-list отбрасываются до какой-либо мутации
	if !h.isSupported.Repository(domain.RepositoryIdentifier(command.RepositoryIdentifier)) ||
		!h.isSupported.Channel(domain.ChannelIdentifier(command.ChannelIdentifier)) {
		h.logger.WithFields(logrus.Fields{
			"pr_id":      command.PRIdentifier,
			"repository": command.RepositoryIdentifier,
			"channel":    command.ChannelIdentifier,
		}).Info("PR was not put to review: repository or channel is not supported")
		return nil
	}

	messageID, err := domain.NewMessageIdentifier(command.MessageIdentifier)
	if err != nil {
		return err
	}
	identifier, err := domain.NewPRIdentifier(command.PRIdentifier)
	if err != nil {
		return err
	}

	// 2. Load-or-create под одной блокировкой: две конкурентные первые
	// постановки по одному идентификатору не теряют message identifiers
	_, created, err := h.prRepo.UpdateOrCreateBy(ctx, identifier,
		func() (*domain.PullRequest, error) {
			return domain.NewPullRequest(identifier, messageID)
		},
		func(pr *domain.PullRequest) error {
			pr.PutToReviewAgainViaMessage(messageID)
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("failed to put PR to review: %w", err)
	}

	if !created {
		h.logger.WithField("pr_id", command.PRIdentifier).Info("PR has been put to review again")
		return nil
	}

	if h.announceNew {
		h.eventBus.Publish(ctx, domain.Event{Kind: domain.EventPRPutToReview, PRIdentifier: identifier})
	}

	h.logger.WithField("pr_id", command.PRIdentifier).Info("PR has been put to review")
	return nil
}
