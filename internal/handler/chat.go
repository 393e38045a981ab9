package handler

import (
	"errors"
	"net/http"

	"pr-review-notifier/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ChatHandler принимает команды чат-платформы.
type ChatHandler struct {
	*BaseHandler
	putToReview domain.PutPRToReviewUseCase
}

// NewChatHandler создает новый экземпляр ChatHandler.
func NewChatHandler(putToReview domain.PutPRToReviewUseCase, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		BaseHandler: NewBaseHandler(logger),
		putToReview: putToReview,
	}
}

// PutToReviewRequest — запрос постановки пул-реквеста на ревью из чата.
type PutToReviewRequest struct {
	Repository   string `json:"repository"`
	PRIdentifier string `json:"pr_identifier"`
	Channel      string `json:"channel"`
	MessageID    string `json:"message_id"`
}

// PostPutToReview обрабатывает POST /chat/putToReview.
func (h *ChatHandler) PostPutToReview(c echo.Context) error {
	var req PutToReviewRequest
	if err := c.Bind(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to bind put-to-review request")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	logEntry := h.logRequest(c, "put_to_review").WithFields(logrus.Fields{
		"pr_id":   req.PRIdentifier,
		"channel": req.Channel,
	})
	logEntry.Info("Putting PR to review")

	command := domain.PutPRToReview{
		RepositoryIdentifier: req.Repository,
		PRIdentifier:         req.PRIdentifier,
		ChannelIdentifier:    req.Channel,
		MessageIdentifier:    req.MessageID,
	}
	if err := h.putToReview.Handle(c.Request().Context(), command); err != nil {
		if errors.Is(err, domain.ErrInvalidIdentifier) {
			logEntry.WithError(err).Warn("Invalid identifier in put-to-review request")
			return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_IDENTIFIER", err.Error()))
		}
		logEntry.WithError(err).Error("Failed to put PR to review")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
