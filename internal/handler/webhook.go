package handler

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pr-review-notifier/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// WebhookHandler принимает вебхуки GitHub: проверяет подпись, разбирает
// полезную нагрузку и транслирует ее в команды. Неподдерживаемый тип
// события и неверная подпись отклоняются до запуска какого-либо хендлера.
type WebhookHandler struct {
	*BaseHandler
	newReview domain.NewReviewUseCase
	ciStatus  domain.CIStatusUpdateUseCase
	mergePR   domain.MergePRUseCase
	prFinder  domain.PRFinder
	secret    []byte
}

// NewWebhookHandler создает новый экземпляр WebhookHandler.
func NewWebhookHandler(
	newReview domain.NewReviewUseCase,
	ciStatus domain.CIStatusUpdateUseCase,
	mergePR domain.MergePRUseCase,
	prFinder domain.PRFinder,
	secret string,
	logger *logrus.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler: NewBaseHandler(logger),
		newReview:   newReview,
		ciStatus:    ciStatus,
		mergePR:     mergePR,
		prFinder:    prFinder,
		secret:      []byte(secret),
	}
}

// PostGithubEvent обрабатывает POST /vcs/github.
func (h *WebhookHandler) PostGithubEvent(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", "cannot read body"))
	}

	if !h.validSignature(c.Request().Header, body) {
		h.logger.Warn("Webhook rejected: signature mismatch")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_SIGNATURE", "signature does not match"))
	}

	eventType := c.Request().Header.Get("X-GitHub-Event")
	logEntry := h.logRequest(c, "github_webhook").WithField("event_type", eventType)

	switch eventType {
	case "pull_request_review":
		return h.handleReview(c, logEntry, body)
	case "pull_request":
		return h.handlePullRequest(c, logEntry, body)
	case "check_run":
		return h.handleCheckRun(c, logEntry, body)
	case "status":
		return h.handleStatus(c, logEntry, body)
	default:
		logEntry.Warn("Webhook rejected: unsupported event type")
		return c.JSON(http.StatusBadRequest, toErrorResponse("UNSUPPORTED_EVENT", fmt.Sprintf("unsupported event type %q", eventType)))
	}
}

func (h *WebhookHandler) handleReview(c echo.Context, logEntry *logrus.Entry, body []byte) error {
	var payload reviewEventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}
	if payload.Action != "submitted" {
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	command := domain.NewReview{
		RepositoryIdentifier: payload.Repository.FullName,
		PRIdentifier:         prIdentifierFrom(payload.Repository, payload.PullRequest.Number),
		ReviewStatus:         reviewStatusFrom(payload.Review.State),
	}
	if err := h.newReview.Handle(c.Request().Context(), command); err != nil {
		logEntry.WithError(err).Error("Failed to handle review event")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebhookHandler) handlePullRequest(c echo.Context, logEntry *logrus.Entry, body []byte) error {
	var payload pullRequestEventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}
	if payload.Action != "closed" || !payload.PullRequest.Merged {
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	command := domain.MergePR{
		RepositoryIdentifier: payload.Repository.FullName,
		PRIdentifier:         prIdentifierFrom(payload.Repository, payload.PullRequest.Number),
	}
	if err := h.mergePR.Handle(c.Request().Context(), command); err != nil {
		logEntry.WithError(err).Error("Failed to handle merge event")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebhookHandler) handleCheckRun(c echo.Context, logEntry *logrus.Entry, body []byte) error {
	var payload checkRunEventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}
	if payload.Action != "completed" || len(payload.CheckRun.PullRequests) == 0 {
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	command := domain.CIStatusUpdate{
		RepositoryIdentifier: payload.Repository.FullName,
		PRIdentifier:         prIdentifierFrom(payload.Repository, payload.CheckRun.PullRequests[0].Number),
		Status:               ciStatusFrom(payload.CheckRun.Conclusion),
	}
	if err := h.ciStatus.Handle(c.Request().Context(), command); err != nil {
		logEntry.WithError(err).Error("Failed to handle check_run event")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus обрабатывает commit status. В полезной нагрузке нет номера
// PR, он резолвится по коммиту; статус коммита без связанного PR
// игнорируется (пуш в ветку без ревью).
func (h *WebhookHandler) handleStatus(c echo.Context, logEntry *logrus.Entry, body []byte) error {
	var payload statusEventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	number, err := h.prFinder.FindPRNumber(c.Request().Context(),
		domain.RepositoryIdentifier(payload.Repository.FullName), payload.SHA)
	if errors.Is(err, domain.ErrNoPRForCommit) {
		logEntry.WithField("sha", payload.SHA).Debug("Commit status without an associated PR ignored")
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}
	if err != nil {
		logEntry.WithError(err).Error("Failed to resolve PR for commit status")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	command := domain.CIStatusUpdate{
		RepositoryIdentifier: payload.Repository.FullName,
		PRIdentifier:         prIdentifierFrom(payload.Repository, number),
		Status:               ciStatusFrom(payload.State),
	}
	if err := h.ciStatus.Handle(c.Request().Context(), command); err != nil {
		logEntry.WithError(err).Error("Failed to handle status event")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// validSignature сверяет HMAC тела запроса с заголовком подписи.
// Предпочитается X-Hub-Signature-256, X-Hub-Signature (sha1) для
// совместимости со старыми вебхуками.
func (h *WebhookHandler) validSignature(header http.Header, body []byte) bool {
	if signature := header.Get("X-Hub-Signature-256"); signature != "" {
		mac := hmac.New(sha256.New, h.secret)
		mac.Write(body)
		expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
		return hmac.Equal([]byte(signature), []byte(expected))
	}
	if signature := header.Get("X-Hub-Signature"); signature != "" {
		mac := hmac.New(sha1.New, h.secret)
		mac.Write(body)
		expected := "sha1=" + hex.EncodeToString(mac.Sum(nil))
		return hmac.Equal([]byte(signature), []byte(expected))
	}
	return false
}

func prIdentifierFrom(repository githubRepository, number int) string {
	return fmt.Sprintf("%s/%d", repository.FullName, number)
}

// reviewStatusFrom приводит состояние ревью GitHub к результату команды.
func reviewStatusFrom(state string) string {
	switch strings.ToLower(state) {
	case "approved":
		return "accepted"
	case "changes_requested":
		return "refused"
	default:
		return strings.ToLower(state)
	}
}

// ciStatusFrom приводит заключение check run или состояние commit status
// к статусу CI (last-write-wins).
func ciStatusFrom(conclusion string) domain.CIStatus {
	switch conclusion {
	case "success":
		return domain.CIGreen
	case "failure", "error", "timed_out":
		return domain.CIRed
	default:
		return domain.CIPending
	}
}
