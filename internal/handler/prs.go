package handler

import (
	"net/http"

	"pr-review-notifier/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PRHandler обрабатывает запросы листинга отслеживаемых пул-реквестов.
type PRHandler struct {
	*BaseHandler
	prRepo domain.PRRepository
}

// NewPRHandler создает новый экземпляр PRHandler.
func NewPRHandler(prRepo domain.PRRepository, logger *logrus.Logger) *PRHandler {
	return &PRHandler{
		BaseHandler: NewBaseHandler(logger),
		prRepo:      prRepo,
	}
}

// GetPRs обрабатывает GET /prs: полный список агрегатов.
func (h *PRHandler) GetPRs(c echo.Context) error {
	prs, err := h.prRepo.All(c.Request().Context())
	if err != nil {
		h.logRequest(c, "list_prs").WithError(err).Error("Failed to list PRs")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]any{"prs": toPullRequestViews(prs)})
}
