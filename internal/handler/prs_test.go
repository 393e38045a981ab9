package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pr-review-notifier/internal/domain"
	"pr-review-notifier/internal/handler"
	"pr-review-notifier/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPRs_ListsAllAggregates(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	repo := repository.NewMemoryPRRepository()

	first, err := domain.NewPullRequest("acme/repo/1", "C1@1")
	require.NoError(t, err)
	first.RecordAcceptedReview()
	first.RecordMerge()
	require.NoError(t, repo.Save(context.Background(), first))

	second, err := domain.NewPullRequest("acme/repo/2", "C1@2")
	require.NoError(t, err)
	second.RecordCIStatus(domain.CIGreen)
	require.NoError(t, repo.Save(context.Background(), second))

	h := handler.NewPRHandler(repo, logger)
	req := httptest.NewRequest(http.MethodGet, "/prs", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.GetPRs(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		PRs []handler.PullRequestView `json:"prs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.PRs, 2)

	assert.Equal(t, "acme/repo/1", response.PRs[0].Identifier)
	assert.Equal(t, 1, response.PRs[0].GTMCount)
	assert.True(t, response.PRs[0].IsMerged)
	assert.Equal(t, []string{"C1@1"}, response.PRs[0].MessageIdentifiers)

	assert.Equal(t, "acme/repo/2", response.PRs[1].Identifier)
	assert.Equal(t, "GREEN", response.PRs[1].CIStatus)
	assert.False(t, response.PRs[1].IsMerged)
}
