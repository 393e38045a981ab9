package usecase_test

import (
	"context"
	"testing"

	"pr-review-notifier/internal/domain"
	"pr-review-notifier/internal/repository"
	"pr-review-notifier/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCIStatusUpdate_Green(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPRRepository()
	spy := &eventsSpy{}
	handler := usecase.NewCIStatusUpdateHandler(repo, supportEverything(), spy, newTestLogger())
	putDefaultPRToReview(t, repo)

	err := handler.Handle(ctx, domain.CIStatusUpdate{
		RepositoryIdentifier: "acme/repo",
		PRIdentifier:         "acme/repo/42",
		Status:               domain.CIGreen,
	})
	require.NoError(t, err)

	pr, err := repo.GetBy(ctx, "acme/repo/42")
	require.NoError(t, err)
	assert.Equal(t, domain.CIGreen, pr.CIStatus)
	assert.Equal(t, []domain.EventKind{domain.EventCIGreen}, spy.kinds())
}

// GREEN затем RED: финальное состояние RED, ровно два события по порядку.
func TestCIStatusUpdate_GreenThenRed(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPRRepository()
	spy := &eventsSpy{}
	handler := usecase.NewCIStatusUpdateHandler(repo, supportEverything(), spy, newTestLogger())
	putDefaultPRToReview(t, repo)

	require.NoError(t, handler.Handle(ctx, domain.CIStatusUpdate{
		RepositoryIdentifier: "acme/repo",
		PRIdentifier:         "acme/repo/42",
		Status:               domain.CIGreen,
	}))
	require.NoError(t, handler.Handle(ctx, domain.CIStatusUpdate{
		RepositoryIdentifier: "acme/repo",
		PRIdentifier:         "acme/repo/42",
		Status:               domain.CIRed,
	}))

	pr, err := repo.GetBy(ctx, "acme/repo/42")
	require.NoError(t, err)
	assert.Equal(t, domain.CIRed, pr.CIStatus)
	assert.Equal(t, []domain.EventKind{domain.EventCIGreen, domain.EventCIRed}, spy.kinds())
}

// PENDING запоминается, но событие не публикуется.
func TestCIStatusUpdate_PendingIsSilent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPRRepository()
	spy := &eventsSpy{}
	handler := usecase.NewCIStatusUpdateHandler(repo, supportEverything(), spy, newTestLogger())
	pr := putDefaultPRToReview(t, repo)
	_, err := repo.UpdateBy(ctx, pr.Identifier, func(pr *domain.PullRequest) error {
		pr.RecordCIStatus(domain.CIGreen)
		return nil
	})
	require.NoError(t, err)

	err = handler.Handle(ctx, domain.CIStatusUpdate{
		RepositoryIdentifier: "acme/repo",
		PRIdentifier:         "acme/repo/42",
		Status:               domain.CIPending,
	})
	require.NoError(t, err)

	updated, err := repo.GetBy(ctx, "acme/repo/42")
	require.NoError(t, err)
	assert.Equal(t, domain.CIPending, updated.CIStatus)
	assert.Empty(t, spy.kinds())
}

func TestCIStatusUpdate_UnknownStatusRejected(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPRRepository()
	handler := usecase.NewCIStatusUpdateHandler(repo, supportEverything(), &eventsSpy{}, newTestLogger())
	putDefaultPRToReview(t, repo)

	err := handler.Handle(ctx, domain.CIStatusUpdate{
		RepositoryIdentifier: "acme/repo",
		PRIdentifier:         "acme/repo/42",
		Status:               domain.CIStatus("BLUE"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedCIStatus)
}

func TestCIStatusUpdate_UnknownPRIgnored(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPRRepository()
	spy := &eventsSpy{}
	handler := usecase.NewCIStatusUpdateHandler(repo, supportEverything(), spy, newTestLogger())

	err := handler.Handle(ctx, domain.CIStatusUpdate{
		RepositoryIdentifier: "acme/repo",
		PRIdentifier:         "acme/repo/404",
		Status:               domain.CIGreen,
	})
	require.NoError(t, err)
	assert.Empty(t, spy.kinds())
}
