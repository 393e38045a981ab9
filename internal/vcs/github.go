package vcs

import (
	"context"
	"fmt"
	"strings"

	"pr-review-notifier/internal/domain"

	"github.com/google/go-github/v74/github"
)

// GithubPRFinder резолвит номер пул-реквеста по коммиту через GitHub API.
type GithubPRFinder struct {
	client *github.Client
}

// NewGithubPRFinder создает клиент GitHub API. Пустой токен допустим
// для публичных репозиториев.
func NewGithubPRFinder(token string) *GithubPRFinder {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GithubPRFinder{client: client}
}

// FindPRNumber возвращает номер первого пул-реквеста, связанного с
// коммитом, либо ErrNoPRForCommit (коммит в ветке без PR).
func (f *GithubPRFinder) FindPRNumber(ctx context.Context, repository domain.RepositoryIdentifier, commitSHA string) (int, error) {
	owner, name, ok := strings.Cut(string(repository), "/")
	if !ok {
		return 0, fmt.Errorf("malformed repository identifier %q", repository)
	}

	prs, _, err := f.client.PullRequests.ListPullRequestsWithCommit(ctx, owner, name, commitSHA, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to list PRs for commit: %w", err)
	}
	if len(prs) == 0 {
		return 0, domain.ErrNoPRForCommit
	}
	return prs[0].GetNumber(), nil
}
