package vcs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"pr-review-notifier/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFinder(t *testing.T, handler http.HandlerFunc) *GithubPRFinder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	finder := NewGithubPRFinder("")
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	finder.client.BaseURL = base
	return finder
}

func TestFindPRNumber_ReturnsAssociatedPR(t *testing.T) {
	finder := newTestFinder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/repo/commits/abc123/pulls", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"number": 42}, {"number": 43}]`))
	})

	number, err := finder.FindPRNumber(context.Background(), "acme/repo", "abc123")
	require.NoError(t, err)
	assert.Equal(t, 42, number)
}

func TestFindPRNumber_NoAssociatedPR(t *testing.T) {
	finder := newTestFinder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := finder.FindPRNumber(context.Background(), "acme/repo", "abc123")
	assert.ErrorIs(t, err, domain.ErrNoPRForCommit)
}

func TestFindPRNumber_MalformedRepositoryIdentifier(t *testing.T) {
	finder := NewGithubPRFinder("")

	_, err := finder.FindPRNumber(context.Background(), "no-slash", "abc123")
	assert.Error(t, err)
}
