package domain_test

import (
	"testing"

	"pr-review-notifier/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPRIdentifier(t *testing.T) {
	testCases := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"Valid identifier", "acme/repo/42", true},
		{"Empty", "", false},
		{"Missing number", "acme/repo", false},
		{"Empty segment", "acme//42", false},
		{"Non-numeric number", "acme/repo/abc", false},
		{"Too many segments", "acme/repo/42/extra", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := domain.NewPRIdentifier(tc.raw)
			if tc.valid {
				assert.NoError(t, err)
				assert.Equal(t, tc.raw, id.String())
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
			}
		})
	}
}

func TestNewPullRequest(t *testing.T) {
	pr, err := domain.NewPullRequest("acme/repo/42", "C1@1")
	require.NoError(t, err)

	assert.Equal(t, domain.PRIdentifier("acme/repo/42"), pr.Identifier)
	assert.Equal(t, 0, pr.GTMCount)
	assert.Equal(t, 0, pr.NotGTMCount)
	assert.Equal(t, 0, pr.CommentCount)
	assert.Equal(t, domain.CIPending, pr.CIStatus)
	assert.False(t, pr.IsMerged)
	assert.Equal(t, []domain.MessageIdentifier{"C1@1"}, pr.MessageIdentifiers)
}

func TestNewPullRequest_InvalidIdentifier(t *testing.T) {
	_, err := domain.NewPullRequest("", "C1@1")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)

	_, err = domain.NewPullRequest("not-an-identifier", "C1@1")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
}

// Счетчики независимы: каждый равен числу вызовов своего вида
// независимо от чередования с остальными.
func TestPullRequest_CounterIndependence(t *testing.T) {
	pr, err := domain.NewPullRequest("acme/repo/42", "C1@1")
	require.NoError(t, err)

	pr.RecordAcceptedReview()
	pr.RecordComment()
	pr.RecordRejectedReview()
	pr.RecordAcceptedReview()
	pr.RecordComment()
	pr.RecordComment()
	pr.RecordAcceptedReview()

	assert.Equal(t, 3, pr.GTMCount)
	assert.Equal(t, 1, pr.NotGTMCount)
	assert.Equal(t, 3, pr.CommentCount)
}

func TestPullRequest_ReviewEvents(t *testing.T) {
	pr, err := domain.NewPullRequest("acme/repo/42", "C1@1")
	require.NoError(t, err)

	event, ok := pr.RecordAcceptedReview()
	assert.True(t, ok)
	assert.Equal(t, domain.EventPRGTMed, event.Kind)
	assert.Equal(t, pr.Identifier, event.PRIdentifier)

	event, ok = pr.RecordRejectedReview()
	assert.True(t, ok)
	assert.Equal(t, domain.EventPRNotGTMed, event.Kind)

	event, ok = pr.RecordComment()
	assert.True(t, ok)
	assert.Equal(t, domain.EventPRCommented, event.Kind)
}

func TestPullRequest_RecordCIStatus(t *testing.T) {
	pr, err := domain.NewPullRequest("acme/repo/42", "C1@1")
	require.NoError(t, err)

	// PENDING не нотифицируется
	_, ok := pr.RecordCIStatus(domain.CIPending)
	assert.False(t, ok)
	assert.Equal(t, domain.CIPending, pr.CIStatus)

	// GREEN затем RED: финальное состояние RED, два события по порядку
	green, ok := pr.RecordCIStatus(domain.CIGreen)
	assert.True(t, ok)
	assert.Equal(t, domain.EventCIGreen, green.Kind)

	red, ok := pr.RecordCIStatus(domain.CIRed)
	assert.True(t, ok)
	assert.Equal(t, domain.EventCIRed, red.Kind)
	assert.Equal(t, domain.CIRed, pr.CIStatus)
}

func TestPullRequest_RecordMerge_Idempotent(t *testing.T) {
	pr, err := domain.NewPullRequest("acme/repo/42", "C1@1")
	require.NoError(t, err)

	event, ok := pr.RecordMerge()
	assert.True(t, ok)
	assert.Equal(t, domain.EventPRMerged, event.Kind)
	assert.True(t, pr.IsMerged)

	// Повторный мерж — no-op без события
	_, ok = pr.RecordMerge()
	assert.False(t, ok)
	assert.True(t, pr.IsMerged)
}

func TestPullRequest_PutToReviewAgainViaMessage(t *testing.T) {
	pr, err := domain.NewPullRequest("acme/repo/42", "C1@1")
	require.NoError(t, err)
	pr.RecordAcceptedReview()

	pr.PutToReviewAgainViaMessage("C1@2")

	assert.Equal(t, []domain.MessageIdentifier{"C1@1", "C1@2"}, pr.MessageIdentifiers)
	assert.Equal(t, 1, pr.GTMCount, "counters must not change")

	// Дубликаты допустимы, порядок вставки сохраняется
	pr.PutToReviewAgainViaMessage("C1@1")
	assert.Equal(t, []domain.MessageIdentifier{"C1@1", "C1@2", "C1@1"}, pr.MessageIdentifiers)
}

func TestParseCIStatus(t *testing.T) {
	for _, raw := range []string{"PENDING", "GREEN", "RED"} {
		status, err := domain.ParseCIStatus(raw)
		assert.NoError(t, err)
		assert.Equal(t, raw, string(status))
	}

	_, err := domain.ParseCIStatus("BLUE")
	assert.ErrorIs(t, err, domain.ErrUnsupportedCIStatus)
}

func TestPullRequest_Copy(t *testing.T) {
	pr, err := domain.NewPullRequest("acme/repo/42", "C1@1")
	require.NoError(t, err)

	clone := pr.Copy()
	clone.RecordAcceptedReview()
	clone.PutToReviewAgainViaMessage("C1@2")

	assert.Equal(t, 0, pr.GTMCount)
	assert.Len(t, pr.MessageIdentifiers, 1)
}
