package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PRIdentifier уникально идентифицирует пул-реквест в формате <owner>/<repo>/<number>.
type PRIdentifier string

// NewPRIdentifier валидирует и создает идентификатор пул-реквеста.
func NewPRIdentifier(raw string) (PRIdentifier, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	for _, part := range parts {
		if part == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
		}
	}
	if _, err := strconv.Atoi(parts[2]); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return PRIdentifier(raw), nil
}

func (id PRIdentifier) String() string {
	return string(id)
}

// RepositoryIdentifier идентифицирует репозиторий в формате <owner>/<repo>.
type RepositoryIdentifier string

// ChannelIdentifier идентифицирует канал чат-платформы.
type ChannelIdentifier string

// MessageIdentifier указывает на тред чат-платформы в формате <channel>@<timestamp>.
type MessageIdentifier string

// NewMessageIdentifier валидирует и создает идентификатор сообщения.
func NewMessageIdentifier(raw string) (MessageIdentifier, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty message identifier", ErrInvalidIdentifier)
	}
	return MessageIdentifier(raw), nil
}

func (id MessageIdentifier) String() string {
	return string(id)
}

// CIStatus представляет последний известный статус CI пул-реквеста.
type CIStatus string

const (
	CIPending CIStatus = "PENDING"
	CIGreen   CIStatus = "GREEN"
	CIRed     CIStatus = "RED"
)

// ParseCIStatus валидирует строковое представление статуса CI.
func ParseCIStatus(raw string) (CIStatus, error) {
	switch CIStatus(raw) {
	case CIPending, CIGreen, CIRed:
		return CIStatus(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCIStatus, raw)
	}
}

// PullRequest — агрегат состояния ревью одного пул-реквеста.
// Счетчики только растут, IsMerged переходит лишь из false в true,
// MessageIdentifiers пополняется и никогда не теряет элементы.
type PullRequest struct {
	Identifier         PRIdentifier
	GTMCount           int
	NotGTMCount        int
	CommentCount       int
	CIStatus           CIStatus
	IsMerged           bool
	MessageIdentifiers []MessageIdentifier
}

// NewPullRequest создает свежий агрегат с нулевыми счетчиками и первым тредом.
func NewPullRequest(identifier PRIdentifier, messageID MessageIdentifier) (*PullRequest, error) {
	if _, err := NewPRIdentifier(identifier.String()); err != nil {
		return nil, err
	}
	return &PullRequest{
		Identifier:         identifier,
		CIStatus:           CIPending,
		MessageIdentifiers: []MessageIdentifier{messageID},
	}, nil
}

// PutToReviewAgainViaMessage прикрепляет к агрегату новый тред,
// не трогая счетчики.
func (pr *PullRequest) PutToReviewAgainViaMessage(messageID MessageIdentifier) {
	pr.MessageIdentifiers = append(pr.MessageIdentifiers, messageID)
}

// RecordAcceptedReview фиксирует одобрение ревью.
func (pr *PullRequest) RecordAcceptedReview() (Event, bool) {
	pr.GTMCount++
	return Event{Kind: EventPRGTMed, PRIdentifier: pr.Identifier}, true
}

// RecordRejectedReview фиксирует запрос изменений.
func (pr *PullRequest) RecordRejectedReview() (Event, bool) {
	pr.NotGTMCount++
	return Event{Kind: EventPRNotGTMed, PRIdentifier: pr.Identifier}, true
}

// RecordComment фиксирует комментарий к ревью.
func (pr *PullRequest) RecordComment() (Event, bool) {
	pr.CommentCount++
	return Event{Kind: EventPRCommented, PRIdentifier: pr.Identifier}, true
}

// RecordCIStatus запоминает последний статус CI (last-write-wins).
// PENDING отдельно не нотифицируется.
func (pr *PullRequest) RecordCIStatus(status CIStatus) (Event, bool) {
	pr.CIStatus = status
	switch status {
	case CIGreen:
		return Event{Kind: EventCIGreen, PRIdentifier: pr.Identifier}, true
	case CIRed:
		return Event{Kind: EventCIRed, PRIdentifier: pr.Identifier}, true
	default:
		return Event{}, false
	}
}

// RecordMerge помечает пул-реквест смерженным. Мерж терминален:
// повторный вызов ничего не меняет и события не порождает.
func (pr *PullRequest) RecordMerge() (Event, bool) {
	if pr.IsMerged {
		return Event{}, false
	}
	pr.IsMerged = true
	return Event{Kind: EventPRMerged, PRIdentifier: pr.Identifier}, true
}

// Copy возвращает глубокую копию агрегата.
func (pr *PullRequest) Copy() *PullRequest {
	clone := *pr
	clone.MessageIdentifiers = make([]MessageIdentifier, len(pr.MessageIdentifiers))
	copy(clone.MessageIdentifiers, pr.MessageIdentifiers)
	return &clone
}
