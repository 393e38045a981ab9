package notify

import (
	"context"
	"fmt"
	"strings"

	"pr-review-notifier/internal/domain"

	"github.com/slack-go/slack"
)

// SlackClient отправляет уведомления в треды Slack.
// Идентификатор сообщения <channel>@<timestamp> адресует тред:
// канал и thread_ts исходного сообщения.
type SlackClient struct {
	api *slack.Client
}

// NewSlackClient создает клиента Slack Web API.
func NewSlackClient(token string) *SlackClient {
	return &SlackClient{api: slack.New(token)}
}

// SendMessage постит текст в тред, на который указывает messageID.
func (c *SlackClient) SendMessage(ctx context.Context, messageID domain.MessageIdentifier, text string) error {
	channel, threadTS, err := splitMessageIdentifier(messageID)
	if err != nil {
		return err
	}

	_, _, err = c.api.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to %q: %w", messageID.String(), err)
	}
	return nil
}

func splitMessageIdentifier(messageID domain.MessageIdentifier) (channel, threadTS string, err error) {
	channel, threadTS, found := strings.Cut(messageID.String(), "@")
	if !found || channel == "" || threadTS == "" {
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidIdentifier, messageID.String())
	}
	return channel, threadTS, nil
}
