package scope

import (
	"pr-review-notifier/internal/domain"
)

// AllowList отвечает, отслеживает ли сервис данный репозиторий и канал.
// Списки задаются конфигурацией при старте и далее не меняются.
type AllowList struct {
	repositories map[domain.RepositoryIdentifier]struct{}
	channels     map[domain.ChannelIdentifier]struct{}
}

// NewAllowList создает фильтр из списков поддерживаемых репозиториев и каналов.
func NewAllowList(repositories, channels []string) *AllowList {
	list := &AllowList{
		repositories: make(map[domain.RepositoryIdentifier]struct{}, len(repositories)),
		channels:     make(map[domain.ChannelIdentifier]struct{}, len(channels)),
	}
	for _, repo := range repositories {
		list.repositories[domain.RepositoryIdentifier(repo)] = struct{}{}
	}
	for _, channel := range channels {
		list.channels[domain.ChannelIdentifier(channel)] = struct{}{}
	}
	return list
}

// Repository сообщает, входит ли репозиторий в allow-list.
func (l *AllowList) Repository(id domain.RepositoryIdentifier) bool {
	_, ok := l.repositories[id]
	return ok
}

// Channel сообщает, входит ли канал в allow-list.
func (l *AllowList) Channel(id domain.ChannelIdentifier) bool {
	_, ok := l.channels[id]
	return ok
}
