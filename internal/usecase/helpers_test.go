package usecase_test

import (
	"context"
	"io"
	"sync"

	"pr-review-notifier/internal/domain"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// eventsSpy собирает опубликованные доменные события.
type eventsSpy struct {
	mu     sync.Mutex
	events []domain.Event
}

func (s *eventsSpy) Publish(_ context.Context, event domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *eventsSpy) kinds() []domain.EventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]domain.EventKind, len(s.events))
	for i, event := range s.events {
		kinds[i] = event.Kind
	}
	return kinds
}

// supportedStub — конфигурируемая заглушка allow-list.
type supportedStub struct {
	repositories map[string]bool
	channels     map[string]bool
}

func supportEverything() *supportedStub {
	return &supportedStub{}
}

func supportOnly(repository, channel string) *supportedStub {
	return &supportedStub{
		repositories: map[string]bool{repository: true},
		channels:     map[string]bool{channel: true},
	}
}

func (s *supportedStub) Repository(id domain.RepositoryIdentifier) bool {
	if s.repositories == nil {
		return true
	}
	return s.repositories[string(id)]
}

func (s *supportedStub) Channel(id domain.ChannelIdentifier) bool {
	if s.channels == nil {
		return true
	}
	return s.channels[string(id)]
}
