package domain

import "context"

// PRRepository определяет контракт хранилища агрегатов пул-реквестов.
// Хранилище гарантирует не более одного агрегата на идентификатор и
// сериализует конкурентные read-modify-write циклы по одному идентификатору.
type PRRepository interface {
	// Save выполняет upsert по идентификатору.
	Save(ctx context.Context, pr *PullRequest) error
	// GetBy возвращает текущий агрегат либо ErrPRNotFound.
	GetBy(ctx context.Context, id PRIdentifier) (*PullRequest, error)
	// UpdateBy атомарно выполняет load-mutate-save для одного агрегата.
	// Единственный безопасный путь для инкремента счетчиков под конкуренцией.
	UpdateBy(ctx context.Context, id PRIdentifier, mutate func(*PullRequest) error) (*PullRequest, error)
	// UpdateOrCreateBy атомарно применяет mutate к существующему агрегату
	// либо сохраняет созданный через create, если идентификатор еще не
	// встречался. Возвращает true при создании. Закрывает гонку двух
	// конкурентных первых постановок по одному идентификатору.
	UpdateOrCreateBy(ctx context.Context, id PRIdentifier, create func() (*PullRequest, error), mutate func(*PullRequest) error) (*PullRequest, bool, error)
	// All возвращает все агрегаты (порядок только для отображения).
	All(ctx context.Context) ([]*PullRequest, error)
	// Reset очищает хранилище. Административная/тестовая операция.
	Reset(ctx context.Context) error
}

// IsSupported отвечает, отслеживается ли репозиторий/канал сервисом.
type IsSupported interface {
	Repository(id RepositoryIdentifier) bool
	Channel(id ChannelIdentifier) bool
}

// EventBus публикует доменные события подписчикам внутри процесса.
type EventBus interface {
	Publish(ctx context.Context, event Event)
}

// PRFinder резолвит номер пул-реквеста, связанного с коммитом.
// События commit status не содержат ссылку на PR, номер приходится
// искать на стороне VCS-платформы.
type PRFinder interface {
	// FindPRNumber возвращает номер PR либо ErrNoPRForCommit.
	FindPRNumber(ctx context.Context, repository RepositoryIdentifier, commitSHA string) (int, error)
}

// ChatClient отправляет сообщение в тред чат-платформы.
type ChatClient interface {
	SendMessage(ctx context.Context, messageID MessageIdentifier, text string) error
}

// PutPRToReview — команда постановки пул-реквеста на ревью.
type PutPRToReview struct {
	RepositoryIdentifier string
	PRIdentifier         string
	ChannelIdentifier    string
	MessageIdentifier    string
}

// NewReview — команда фиксации результата ревью.
type NewReview struct {
	RepositoryIdentifier string
	PRIdentifier         string
	ReviewStatus         string
}

// CIStatusUpdate — команда фиксации нового статуса CI.
type CIStatusUpdate struct {
	RepositoryIdentifier string
	PRIdentifier         string
	Status               CIStatus
}

// MergePR — команда фиксации мержа пул-реквеста.
type MergePR struct {
	RepositoryIdentifier string
	PRIdentifier         string
}

// PutPRToReviewUseCase ставит пул-реквест на ревью (создает агрегат
// либо прикрепляет новый тред к существующему).
type PutPRToReviewUseCase interface {
	Handle(ctx context.Context, command PutPRToReview) error
}

// NewReviewUseCase применяет результат ревью к агрегату.
type NewReviewUseCase interface {
	Handle(ctx context.Context, command NewReview) error
}

// CIStatusUpdateUseCase применяет статус CI к агрегату.
type CIStatusUpdateUseCase interface {
	Handle(ctx context.Context, command CIStatusUpdate) error
}

// MergePRUseCase помечает агрегат смерженным.
type MergePRUseCase interface {
	Handle(ctx context.Context, command MergePR) error
}
