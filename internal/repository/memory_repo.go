package repository

import (
	"context"
	"sort"
	"sync"

	"pr-review-notifier/internal/domain"
)

// MemoryPRRepository — потокобезопасное хранилище агрегатов в памяти.
// Мьютекс удерживается на весь цикл load-mutate-save в UpdateBy, поэтому
// конкурентные инкременты по одному идентификатору не теряются.
// Используется в тестах и в режиме STORAGE=memory.
type MemoryPRRepository struct {
	mu  sync.Mutex
	prs map[domain.PRIdentifier]*domain.PullRequest
}

// NewMemoryPRRepository создает пустое in-memory хранилище.
func NewMemoryPRRepository() *MemoryPRRepository {
	return &MemoryPRRepository{
		prs: make(map[domain.PRIdentifier]*domain.PullRequest),
	}
}

// Save выполняет upsert по идентификатору. Хранится глубокая копия,
// чтобы читатели не видели частично записанный агрегат.
func (r *MemoryPRRepository) Save(_ context.Context, pr *domain.PullRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prs[pr.Identifier] = pr.Copy()
	return nil
}

// GetBy возвращает копию текущего агрегата либо ErrPRNotFound.
func (r *MemoryPRRepository) GetBy(_ context.Context, id domain.PRIdentifier) (*domain.PullRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.prs[id]
	if !ok {
		return nil, domain.ErrPRNotFound
	}
	return pr.Copy(), nil
}

// UpdateBy атомарно выполняет load-mutate-save для одного агрегата.
func (r *MemoryPRRepository) UpdateBy(_ context.Context, id domain.PRIdentifier, mutate func(*domain.PullRequest) error) (*domain.PullRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.prs[id]
	if !ok {
		return nil, domain.ErrPRNotFound
	}
	updated := pr.Copy()
	if err := mutate(updated); err != nil {
		return nil, err
	}
	r.prs[id] = updated
	return updated.Copy(), nil
}

// UpdateOrCreateBy атомарно применяет mutate к существующему агрегату либо
// сохраняет созданный через create. Мьютекс удерживается на весь цикл,
// поэтому конкурентные первые постановки не затирают message identifiers
// друг друга.
func (r *MemoryPRRepository) UpdateOrCreateBy(_ context.Context, id domain.PRIdentifier, create func() (*domain.PullRequest, error), mutate func(*domain.PullRequest) error) (*domain.PullRequest, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.prs[id]; ok {
		updated := stored.Copy()
		if err := mutate(updated); err != nil {
			return nil, false, err
		}
		r.prs[id] = updated
		return updated.Copy(), false, nil
	}

	pr, err := create()
	if err != nil {
		return nil, false, err
	}
	r.prs[id] = pr.Copy()
	return pr.Copy(), true, nil
}

// All возвращает все агрегаты, отсортированные по идентификатору.
func (r *MemoryPRRepository) All(_ context.Context) ([]*domain.PullRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prs := make([]*domain.PullRequest, 0, len(r.prs))
	for _, pr := range r.prs {
		prs = append(prs, pr.Copy())
	}
	sort.Slice(prs, func(i, j int) bool {
		return prs[i].Identifier < prs[j].Identifier
	})
	return prs, nil
}

// Reset очищает хранилище.
func (r *MemoryPRRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prs = make(map[domain.PRIdentifier]*domain.PullRequest)
	return nil
}
