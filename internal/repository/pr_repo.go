package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pr-review-notifier/internal/domain"
)

// PRRepository реализует хранилище агрегатов пул-реквестов в PostgreSQL.
// Сериализация конкурентных read-modify-write циклов по одному
// идентификатору обеспечивается блокировкой строки (SELECT ... FOR UPDATE).
type PRRepository struct {
	db *sql.DB
}

// NewPRRepository создает новый экземпляр PRRepository.
func NewPRRepository(db *sql.DB) *PRRepository {
	return &PRRepository{db: db}
}

const prColumns = "identifier, gtms, not_gtms, comments, ci_status, is_merged, message_ids"

// Save выполняет upsert агрегата по идентификатору.
func (r *PRRepository) Save(ctx context.Context, pr *domain.PullRequest) error {
	messageIDs, err := marshalMessageIDs(pr.MessageIdentifiers)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pull_requests (identifier, gtms, not_gtms, comments, ci_status, is_merged, message_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (identifier) DO UPDATE SET
			gtms        = EXCLUDED.gtms,
			not_gtms    = EXCLUDED.not_gtms,
			comments    = EXCLUDED.comments,
			ci_status   = EXCLUDED.ci_status,
			is_merged   = EXCLUDED.is_merged,
			message_ids = EXCLUDED.message_ids`,
		pr.Identifier.String(), pr.GTMCount, pr.NotGTMCount, pr.CommentCount,
		string(pr.CIStatus), pr.IsMerged, messageIDs,
	)
	if err != nil {
		return fmt.Errorf("failed to save PR: %w", err)
	}
	return nil
}

// GetBy возвращает текущий агрегат по идентификатору.
func (r *PRRepository) GetBy(ctx context.Context, id domain.PRIdentifier) (*domain.PullRequest, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+prColumns+" FROM pull_requests WHERE identifier = $1", id.String())

	pr, err := scanPR(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPRNotFound
		}
		return nil, fmt.Errorf("failed to get PR: %w", err)
	}
	return pr, nil
}

// UpdateBy выполняет load-mutate-save в одной транзакции под блокировкой
// строки, поэтому два конкурентных инкремента не теряют друг друга.
func (r *PRRepository) UpdateBy(ctx context.Context, id domain.PRIdentifier, mutate func(*domain.PullRequest) error) (*domain.PullRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx,
		"SELECT "+prColumns+" FROM pull_requests WHERE identifier = $1 FOR UPDATE", id.String())

	pr, err := scanPR(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrPRNotFound
			return nil, err
		}
		return nil, fmt.Errorf("failed to lock PR: %w", err)
	}

	if err = mutate(pr); err != nil {
		return nil, err
	}

	messageIDs, err := marshalMessageIDs(pr.MessageIdentifiers)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE pull_requests SET
			gtms        = $2,
			not_gtms    = $3,
			comments    = $4,
			ci_status   = $5,
			is_merged   = $6,
			message_ids = $7
		WHERE identifier = $1`,
		pr.Identifier.String(), pr.GTMCount, pr.NotGTMCount, pr.CommentCount,
		string(pr.CIStatus), pr.IsMerged, messageIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update PR: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pr, nil
}

// UpdateOrCreateBy атомарно применяет mutate к существующему агрегату либо
// вставляет созданный через create. INSERT ... ON CONFLICT DO NOTHING
// покрывает гонку двух конкурентных первых постановок: проигравшая
// транзакция перечитывает строку победителя под блокировкой и применяет
// mutate к ней.
func (r *PRRepository) UpdateOrCreateBy(ctx context.Context, id domain.PRIdentifier, create func() (*domain.PullRequest, error), mutate func(*domain.PullRequest) error) (*domain.PullRequest, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx,
		"SELECT "+prColumns+" FROM pull_requests WHERE identifier = $1 FOR UPDATE", id.String())

	pr, err := scanPR(row)
	if errors.Is(err, sql.ErrNoRows) {
		pr, err = create()
		if err != nil {
			return nil, false, err
		}

		var messageIDs []byte
		messageIDs, err = marshalMessageIDs(pr.MessageIdentifiers)
		if err != nil {
			return nil, false, err
		}

		var res sql.Result
		res, err = tx.ExecContext(ctx, `
			INSERT INTO pull_requests (identifier, gtms, not_gtms, comments, ci_status, is_merged, message_ids)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (identifier) DO NOTHING`,
			pr.Identifier.String(), pr.GTMCount, pr.NotGTMCount, pr.CommentCount,
			string(pr.CIStatus), pr.IsMerged, messageIDs,
		)
		if err != nil {
			return nil, false, fmt.Errorf("failed to insert PR: %w", err)
		}

		var inserted int64
		inserted, err = res.RowsAffected()
		if err != nil {
			return nil, false, fmt.Errorf("failed to insert PR: %w", err)
		}
		if inserted == 1 {
			if err = tx.Commit(); err != nil {
				return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
			}
			return pr, true, nil
		}

		// Конкурентная транзакция успела создать строку первой
		row = tx.QueryRowContext(ctx,
			"SELECT "+prColumns+" FROM pull_requests WHERE identifier = $1 FOR UPDATE", id.String())
		pr, err = scanPR(row)
		if err != nil {
			return nil, false, fmt.Errorf("failed to lock PR: %w", err)
		}
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to lock PR: %w", err)
	}

	if err = mutate(pr); err != nil {
		return nil, false, err
	}

	messageIDs, err := marshalMessageIDs(pr.MessageIdentifiers)
	if err != nil {
		return nil, false, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE pull_requests SET
			gtms        = $2,
			not_gtms    = $3,
			comments    = $4,
			ci_status   = $5,
			is_merged   = $6,
			message_ids = $7
		WHERE identifier = $1`,
		pr.Identifier.String(), pr.GTMCount, pr.NotGTMCount, pr.CommentCount,
		string(pr.CIStatus), pr.IsMerged, messageIDs,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update PR: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pr, false, nil
}

// All возвращает все агрегаты, отсортированные по идентификатору.
func (r *PRRepository) All(ctx context.Context) ([]*domain.PullRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+prColumns+" FROM pull_requests ORDER BY identifier")
	if err != nil {
		return nil, fmt.Errorf("failed to list PRs: %w", err)
	}
	defer rows.Close()

	var prs []*domain.PullRequest
	for rows.Next() {
		pr, err := scanPR(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan PR: %w", err)
		}
		prs = append(prs, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate PRs: %w", err)
	}
	return prs, nil
}

// Reset очищает хранилище. Административная/тестовая операция.
func (r *PRRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "TRUNCATE pull_requests"); err != nil {
		return fmt.Errorf("failed to reset PRs: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPR(row rowScanner) (*domain.PullRequest, error) {
	var (
		pr         domain.PullRequest
		identifier string
		ciStatus   string
		messageIDs []byte
	)
	err := row.Scan(&identifier, &pr.GTMCount, &pr.NotGTMCount, &pr.CommentCount,
		&ciStatus, &pr.IsMerged, &messageIDs)
	if err != nil {
		return nil, err
	}

	pr.Identifier = domain.PRIdentifier(identifier)
	pr.CIStatus = domain.CIStatus(ciStatus)
	if err := json.Unmarshal(messageIDs, &pr.MessageIdentifiers); err != nil {
		return nil, fmt.Errorf("failed to decode message ids: %w", err)
	}
	return &pr, nil
}

func marshalMessageIDs(ids []domain.MessageIdentifier) ([]byte, error) {
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message ids: %w", err)
	}
	return encoded, nil
}
