// Package economy — repository.go выполняет все денежные операции.
// Каждая операция идёт в транзакции БД с блокировкой строки пользователя
// (FOR UPDATE), чтобы баланс никогда не ушёл в минус и история операций
// всегда сходилась с балансом.
package economy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Repository предоставляет методы для работы с балансами и покупками.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий экономики.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ApplyDelta применяет подписанную сумму к балансу пользователя.
// Списание, после которого баланс стал бы отрицательным,
// отклоняется с common.ErrInsufficientBalance. Возвращает новый баланс.
func (r *Repository) ApplyDelta(ctx context.Context, userID, delta int64, reason string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	balance, err := lockBalance(ctx, tx, userID)
	if err != nil {
		return 0, err
	}
	if delta < 0 && balance+delta < 0 {
		return 0, common.ErrInsufficientBalance
	}

	newBalance, err := applyDeltaLocked(ctx, tx, userID, delta, reason)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return newBalance, nil
}

// Balance возвращает текущий баланс пользователя.
func (r *Repository) Balance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `SELECT diamonds FROM users WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, common.ErrNoProfile
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

// PurchaseItem проводит покупку товара одной транзакцией БД:
// запись о покупке, проверка баланса, списание и строка истории —
// либо всё, либо ничего. Повторная покупка того же товара тем же
// пользователем упирается в уникальный индекс и отклоняется.
func (r *Repository) PurchaseItem(ctx context.Context, userID, itemID, price int64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Сначала запись о покупке: дубликат обнаружится до списания
	tag, err := tx.Exec(ctx, `
		INSERT INTO purchases (user_id, item_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, item_id) DO NOTHING
	`, userID, itemID)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи покупки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, common.ErrAlreadyPurchased
	}

	balance, err := lockBalance(ctx, tx, userID)
	if err != nil {
		return 0, err
	}
	if balance < price {
		return 0, common.ErrInsufficientBalance
	}

	newBalance, err := applyDeltaLocked(ctx, tx, userID, -price, ReasonPurchase)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка фиксации покупки: %w", err)
	}
	return newBalance, nil
}

// HasPurchase сообщает, покупал ли пользователь товар.
func (r *Repository) HasPurchase(ctx context.Context, userID, itemID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM purchases WHERE user_id = $1 AND item_id = $2)`,
		userID, itemID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки покупки: %w", err)
	}
	return exists, nil
}

// History возвращает последние N операций пользователя.
func (r *Repository) History(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, delta, reason, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	defer rows.Close()

	var txs []*Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Delta, &t.Reason, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования транзакции: %w", err)
		}
		txs = append(txs, &t)
	}
	return txs, nil
}

// lockBalance блокирует строку пользователя и возвращает его баланс.
func lockBalance(ctx context.Context, tx pgx.Tx, userID int64) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx,
		`SELECT diamonds FROM users WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, common.ErrNoProfile
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

// applyDeltaLocked обновляет баланс и пишет строку истории.
// Вызывается только под блокировкой строки пользователя.
func applyDeltaLocked(ctx context.Context, tx pgx.Tx, userID, delta int64, reason string) (int64, error) {
	var newBalance int64
	err := tx.QueryRow(ctx, `
		UPDATE users SET diamonds = diamonds + $2 WHERE user_id = $1
		RETURNING diamonds
	`, userID, delta).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("ошибка обновления баланса: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (user_id, delta, reason)
		VALUES ($1, $2, $3)
	`, userID, delta, reason)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи транзакции: %w", err)
	}
	return newBalance, nil
}
