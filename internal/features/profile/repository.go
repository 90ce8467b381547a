// Package profile — repository.go выполняет все операции с таблицами
// users, builds и notes.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Repository предоставляет методы для работы с профилями.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий профилей.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateUser создаёт профиль со стартовым балансом.
// Запись стартового начисления попадает в историю транзакций той же
// транзакцией БД, чтобы история всегда сходилась с балансом.
// Повторное создание профиля возвращает common.ErrProfileExists.
func (r *Repository) CreateUser(ctx context.Context, u *User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO users (user_id, username, nickname, game_id, diamonds)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id, created_at
	`, u.UserID, u.Username, u.Nickname, u.GameID, u.Diamonds).Scan(&u.ID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrProfileExists
	}
	if err != nil {
		return fmt.Errorf("ошибка создания профиля: %w", err)
	}

	if u.Diamonds > 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO transactions (user_id, delta, reason)
			VALUES ($1, $2, 'стартовый баланс')
		`, u.UserID, u.Diamonds)
		if err != nil {
			return fmt.Errorf("ошибка записи стартового начисления: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ByUserID возвращает профиль по Telegram user ID.
// Если профиля нет — common.ErrNoProfile.
func (r *Repository) ByUserID(ctx context.Context, userID int64) (*User, error) {
	var u User
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, username, nickname, game_id, diamonds, created_at
		FROM users WHERE user_id = $1
	`, userID).Scan(&u.ID, &u.UserID, &u.Username, &u.Nickname, &u.GameID, &u.Diamonds, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения профиля: %w", err)
	}
	return &u, nil
}

// MissingUsers возвращает те из переданных ID, для которых профиль
// не найден. Используется при проверке состава команды турнира.
func (r *Repository) MissingUsers(ctx context.Context, ids []int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM users WHERE user_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки пользователей: %w", err)
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		found[id] = true
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// CreateBuild сохраняет сборку.
func (r *Repository) CreateBuild(ctx context.Context, b *Build) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO builds (user_id, hero_id, items, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, b.UserID, b.HeroID, b.Items, b.Description).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания сборки: %w", err)
	}
	return nil
}

// BuildsByUser возвращает сборки пользователя, новые сверху.
func (r *Repository) BuildsByUser(ctx context.Context, userID int64) ([]*Build, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, hero_id, items, description, created_at
		FROM builds WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сборок: %w", err)
	}
	defer rows.Close()

	var builds []*Build
	for rows.Next() {
		var b Build
		if err := rows.Scan(&b.ID, &b.UserID, &b.HeroID, &b.Items, &b.Description, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сборки: %w", err)
		}
		builds = append(builds, &b)
	}
	return builds, nil
}

// BuildByID возвращает сборку пользователя по ID.
// Чужие сборки не отдаются.
func (r *Repository) BuildByID(ctx context.Context, userID, buildID int64) (*Build, error) {
	var b Build
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, hero_id, items, description, created_at
		FROM builds WHERE id = $1 AND user_id = $2
	`, buildID, userID).Scan(&b.ID, &b.UserID, &b.HeroID, &b.Items, &b.Description, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сборки: %w", err)
	}
	return &b, nil
}

// CreateNote сохраняет заметку.
func (r *Repository) CreateNote(ctx context.Context, n *Note) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO notes (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, n.UserID, n.Title, n.Content).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания заметки: %w", err)
	}
	return nil
}

// NotesByUser возвращает заметки пользователя, новые сверху.
func (r *Repository) NotesByUser(ctx context.Context, userID int64) ([]*Note, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, content, created_at
		FROM notes WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заметок: %w", err)
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования заметки: %w", err)
		}
		notes = append(notes, &n)
	}
	return notes, nil
}

// NoteByID возвращает заметку пользователя по ID.
func (r *Repository) NoteByID(ctx context.Context, userID, noteID int64) (*Note, error) {
	var n Note
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, title, content, created_at
		FROM notes WHERE id = $1 AND user_id = $2
	`, noteID, userID).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заметки: %w", err)
	}
	return &n, nil
}
