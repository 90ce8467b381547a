// Package dictionary — repository.go выполняет операции с таблицей terms.
package dictionary

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Repository предоставляет методы для работы со словарём.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий словаря.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateTerm сохраняет новый термин. Дубликат названия (без учёта
// регистра) упирается в уникальный индекс и отклоняется
// с common.ErrTermExists.
func (r *Repository) CreateTerm(ctx context.Context, t *Term) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO terms (name, description, category)
		VALUES ($1, $2, $3)
		ON CONFLICT (lower(name)) DO NOTHING
		RETURNING id, created_at
	`, t.Name, t.Description, t.Category).Scan(&t.ID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrTermExists
	}
	if err != nil {
		return fmt.Errorf("ошибка создания термина: %w", err)
	}
	return nil
}

// TermByID возвращает термин по ID.
func (r *Repository) TermByID(ctx context.Context, termID int64) (*Term, error) {
	var t Term
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, category, created_at
		FROM terms WHERE id = $1
	`, termID).Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения термина: %w", err)
	}
	return &t, nil
}

// Categories возвращает категории словаря по алфавиту.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM terms ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения категорий: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("ошибка чтения категории: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ByCategory возвращает термины категории по алфавиту.
func (r *Repository) ByCategory(ctx context.Context, category string) ([]*Term, error) {
	return r.list(ctx, `
		SELECT id, name, description, category, created_at
		FROM terms WHERE category = $1 ORDER BY name
	`, category)
}

// Search ищет термины по подстроке названия без учёта регистра.
func (r *Repository) Search(ctx context.Context, query string) ([]*Term, error) {
	return r.list(ctx, `
		SELECT id, name, description, category, created_at
		FROM terms WHERE name ILIKE '%' || $1 || '%' ORDER BY name
	`, query)
}

func (r *Repository) list(ctx context.Context, sql string, args ...any) ([]*Term, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения терминов: %w", err)
	}
	defer rows.Close()

	var out []*Term
	for rows.Next() {
		var t Term
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения термина: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
