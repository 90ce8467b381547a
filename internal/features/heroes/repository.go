// Package heroes — repository.go выполняет операции с таблицей heroes.
package heroes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Repository предоставляет методы для работы со справочником героев.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий героев.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Roles возвращает роли героев по алфавиту.
func (r *Repository) Roles(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT role FROM heroes ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ролей: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("ошибка чтения роли: %w", err)
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// ByRole возвращает героев роли по алфавиту.
func (r *Repository) ByRole(ctx context.Context, role string) ([]*Hero, error) {
	return r.list(ctx, `
		SELECT id, name, role, tier, description, created_at
		FROM heroes WHERE role = $1 ORDER BY name
	`, role)
}

// HeroByID возвращает героя по ID.
func (r *Repository) HeroByID(ctx context.Context, heroID int64) (*Hero, error) {
	var h Hero
	err := r.db.QueryRow(ctx, `
		SELECT id, name, role, tier, description, created_at
		FROM heroes WHERE id = $1
	`, heroID).Scan(&h.ID, &h.Name, &h.Role, &h.Tier, &h.Description, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения героя: %w", err)
	}
	return &h, nil
}

// TierList возвращает всех героев, сгруппированных сортировкой
// по тиру (S первыми) и имени.
func (r *Repository) TierList(ctx context.Context) ([]*Hero, error) {
	return r.list(ctx, `
		SELECT id, name, role, tier, description, created_at
		FROM heroes ORDER BY tier, name
	`)
}

func (r *Repository) list(ctx context.Context, sql string, args ...any) ([]*Hero, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения героев: %w", err)
	}
	defer rows.Close()

	var out []*Hero
	for rows.Next() {
		var h Hero
		if err := rows.Scan(&h.ID, &h.Name, &h.Role, &h.Tier, &h.Description, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения героя: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}
