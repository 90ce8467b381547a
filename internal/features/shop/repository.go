// Package shop — repository.go выполняет все операции с таблицей shop_items.
package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Repository предоставляет методы для работы с товарами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий магазина.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateItem сохраняет новый товар.
func (r *Repository) CreateItem(ctx context.Context, item *Item) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO shop_items (seller_id, title, description, price, category, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, item.SellerID, item.Title, item.Description, item.Price, item.Category, item.Status).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания товара: %w", err)
	}
	return nil
}

// ItemByID возвращает товар по ID.
func (r *Repository) ItemByID(ctx context.Context, itemID int64) (*Item, error) {
	var item Item
	err := r.db.QueryRow(ctx, `
		SELECT id, seller_id, title, description, price, category, status, created_at
		FROM shop_items WHERE id = $1
	`, itemID).Scan(
		&item.ID, &item.SellerID, &item.Title, &item.Description,
		&item.Price, &item.Category, &item.Status, &item.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения товара: %w", err)
	}
	return &item, nil
}

// Categories возвращает категории, в которых есть одобренные товары.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT category FROM shop_items
		WHERE status = $1 ORDER BY category
	`, StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения категорий: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("ошибка сканирования категории: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// ByCategory возвращает одобренные товары категории.
func (r *Repository) ByCategory(ctx context.Context, category string) ([]*Item, error) {
	return r.list(ctx, `
		SELECT id, seller_id, title, description, price, category, status, created_at
		FROM shop_items WHERE status = $1 AND category = $2
		ORDER BY id
	`, StatusApproved, category)
}

// Search ищет одобренные товары по подстроке названия.
func (r *Repository) Search(ctx context.Context, query string) ([]*Item, error) {
	return r.list(ctx, `
		SELECT id, seller_id, title, description, price, category, status, created_at
		FROM shop_items WHERE status = $1 AND title ILIKE $2
		ORDER BY id
	`, StatusApproved, "%"+query+"%")
}

// Pending возвращает товары, ожидающие модерации.
func (r *Repository) Pending(ctx context.Context) ([]*Item, error) {
	return r.list(ctx, `
		SELECT id, seller_id, title, description, price, category, status, created_at
		FROM shop_items WHERE status = $1
		ORDER BY id
	`, StatusPending)
}

// SetStatus переводит товар в новый статус (модерация).
func (r *Repository) SetStatus(ctx context.Context, itemID int64, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE shop_items SET status = $2 WHERE id = $1`, itemID, status)
	if err != nil {
		return fmt.Errorf("ошибка смены статуса товара: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Item, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения товаров: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.SellerID, &item.Title, &item.Description,
			&item.Price, &item.Category, &item.Status, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования товара: %w", err)
		}
		items = append(items, &item)
	}
	return items, nil
}
