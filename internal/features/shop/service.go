// Package shop — service.go содержит бизнес-логику магазина:
// выставление товаров на модерацию, витрина, покупка через леджер.
package shop

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Store — операции хранилища, нужные сервису магазина.
type Store interface {
	CreateItem(ctx context.Context, item *Item) error
	ItemByID(ctx context.Context, itemID int64) (*Item, error)
	Categories(ctx context.Context) ([]string, error)
	ByCategory(ctx context.Context, category string) ([]*Item, error)
	Search(ctx context.Context, query string) ([]*Item, error)
	Pending(ctx context.Context) ([]*Item, error)
	SetStatus(ctx context.Context, itemID int64, status string) error
}

// Ledger — часть экономики, нужная магазину.
// Реализуется economy.Service.
type Ledger interface {
	Buy(ctx context.Context, userID, itemID, price int64) (int64, error)
	HasPurchase(ctx context.Context, userID, itemID int64) (bool, error)
}

// Service управляет магазином.
type Service struct {
	store  Store
	ledger Ledger
}

// NewService создаёт сервис магазина.
func NewService(store Store, ledger Ledger) *Service {
	return &Service{store: store, ledger: ledger}
}

// ListItem выставляет товар: он попадает на модерацию со статусом pending.
func (s *Service) ListItem(ctx context.Context, sellerID int64, title, description string, price int64, category string) (*Item, error) {
	if price < 0 {
		return nil, common.ErrInvalidAmount
	}
	item := &Item{
		SellerID:    sellerID,
		Title:       title,
		Description: description,
		Price:       price,
		Category:    category,
		Status:      StatusPending,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"item_id":   item.ID,
		"seller_id": sellerID,
		"price":     price,
	}).Info("Товар выставлен на модерацию")
	return item, nil
}

// Item возвращает товар по ID.
func (s *Service) Item(ctx context.Context, itemID int64) (*Item, error) {
	return s.store.ItemByID(ctx, itemID)
}

// Categories возвращает категории витрины.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

// ByCategory возвращает товары категории.
func (s *Service) ByCategory(ctx context.Context, category string) ([]*Item, error) {
	return s.store.ByCategory(ctx, category)
}

// Search ищет товары по названию.
func (s *Service) Search(ctx context.Context, query string) ([]*Item, error) {
	return s.store.Search(ctx, query)
}

// Buy покупает товар. Деньги списывает леджер; запись о покупке
// и списание — одна атомарная операция на его стороне.
func (s *Service) Buy(ctx context.Context, userID, itemID int64) (*Item, int64, error) {
	item, err := s.store.ItemByID(ctx, itemID)
	if err != nil {
		return nil, 0, err
	}
	if item.Status != StatusApproved {
		return nil, 0, common.ErrNotFound
	}

	newBalance, err := s.ledger.Buy(ctx, userID, itemID, item.Price)
	if err != nil {
		return nil, 0, err
	}
	return item, newBalance, nil
}

// HasPurchase сообщает, покупал ли пользователь товар.
func (s *Service) HasPurchase(ctx context.Context, userID, itemID int64) (bool, error) {
	return s.ledger.HasPurchase(ctx, userID, itemID)
}

// Pending возвращает товары на модерации.
func (s *Service) Pending(ctx context.Context) ([]*Item, error) {
	return s.store.Pending(ctx)
}

// Moderate одобряет или отклоняет товар.
func (s *Service) Moderate(ctx context.Context, itemID int64, approve bool) (*Item, error) {
	status := StatusRejected
	if approve {
		status = StatusApproved
	}
	if err := s.store.SetStatus(ctx, itemID, status); err != nil {
		return nil, err
	}

	item, err := s.store.ItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("товар обновлён, но не прочитан: %w", err)
	}
	log.WithFields(log.Fields{
		"item_id": itemID,
		"status":  status,
	}).Info("Товар прошёл модерацию")
	return item, nil
}
