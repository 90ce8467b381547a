// Package economy — service.go содержит бизнес-логику леджера:
// проверки сумм, покупки, форматирование истории операций.
package economy

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Store — операции хранилища, нужные леджеру.
// Реализуется Repository; в тестах подменяется фейком.
type Store interface {
	ApplyDelta(ctx context.Context, userID, delta int64, reason string) (int64, error)
	Balance(ctx context.Context, userID int64) (int64, error)
	PurchaseItem(ctx context.Context, userID, itemID, price int64) (int64, error)
	HasPurchase(ctx context.Context, userID, itemID int64) (bool, error)
	History(ctx context.Context, userID int64, limit int) ([]*Transaction, error)
}

// Service — леджер: все изменения баланса проходят через него.
type Service struct {
	store Store
}

// NewService создаёт сервис экономики.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ApplyDelta применяет подписанную сумму к балансу.
// Нулевая сумма — ошибка вызывающего кода.
func (s *Service) ApplyDelta(ctx context.Context, userID, delta int64, reason string) (int64, error) {
	if delta == 0 {
		return 0, common.ErrInvalidAmount
	}
	newBalance, err := s.store.ApplyDelta(ctx, userID, delta, reason)
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"delta":   delta,
		"reason":  reason,
		"balance": newBalance,
	}).Info("Баланс изменён")
	return newBalance, nil
}

// Balance возвращает текущий баланс пользователя.
func (s *Service) Balance(ctx context.Context, userID int64) (int64, error) {
	return s.store.Balance(ctx, userID)
}

// Buy проводит покупку товара: списание и запись о покупке атомарны.
func (s *Service) Buy(ctx context.Context, userID, itemID, price int64) (int64, error) {
	if price < 0 {
		return 0, common.ErrInvalidAmount
	}
	newBalance, err := s.store.PurchaseItem(ctx, userID, itemID, price)
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"item_id": itemID,
		"price":   price,
		"balance": newBalance,
	}).Info("Покупка проведена")
	return newBalance, nil
}

// HasPurchase сообщает, покупал ли пользователь товар.
func (s *Service) HasPurchase(ctx context.Context, userID, itemID int64) (bool, error) {
	return s.store.HasPurchase(ctx, userID, itemID)
}

// FormatHistory возвращает форматированную историю последних операций.
func (s *Service) FormatHistory(ctx context.Context, userID int64) (string, error) {
	txs, err := s.store.History(ctx, userID, 10)
	if err != nil {
		return "", err
	}
	if len(txs) == 0 {
		return "📋 У вас пока нет транзакций", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Последние %d операций:\n\n", len(txs)))
	for i, t := range txs {
		sb.WriteString(fmt.Sprintf("%d. %s | %s | %s\n",
			i+1,
			common.FormatDateTime(t.CreatedAt),
			common.FormatDelta(t.Delta),
			t.Reason,
		))
	}
	return sb.String(), nil
}
