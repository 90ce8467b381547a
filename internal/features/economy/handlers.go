// Package economy — handlers.go формирует ответы по балансу
// и истории операций.
package economy

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/ui"
)

// Handler формирует ответы экономики.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик экономики.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ShowBalance показывает текущий баланс.
func (h *Handler) ShowBalance(ctx context.Context, userID int64) *ui.Response {
	balance, err := h.service.Balance(ctx, userID)
	if errors.Is(err, common.ErrNoProfile) {
		return ui.Text("❌ Сначала создайте профиль").
			WithAction("📝 Создать профиль", "create_profile").WithMenu()
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения баланса")
		return ui.Text("❌ Ошибка получения баланса").WithMenu()
	}
	return ui.Text(fmt.Sprintf("💰 Баланс: %s", common.FormatDiamonds(balance))).WithBack("profile")
}

// ShowHistory показывает историю операций пользователя.
func (h *Handler) ShowHistory(ctx context.Context, userID int64) *ui.Response {
	history, err := h.service.FormatHistory(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения транзакций")
		return ui.Text("❌ Ошибка получения истории операций").WithBack("profile")
	}
	return ui.Text(history).WithBack("profile")
}
