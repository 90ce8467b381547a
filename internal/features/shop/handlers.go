// Package shop — handlers.go формирует ответы раздела «Магазин»:
// витрина, категории, карточка товара, покупка, модерация.
package shop

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/ui"
)

// Handler формирует ответы магазина.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик магазина.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ShowShop показывает меню магазина.
// isAdmin добавляет действия выставления и модерации.
func (h *Handler) ShowShop(isAdmin bool) *ui.Response {
	resp := ui.Text(
		"🛍 Магазин\n\n" +
			"⚠️ Все сделки проходят между пользователями. " +
			"Бот не несёт ответственности за передачу товаров. Будьте осторожны!",
	).
		WithAction("🔍 Поиск товара", "search_item").
		WithAction("📋 Категории", "shop_categories")
	if isAdmin {
		resp.WithAction("➕ Добавить товар", "add_item")
		resp.WithAction("🗂 Модерация", "moderate")
	}
	return resp.WithMenu()
}

// ShowCategories показывает категории витрины.
func (h *Handler) ShowCategories(ctx context.Context) *ui.Response {
	categories, err := h.service.Categories(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения категорий")
		return ui.Text("❌ Ошибка получения категорий").WithBack("shop")
	}
	if len(categories) == 0 {
		return ui.Text("📋 В магазине пока нет товаров").WithBack("shop")
	}

	resp := ui.Text("📋 Категории товаров\n\nВыберите категорию:")
	for _, c := range categories {
		resp.WithAction(c, "shop_category:"+c)
	}
	return resp.WithBack("shop")
}

// ShowCategory показывает товары категории.
func (h *Handler) ShowCategory(ctx context.Context, category string) *ui.Response {
	items, err := h.service.ByCategory(ctx, category)
	if err != nil {
		log.WithError(err).WithField("category", category).Error("Ошибка получения товаров")
		return ui.Text("❌ Ошибка получения товаров").WithBack("shop_categories")
	}

	resp := ui.Text(fmt.Sprintf("📋 Товары категории «%s»\n\nВыберите товар для просмотра:", category))
	for _, item := range items {
		resp.WithAction(
			fmt.Sprintf("%s — %d 💎", item.Title, item.Price),
			fmt.Sprintf("item:%d", item.ID),
		)
	}
	return resp.WithBack("shop_categories")
}

// ShowItem показывает карточку товара с кнопкой покупки,
// если пользователь ещё не покупал его.
func (h *Handler) ShowItem(ctx context.Context, userID, itemID int64) *ui.Response {
	item, err := h.service.Item(ctx, itemID)
	if errors.Is(err, common.ErrNotFound) {
		return ui.Text("❌ Товар не найден").WithBack("shop_categories")
	}
	if err != nil {
		log.WithError(err).WithField("item_id", itemID).Error("Ошибка получения товара")
		return ui.Text("❌ Ошибка получения товара").WithBack("shop_categories")
	}

	text := fmt.Sprintf(
		"🛍 %s\n\nКатегория: %s\nЦена: %s\n\nОписание:\n%s",
		item.Title, item.Category, common.FormatDiamonds(item.Price), item.Description,
	)
	resp := ui.Text(text)

	purchased, err := h.service.HasPurchase(ctx, userID, itemID)
	if err != nil {
		log.WithError(err).WithField("item_id", itemID).Warn("Не удалось проверить покупку")
	}
	if !purchased {
		resp.WithAction(
			fmt.Sprintf("Купить за %d 💎", item.Price),
			fmt.Sprintf("buy:%d", item.ID),
		)
	}
	return resp.WithBack("shop_category:" + item.Category)
}

// HandleBuy проводит покупку и показывает результат.
func (h *Handler) HandleBuy(ctx context.Context, userID, itemID int64) *ui.Response {
	item, newBalance, err := h.service.Buy(ctx, userID, itemID)
	switch {
	case errors.Is(err, common.ErrNoProfile):
		return ui.Text("❌ Сначала создайте профиль, чтобы покупать товары").
			WithAction("📝 Создать профиль", "create_profile")
	case errors.Is(err, common.ErrNotFound):
		return ui.Text("❌ Товар не найден").WithBack("shop_categories")
	case errors.Is(err, common.ErrAlreadyPurchased):
		return ui.Text("❌ Вы уже купили этот товар").WithBack("shop_categories")
	case errors.Is(err, common.ErrInsufficientBalance):
		return ui.Text("❌ Недостаточно алмазов для покупки").WithBack("shop_categories")
	case err != nil:
		log.WithError(err).WithFields(log.Fields{
			"user_id": userID,
			"item_id": itemID,
		}).Error("Ошибка покупки")
		return ui.Text("❌ Ошибка выполнения покупки").WithBack("shop_categories")
	}

	return ui.Text(fmt.Sprintf(
		"✅ Товар успешно куплен!\n\nНазвание: %s\nЦена: %s\nОстаток: %s",
		item.Title, common.FormatDiamonds(item.Price), common.FormatDiamonds(newBalance),
	)).WithBack("shop")
}

// ShowPending показывает товары на модерации (только администраторам).
func (h *Handler) ShowPending(ctx context.Context) *ui.Response {
	items, err := h.service.Pending(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения товаров на модерации")
		return ui.Text("❌ Ошибка получения товаров").WithBack("shop")
	}
	if len(items) == 0 {
		return ui.Text("🗂 Нет товаров на модерации").WithBack("shop")
	}

	item := items[0]
	text := fmt.Sprintf(
		"🗂 Модерация (%d в очереди)\n\n%s\n\nКатегория: %s\nЦена: %s\nПродавец: %d\n\n%s",
		len(items), item.Title, item.Category, common.FormatDiamonds(item.Price),
		item.SellerID, item.Description,
	)
	return ui.Text(text).
		WithAction("✅ Одобрить", fmt.Sprintf("approve:%d", item.ID)).
		WithAction("❌ Отклонить", fmt.Sprintf("reject:%d", item.ID)).
		WithBack("shop")
}

// HandleModerate одобряет или отклоняет товар и показывает следующий.
func (h *Handler) HandleModerate(ctx context.Context, itemID int64, approve bool) *ui.Response {
	item, err := h.service.Moderate(ctx, itemID, approve)
	if errors.Is(err, common.ErrNotFound) {
		return ui.Text("❌ Товар не найден").WithBack("shop")
	}
	if err != nil {
		log.WithError(err).WithField("item_id", itemID).Error("Ошибка модерации")
		return ui.Text("❌ Ошибка модерации").WithBack("shop")
	}

	verdict := "отклонён"
	if approve {
		verdict = "одобрен"
	}
	return ui.Text(fmt.Sprintf("Товар «%s» %s", item.Title, verdict)).
		WithAction("🗂 Следующий", "moderate").
		WithBack("shop")
}
