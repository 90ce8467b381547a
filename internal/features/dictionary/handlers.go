// Package dictionary — handlers.go формирует ответы раздела «Словарь»:
// категории, термины категории, карточка термина.
package dictionary

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/ui"
)

// Handler формирует ответы словаря.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик словаря.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ShowDictionary показывает меню словаря.
// isAdmin добавляет действие добавления термина.
func (h *Handler) ShowDictionary(isAdmin bool) *ui.Response {
	resp := ui.Text("📖 Словарь игровых терминов").
		WithAction("🔍 Поиск термина", "search_term").
		WithAction("📋 Категории", "term_categories")
	if isAdmin {
		resp.WithAction("➕ Добавить термин", "add_term")
	}
	return resp.WithMenu()
}

// ShowCategories показывает категории словаря.
func (h *Handler) ShowCategories(ctx context.Context) *ui.Response {
	categories, err := h.service.Categories(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения категорий словаря")
		return ui.Text("❌ Ошибка получения категорий").WithBack("dictionary")
	}
	if len(categories) == 0 {
		return ui.Text("📋 Словарь пока пуст").WithBack("dictionary")
	}

	resp := ui.Text("📋 Категории терминов\n\nВыберите категорию:")
	for _, c := range categories {
		resp.WithAction(c, "term_category:"+c)
	}
	return resp.WithBack("dictionary")
}

// ShowCategory показывает термины категории.
func (h *Handler) ShowCategory(ctx context.Context, category string) *ui.Response {
	terms, err := h.service.ByCategory(ctx, category)
	if err != nil {
		log.WithError(err).WithField("category", category).Error("Ошибка получения терминов")
		return ui.Text("❌ Ошибка получения терминов").WithBack("term_categories")
	}

	resp := ui.Text(fmt.Sprintf("📋 Термины категории «%s»:", category))
	for _, t := range terms {
		resp.WithAction(t.Name, fmt.Sprintf("term:%d", t.ID))
	}
	return resp.WithBack("term_categories")
}

// ShowTerm показывает карточку термина.
func (h *Handler) ShowTerm(ctx context.Context, termID int64) *ui.Response {
	t, err := h.service.Get(ctx, termID)
	if errors.Is(err, common.ErrNotFound) {
		return ui.Text("❌ Термин не найден").WithBack("term_categories")
	}
	if err != nil {
		log.WithError(err).WithField("term_id", termID).Error("Ошибка получения термина")
		return ui.Text("❌ Ошибка получения термина").WithBack("term_categories")
	}

	return ui.Text(fmt.Sprintf(
		"📖 %s\n\nКатегория: %s\n\n%s",
		t.Name, t.Category, t.Description,
	)).WithBack("term_category:" + t.Category)
}
