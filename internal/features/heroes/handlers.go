// Package heroes — handlers.go формирует ответы раздела «Герои»:
// роли, список героев роли, карточка, тир-лист.
package heroes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/ui"
)

// Handler формирует ответы справочника героев.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик справочника героев.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ShowHeroes показывает меню справочника: роли и тир-лист.
func (h *Handler) ShowHeroes(ctx context.Context) *ui.Response {
	roles, err := h.service.Roles(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения ролей")
		return ui.Text("❌ Ошибка получения справочника героев").WithMenu()
	}

	resp := ui.Text("⚔️ Герои\n\nВыберите роль:")
	for _, role := range roles {
		resp.WithAction(role, "hero_role:"+role)
	}
	return resp.WithAction("🏅 Тир-лист", "tier_list").WithMenu()
}

// ShowRole показывает героев роли.
func (h *Handler) ShowRole(ctx context.Context, role string) *ui.Response {
	heroes, err := h.service.ByRole(ctx, role)
	if err != nil {
		log.WithError(err).WithField("role", role).Error("Ошибка получения героев роли")
		return ui.Text("❌ Ошибка получения героев").WithBack("heroes")
	}

	resp := ui.Text(fmt.Sprintf("⚔️ Герои роли «%s»:", role))
	for _, hero := range heroes {
		resp.WithAction(
			fmt.Sprintf("%s [%s]", hero.Name, hero.Tier),
			fmt.Sprintf("hero:%d", hero.ID),
		)
	}
	return resp.WithBack("heroes")
}

// ShowHero показывает карточку героя с действием создания сборки.
func (h *Handler) ShowHero(ctx context.Context, heroID int64) *ui.Response {
	hero, err := h.service.Get(ctx, heroID)
	if errors.Is(err, common.ErrNotFound) {
		return ui.Text("❌ Герой не найден").WithBack("heroes")
	}
	if err != nil {
		log.WithError(err).WithField("hero_id", heroID).Error("Ошибка получения героя")
		return ui.Text("❌ Ошибка получения героя").WithBack("heroes")
	}

	return ui.Text(fmt.Sprintf(
		"⚔️ %s\n\nРоль: %s\nТир: %s\n\n%s",
		hero.Name, hero.Role, hero.Tier, hero.Description,
	)).
		WithAction("🛠 Создать сборку", fmt.Sprintf("create_build:%d", hero.ID)).
		WithBack("hero_role:" + hero.Role)
}

// ShowTierList показывает тир-лист героев.
func (h *Handler) ShowTierList(ctx context.Context) *ui.Response {
	byTier, order, err := h.service.TierList(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения тир-листа")
		return ui.Text("❌ Ошибка получения тир-листа").WithBack("heroes")
	}
	if len(order) == 0 {
		return ui.Text("🏅 Тир-лист пока пуст").WithBack("heroes")
	}

	var sb strings.Builder
	sb.WriteString("🏅 Тир-лист героев\n")
	for _, tier := range order {
		sb.WriteString(fmt.Sprintf("\n%s-тир:\n", tier))
		for _, hero := range byTier[tier] {
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", hero.Name, hero.Role))
		}
	}
	return ui.Text(strings.TrimRight(sb.String(), "\n")).WithBack("heroes")
}
