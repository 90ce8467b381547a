// Package profile — handlers.go формирует ответы раздела «Профиль»:
// карточка профиля, списки сборок и заметок.
package profile

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/ui"
)

// Handler формирует ответы раздела «Профиль».
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик профиля.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ShowProfile показывает карточку профиля или предлагает его создать.
func (h *Handler) ShowProfile(ctx context.Context, userID int64) *ui.Response {
	u, err := h.service.Get(ctx, userID)
	if errors.Is(err, common.ErrNoProfile) {
		return ui.Text(
			"👤 Профиль не найден\n\n"+
				"Создайте профиль, чтобы сохранять сборки, заметки и участвовать в викторине.",
		).WithAction("📝 Создать профиль", "create_profile").WithMenu()
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения профиля")
		return ui.Text("❌ Ошибка получения профиля").WithMenu()
	}

	text := fmt.Sprintf(
		"👤 Профиль\n\nНик: %s\nID: %d\nБаланс: %s\nДата регистрации: %s",
		u.Nickname, u.GameID, common.FormatDiamonds(u.Diamonds), common.FormatDate(u.CreatedAt),
	)
	return ui.Text(text).
		WithAction("🎯 Сборки", "builds").
		WithAction("📝 Заметки", "notes").
		WithAction("📋 Транзакции", "transactions").
		WithMenu()
}

// ShowBuilds показывает список сборок пользователя.
func (h *Handler) ShowBuilds(ctx context.Context, userID int64) *ui.Response {
	builds, err := h.service.Builds(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения сборок")
		return ui.Text("❌ Ошибка получения сборок").WithBack("profile")
	}

	resp := ui.Text("🎯 Сборки\n\nВыберите сборку для просмотра:")
	for _, b := range builds {
		resp.WithAction(common.TruncateTitle(b.Items, 30), fmt.Sprintf("build:%d", b.ID))
	}
	return resp.WithAction("➕ Создать сборку", "create_build").WithBack("profile")
}

// ShowBuild показывает одну сборку.
func (h *Handler) ShowBuild(ctx context.Context, userID, buildID int64) *ui.Response {
	b, err := h.service.Build(ctx, userID, buildID)
	if errors.Is(err, common.ErrNotFound) {
		return ui.Text("❌ Сборка не найдена").WithBack("builds")
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения сборки")
		return ui.Text("❌ Ошибка получения сборки").WithBack("builds")
	}

	text := fmt.Sprintf("🎯 Сборка\n\nПредметы: %s\n\nОписание:\n%s", b.Items, b.Description)
	return ui.Text(text).WithBack("builds")
}

// ShowNotes показывает список заметок пользователя.
func (h *Handler) ShowNotes(ctx context.Context, userID int64) *ui.Response {
	notes, err := h.service.Notes(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения заметок")
		return ui.Text("❌ Ошибка получения заметок").WithBack("profile")
	}

	resp := ui.Text("📝 Заметки\n\nВыберите заметку для просмотра:")
	for _, n := range notes {
		resp.WithAction(n.Title, fmt.Sprintf("note:%d", n.ID))
	}
	return resp.WithAction("➕ Создать заметку", "create_note").WithBack("profile")
}

// ShowNote показывает одну заметку.
func (h *Handler) ShowNote(ctx context.Context, userID, noteID int64) *ui.Response {
	n, err := h.service.Note(ctx, userID, noteID)
	if errors.Is(err, common.ErrNotFound) {
		return ui.Text("❌ Заметка не найдена").WithBack("notes")
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения заметки")
		return ui.Text("❌ Ошибка получения заметки").WithBack("notes")
	}

	text := fmt.Sprintf("📝 %s\n\n%s\n\nСоздана: %s", n.Title, n.Content, common.FormatDate(n.CreatedAt))
	return ui.Text(text).WithBack("notes")
}
