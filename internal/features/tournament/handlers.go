// Package tournament — handlers.go формирует ответы раздела «Турниры»:
// список, карточка, участники.
package tournament

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/ui"
)

// Handler формирует ответы раздела турниров.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик турниров.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ShowTournaments показывает турниры с открытой регистрацией.
// isAdmin добавляет действие создания турнира.
func (h *Handler) ShowTournaments(ctx context.Context, isAdmin bool) *ui.Response {
	tournaments, err := h.service.Active(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения турниров")
		return ui.Text("❌ Ошибка получения турниров").WithMenu()
	}

	var resp *ui.Response
	if len(tournaments) == 0 {
		resp = ui.Text("🏆 Сейчас нет турниров с открытой регистрацией")
	} else {
		resp = ui.Text("🏆 Турниры\n\nВыберите турнир:")
		for _, t := range tournaments {
			resp.WithAction(
				fmt.Sprintf("%s — %s", t.Name, common.FormatDate(t.StartDate)),
				fmt.Sprintf("tournament:%d", t.ID),
			)
		}
	}
	if isAdmin {
		resp.WithAction("➕ Создать турнир", "create_tournament")
	}
	return resp.WithMenu()
}

// ShowTournament показывает карточку турнира.
func (h *Handler) ShowTournament(ctx context.Context, tournamentID int64) *ui.Response {
	t, err := h.service.Get(ctx, tournamentID)
	if errors.Is(err, common.ErrNotFound) {
		return ui.Text("❌ Турнир не найден").WithBack("tournaments")
	}
	if err != nil {
		log.WithError(err).WithField("tournament_id", tournamentID).Error("Ошибка получения турнира")
		return ui.Text("❌ Ошибка получения турнира").WithBack("tournaments")
	}

	text := fmt.Sprintf(
		"🏆 %s\n\n%s\n\nНачало: %s\nНаграды: %s",
		t.Name, t.Description, common.FormatDate(t.StartDate), t.Rewards,
	)
	resp := ui.Text(text)
	if t.Status == StatusActive {
		resp.WithAction("📝 Зарегистрировать команду", fmt.Sprintf("join:%d", t.ID))
	}
	return resp.
		WithAction("👥 Участники", fmt.Sprintf("participants:%d", t.ID)).
		WithBack("tournaments")
}

// ShowParticipants показывает заявки турнира.
func (h *Handler) ShowParticipants(ctx context.Context, tournamentID int64) *ui.Response {
	participants, err := h.service.Participants(ctx, tournamentID)
	if err != nil {
		log.WithError(err).WithField("tournament_id", tournamentID).Error("Ошибка получения участников")
		return ui.Text("❌ Ошибка получения участников").WithBack("tournaments")
	}
	if len(participants) == 0 {
		return ui.Text("👥 На турнир ещё никто не зарегистрировался").
			WithBack(fmt.Sprintf("tournament:%d", tournamentID))
	}

	text := fmt.Sprintf("👥 Участники (%d команд)\n", len(participants))
	for i, p := range participants {
		text += fmt.Sprintf("\n%d. %s (%d игроков)", i+1, p.TeamName, len(p.TeamMembers))
	}
	return ui.Text(text).WithBack(fmt.Sprintf("tournament:%d", tournamentID))
}
