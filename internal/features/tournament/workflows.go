// Package tournament — workflows.go описывает диалоги: создание
// турнира администратором и регистрация команды.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/dialog"
)

// SeedTournamentID — поле сессии регистрации, проставляется из callback.
const SeedTournamentID = "tournament_id"

// CreationWorkflow — диалог создания турнира (только администраторы).
func CreationWorkflow(svc *Service) *dialog.Definition {
	return &dialog.Definition{
		Workflow: dialog.WorkflowTournamentCreation,
		Steps: []dialog.Step{
			{
				Name:   "name",
				Prompt: "🏆 Создание турнира\n\nВведите название турнира:",
				Field:  "name",
				Next:   "description",
			},
			{
				Name:   "description",
				Prompt: "Теперь введите описание турнира:",
				Field:  "description",
				Next:   "start_date",
			},
			{
				Name:     "start_date",
				Prompt:   "Введите дату начала в формате ДД.ММ.ГГГГ:",
				Field:    "start_date",
				Validate: validateStartDate,
				Next:     "rewards",
			},
			{
				Name:   "rewards",
				Prompt: "Теперь опишите награды турнира:",
				Field:  "rewards",
			},
		},
		Commit: func(ctx context.Context, sess *dialog.Session) (string, error) {
			startDate, err := common.ParseDate(sess.Fields["start_date"])
			if err != nil {
				return "", err
			}
			t, err := svc.Create(ctx, sess.Fields["name"], sess.Fields["description"], startDate, sess.Fields["rewards"])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(
				"✅ Турнир создан!\n\n🏆 %s\n\nНачало: %s\nНаграды: %s",
				t.Name, common.FormatDate(t.StartDate), t.Rewards,
			), nil
		},
	}
}

// RegistrationWorkflow — диалог регистрации команды на турнир.
// Сессия засеивается полем tournament_id из callback.
func RegistrationWorkflow(svc *Service) *dialog.Definition {
	return &dialog.Definition{
		Workflow: dialog.WorkflowTournamentRegistration,
		Steps: []dialog.Step{
			{
				Name:   "team_name",
				Prompt: "📝 Регистрация на турнир\n\nВведите название команды:",
				Field:  "team_name",
				Next:   "members",
			},
			{
				Name:     "members",
				Prompt:   "Теперь введите Telegram ID участников через запятую.\nСебя указывать не обязательно — капитан включается автоматически.",
				Field:    "members",
				Validate: validateMembers(svc),
			},
		},
		Commit: func(ctx context.Context, sess *dialog.Session) (string, error) {
			tournamentID, err := strconv.ParseInt(sess.Fields[SeedTournamentID], 10, 64)
			if err != nil {
				return "", fmt.Errorf("некорректный турнир в сессии: %w", err)
			}
			members, err := parseTeamMembers(sess.Fields["members"])
			if err != nil {
				return "", err
			}

			p, err := svc.Register(ctx, tournamentID, sess.UserID, sess.Fields["team_name"], members)

			// Состав уже проверен на шаге members; здесь остаются только
			// исходы, которые вводом не исправить.
			var missing *MissingProfilesError
			switch {
			case errors.Is(err, common.ErrNotFound):
				return "❌ Турнир не найден", nil
			case errors.Is(err, common.ErrTournamentClosed):
				return "❌ Регистрация на этот турнир уже закрыта", nil
			case errors.Is(err, common.ErrAlreadyRegistered):
				return "❌ Вы уже зарегистрировали команду на этот турнир", nil
			case errors.As(err, &missing):
				return "❌ Не у всех участников есть профиль.\n" + missing.Error() +
					"\nПопросите их создать профиль и зарегистрируйтесь заново.", nil
			case err != nil:
				return "", err
			}

			return fmt.Sprintf(
				"✅ Команда «%s» зарегистрирована!\n\nСостав: %s",
				p.TeamName, formatTeam(p.TeamMembers),
			), nil
		},
	}
}

func validateStartDate(_ context.Context, raw string, _ map[string]string) (string, error) {
	t, err := common.ParseDate(raw)
	if err != nil {
		return "", fmt.Errorf("неверный формат даты, введите её как ДД.ММ.ГГГГ, например 01.03.2026")
	}
	return common.FormatDate(t), nil
}

// validateMembers проверяет состав прямо на шаге ввода: количество,
// разбор ID и наличие профилей. Любое нарушение — повторный запрос
// этого же шага, а не срыв всего диалога.
func validateMembers(svc *Service) dialog.Validator {
	return func(ctx context.Context, raw string, _ map[string]string) (string, error) {
		members, err := parseTeamMembers(raw)
		if err != nil {
			return "", fmt.Errorf("введите Telegram ID участников числами через запятую")
		}
		minSize, maxSize := svc.cfg.TournamentMinTeamSize, svc.cfg.TournamentMaxTeamSize
		if len(members) < minSize || len(members) > maxSize {
			return "", fmt.Errorf("укажите от %d до %d участников через запятую", minSize, maxSize)
		}

		missing, err := svc.profiles.MissingUsers(ctx, members)
		if err != nil {
			log.WithError(err).Error("Не удалось проверить профили состава")
			return "", fmt.Errorf("не удалось проверить участников, отправьте состав ещё раз")
		}
		if len(missing) > 0 {
			return "", fmt.Errorf("%s — попросите их создать профиль и отправьте состав ещё раз",
				(&MissingProfilesError{IDs: missing}).Error())
		}

		parts := make([]string, len(members))
		for i, id := range members {
			parts[i] = strconv.FormatInt(id, 10)
		}
		return strings.Join(parts, ", "), nil
	}
}

func parseTeamMembers(s string) ([]int64, error) {
	var out []int64
	for _, part := range common.SplitCSV(s) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("некорректный ID участника %q: %w", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func formatTeam(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
