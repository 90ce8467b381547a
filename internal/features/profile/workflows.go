// Package profile — workflows.go описывает таблицы переходов диалогов:
// создание профиля, сборки и заметки.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/dialog"
)

// Имена seed-полей, заполняемых при старте диалога.
const (
	SeedUsername = "username"
	SeedHeroID   = "hero_id"
)

// CreationWorkflow — диалог создания профиля:
// никнейм → числовой игровой ID → коммит User.
func CreationWorkflow(svc *Service) *dialog.Definition {
	return &dialog.Definition{
		Workflow: dialog.WorkflowProfileCreation,
		Steps: []dialog.Step{
			{
				Name:   "nickname",
				Prompt: "📝 Создание профиля\n\nВведите ваш игровой никнейм:",
				Field:  "nickname",
				Next:   "game_id",
			},
			{
				Name:     "game_id",
				Prompt:   "Теперь введите ваш игровой ID:",
				Field:    "game_id",
				Validate: validateGameID,
			},
		},
		Commit: func(ctx context.Context, sess *dialog.Session) (string, error) {
			gameID, _ := strconv.ParseInt(sess.Fields["game_id"], 10, 64)
			u, err := svc.CreateProfile(ctx, sess.UserID, sess.Fields[SeedUsername], sess.Fields["nickname"], gameID)
			if errors.Is(err, common.ErrProfileExists) {
				return "❌ Профиль уже существует", nil
			}
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(
				"✅ Профиль успешно создан!\n\nНик: %s\nID: %d\nСтартовый баланс: %s",
				u.Nickname, u.GameID, common.FormatDiamonds(u.Diamonds),
			), nil
		},
	}
}

// BuildWorkflow — диалог создания сборки:
// предметы через запятую → описание → коммит Build.
// Герой (если сборка создаётся из карточки героя) приходит seed-полем.
func BuildWorkflow(svc *Service) *dialog.Definition {
	return &dialog.Definition{
		Workflow: dialog.WorkflowBuildCreation,
		Steps: []dialog.Step{
			{
				Name:     "items",
				Prompt:   "📝 Создание сборки\n\nВведите предметы сборки через запятую:",
				Field:    "items",
				Validate: validateItems,
				Next:     "description",
			},
			{
				Name:   "description",
				Prompt: "Теперь введите описание сборки:",
				Field:  "description",
			},
		},
		Commit: func(ctx context.Context, sess *dialog.Session) (string, error) {
			var heroID *int64
			if raw, ok := sess.Fields[SeedHeroID]; ok && raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err == nil {
					heroID = &id
				}
			}
			b, err := svc.CreateBuild(ctx, sess.UserID, heroID, sess.Fields["items"], sess.Fields["description"])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(
				"✅ Сборка успешно создана!\n\nПредметы: %s\nОписание: %s",
				b.Items, b.Description,
			), nil
		},
	}
}

// NoteWorkflow — диалог создания заметки: текст → коммит Note.
func NoteWorkflow(svc *Service) *dialog.Definition {
	return &dialog.Definition{
		Workflow: dialog.WorkflowNoteCreation,
		Steps: []dialog.Step{
			{
				Name:   "content",
				Prompt: "📝 Создание заметки\n\nВведите текст заметки:",
				Field:  "content",
			},
		},
		Commit: func(ctx context.Context, sess *dialog.Session) (string, error) {
			n, err := svc.CreateNote(ctx, sess.UserID, sess.Fields["content"])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ Заметка «%s» сохранена", n.Title), nil
		},
	}
}

func validateGameID(_ context.Context, raw string, _ map[string]string) (string, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return "", fmt.Errorf("неверный формат ID, введите положительное число")
	}
	return strconv.FormatInt(id, 10), nil
}

func validateItems(_ context.Context, raw string, _ map[string]string) (string, error) {
	items := common.SplitCSV(raw)
	if len(items) == 0 {
		return "", fmt.Errorf("укажите хотя бы один предмет")
	}
	return strings.Join(items, ", "), nil
}
