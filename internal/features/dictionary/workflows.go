// Package dictionary — workflows.go описывает диалоги словаря:
// добавление термина администратором и поиск.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/dialog"
)

// AuthoringWorkflow — диалог добавления термина:
// название → описание → категория → коммит.
func AuthoringWorkflow(svc *Service) *dialog.Definition {
	return &dialog.Definition{
		Workflow: dialog.WorkflowTermAuthoring,
		Steps: []dialog.Step{
			{
				Name:     "name",
				Prompt:   "📝 Добавление термина\n\nВведите название термина:",
				Field:    "name",
				Validate: validateTermName,
				Next:     "description",
			},
			{
				Name:   "description",
				Prompt: "Теперь введите определение термина:",
				Field:  "description",
				Next:   "category",
			},
			{
				Name:   "category",
				Prompt: "Теперь введите категорию термина:",
				Field:  "category",
			},
		},
		Commit: func(ctx context.Context, sess *dialog.Session) (string, error) {
			t, err := svc.AddTerm(ctx, sess.Fields["name"], sess.Fields["description"], sess.Fields["category"])
			if errors.Is(err, common.ErrTermExists) {
				return fmt.Sprintf("❌ Термин «%s» уже есть в словаре", sess.Fields["name"]), nil
			}
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(
				"✅ Термин добавлен!\n\n📖 %s\nКатегория: %s\n\n%s",
				t.Name, t.Category, t.Description,
			), nil
		},
	}
}

// SearchWorkflow — однотактный диалог поиска термина по названию.
func SearchWorkflow(svc *Service) *dialog.Definition {
	return &dialog.Definition{
		Workflow: dialog.WorkflowTermSearch,
		Steps: []dialog.Step{
			{
				Name:   "query",
				Prompt: "🔍 Поиск термина\n\nВведите название термина для поиска:",
				Field:  "query",
			},
		},
		Commit: func(ctx context.Context, sess *dialog.Session) (string, error) {
			terms, err := svc.Search(ctx, sess.Fields["query"])
			if err != nil {
				return "", err
			}
			if len(terms) == 0 {
				return "❌ Термины не найдены. Попробуйте изменить поисковый запрос.", nil
			}

			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("🔍 Результаты поиска по запросу «%s»:\n\n", sess.Fields["query"]))
			for _, t := range terms {
				sb.WriteString(fmt.Sprintf("📖 %s (%s)\n%s\n\n", t.Name, t.Category, t.Description))
			}
			return strings.TrimRight(sb.String(), "\n"), nil
		},
	}
}

func validateTermName(_ context.Context, raw string, _ map[string]string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("название термина не может быть пустым")
	}
	return name, nil
}
