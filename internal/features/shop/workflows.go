// Package shop — workflows.go описывает диалоги магазина:
// выставление товара и поиск по названию.
package shop

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/dialog"
)

// ListingWorkflow — диалог выставления товара:
// название → описание → цена → категория → коммит Item (pending).
func ListingWorkflow(svc *Service) *dialog.Definition {
	return &dialog.Definition{
		Workflow: dialog.WorkflowShopListing,
		Steps: []dialog.Step{
			{
				Name:   "title",
				Prompt: "📝 Добавление товара\n\nВведите название товара:",
				Field:  "title",
				Next:   "description",
			},
			{
				Name:   "description",
				Prompt: "Теперь введите описание товара:",
				Field:  "description",
				Next:   "price",
			},
			{
				Name:     "price",
				Prompt:   "Теперь введите цену товара в алмазах:",
				Field:    "price",
				Validate: validatePrice,
				Next:     "category",
			},
			{
				Name:   "category",
				Prompt: "Теперь введите категорию товара:",
				Field:  "category",
			},
		},
		Commit: func(ctx context.Context, sess *dialog.Session) (string, error) {
			price, _ := strconv.ParseInt(sess.Fields["price"], 10, 64)
			item, err := svc.ListItem(ctx, sess.UserID,
				sess.Fields["title"], sess.Fields["description"], price, sess.Fields["category"])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(
				"✅ Товар отправлен на модерацию!\n\nНазвание: %s\nКатегория: %s\nЦена: %s",
				item.Title, item.Category, common.FormatDiamonds(item.Price),
			), nil
		},
	}
}

// SearchWorkflow — однотактный диалог поиска товара по названию.
func SearchWorkflow(svc *Service) *dialog.Definition {
	return &dialog.Definition{
		Workflow: dialog.WorkflowShopSearch,
		Steps: []dialog.Step{
			{
				Name:   "query",
				Prompt: "🔍 Поиск товара\n\nВведите название товара для поиска:",
				Field:  "query",
			},
		},
		Commit: func(ctx context.Context, sess *dialog.Session) (string, error) {
			items, err := svc.Search(ctx, sess.Fields["query"])
			if err != nil {
				return "", err
			}
			if len(items) == 0 {
				return "❌ Товары не найдены. Попробуйте изменить поисковый запрос.", nil
			}

			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("🔍 Результаты поиска по запросу «%s»:\n\n", sess.Fields["query"]))
			for _, item := range items {
				sb.WriteString(fmt.Sprintf("• %s — %s (категория «%s»)\n",
					item.Title, common.FormatDiamonds(item.Price), item.Category))
			}
			sb.WriteString("\nОткройте категорию в магазине, чтобы купить товар.")
			return sb.String(), nil
		},
	}
}

func validatePrice(_ context.Context, raw string, _ map[string]string) (string, error) {
	price, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || price <= 0 {
		return "", fmt.Errorf("неверный формат цены, введите положительное число")
	}
	return strconv.FormatInt(price, 10), nil
}
