// Package quiz — workflows.go описывает диалог добавления вопроса:
// текст → варианты → правильный ответ (значением) → награда → коммит.
package quiz

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/dialog"
)

// AuthoringWorkflow — диалог добавления вопроса викторины.
func AuthoringWorkflow(svc *Service) *dialog.Definition {
	return &dialog.Definition{
		Workflow: dialog.WorkflowQuizAuthoring,
		Steps: []dialog.Step{
			{
				Name:   "question",
				Prompt: "📝 Добавление вопроса\n\nВведите текст вопроса:",
				Field:  "question",
				Next:   "options",
			},
			{
				Name:     "options",
				Prompt:   "Теперь введите варианты ответа через запятую (минимум два):",
				Field:    "options",
				Validate: validateOptions,
				Next:     "correct",
			},
			{
				Name:     "correct",
				Prompt:   "Выберите правильный ответ: введите его текст или номер варианта.",
				Field:    "correct",
				Validate: validateCorrect,
				Next:     "reward",
			},
			{
				Name:     "reward",
				Prompt:   "Теперь введите награду за правильный ответ в алмазах:",
				Field:    "reward",
				Validate: validateReward,
			},
		},
		Commit: func(ctx context.Context, sess *dialog.Session) (string, error) {
			options := common.SplitCSV(sess.Fields["options"])
			reward, _ := strconv.ParseInt(sess.Fields["reward"], 10, 64)
			q, err := svc.CreateQuestion(ctx, sess.Fields["question"], options, sess.Fields["correct"], reward)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(
				"✅ Вопрос успешно добавлен!\n\nВопрос: %s\nВарианты: %s\nПравильный ответ: %s\nНаграда: %s",
				q.Question, strings.Join(q.Options, ", "), q.CorrectAnswer, common.FormatDiamonds(q.Reward),
			), nil
		},
	}
}

func validateOptions(_ context.Context, raw string, _ map[string]string) (string, error) {
	options := common.SplitCSV(raw)
	if len(options) < 2 {
		return "", fmt.Errorf("должно быть как минимум 2 варианта ответа, введите их через запятую")
	}
	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		if seen[opt] {
			return "", fmt.Errorf("вариант «%s» повторяется, варианты должны быть разными", opt)
		}
		seen[opt] = true
	}
	return strings.Join(options, ", "), nil
}

// validateCorrect принимает правильный ответ текстом варианта или его
// номером (1..N). Сохраняется всегда значение, а не позиция.
func validateCorrect(_ context.Context, raw string, fields map[string]string) (string, error) {
	options := common.SplitCSV(fields["options"])

	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("номер варианта должен быть от 1 до %d", len(options))
		}
		return options[n-1], nil
	}

	for _, opt := range options {
		if opt == raw {
			return opt, nil
		}
	}
	return "", fmt.Errorf("такого варианта нет, введите текст одного из вариантов или его номер")
}

func validateReward(_ context.Context, raw string, _ map[string]string) (string, error) {
	reward, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || reward <= 0 {
		return "", fmt.Errorf("неверный формат награды, введите положительное число")
	}
	return strconv.FormatInt(reward, 10), nil
}
