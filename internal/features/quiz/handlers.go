// Package quiz — handlers.go формирует ответы викторины: выдача
// вопроса с перемешанными вариантами и приём ответа по кнопке.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/dialog"
	"mlhelper.ru/ml-helper-bot/internal/ui"
)

// Ключи полей сессии показа вопроса.
const (
	fieldQuestionID = "question_id"
	fieldShown      = "shown" // JSON-массив вариантов в порядке показа
)

// StepAnswering — единственный шаг сессии показа вопроса.
const StepAnswering = "answering"

// Profiles — проверка наличия профиля перед участием в викторине.
type Profiles interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// Handler формирует ответы викторины.
type Handler struct {
	service  *Service
	profiles Profiles
	sessions *dialog.Store
}

// NewHandler создаёт обработчик викторины.
func NewHandler(service *Service, profiles Profiles, sessions *dialog.Store) *Handler {
	return &Handler{service: service, profiles: profiles, sessions: sessions}
}

// StartQuiz выдаёт пользователю следующий неотвеченный вопрос.
// Порядок вариантов каждый раз случайный и хранится только в сессии
// показа: проверка ответа от него не зависит.
func (h *Handler) StartQuiz(ctx context.Context, userID int64) *ui.Response {
	exists, err := h.profiles.Exists(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка проверки профиля")
		return ui.Text("❌ Ошибка запуска викторины").WithMenu()
	}
	if !exists {
		return ui.Text("❌ Сначала создайте профиль, чтобы участвовать в викторине").
			WithAction("📝 Создать профиль", "create_profile").WithMenu()
	}

	q, err := h.service.NextFor(ctx, userID)
	if errors.Is(err, common.ErrQuizExhausted) {
		return ui.Text("🎉 Вы ответили на все вопросы викторины! Загляните позже — вопросы пополняются.").WithMenu()
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка выбора вопроса")
		return ui.Text("❌ Ошибка запуска викторины").WithMenu()
	}

	shown := h.service.ShuffleOptions(q)
	encoded, err := json.Marshal(shown)
	if err != nil {
		log.WithError(err).WithField("question_id", q.ID).Error("Ошибка кодирования вариантов")
		return ui.Text("❌ Ошибка запуска викторины").WithMenu()
	}

	seed := map[string]string{
		fieldQuestionID: strconv.FormatInt(q.ID, 10),
		fieldShown:      string(encoded),
	}
	if _, err := h.sessions.Start(userID, dialog.WorkflowQuizAnswering, StepAnswering, seed); err != nil {
		// Повторный запуск викторины переоткрывает вопрос,
		// а вот чужой незаконченный диалог не трогаем
		old := h.sessions.Get(userID)
		if old != nil && old.Workflow != dialog.WorkflowQuizAnswering {
			return ui.Text("❌ Сначала завершите текущий диалог или отмените его").WithCancel()
		}
		h.sessions.StartReplace(userID, dialog.WorkflowQuizAnswering, StepAnswering, seed)
	}

	resp := ui.Text(fmt.Sprintf("❓ Вопрос\n\n%s\n\nНаграда: %s", q.Question, common.FormatDiamonds(q.Reward)))
	for i, opt := range shown {
		resp.WithAction(opt, fmt.Sprintf("answer:%d:%d", q.ID, i))
	}
	return resp.WithCancel()
}

// HandleAnswer принимает ответ по кнопке. Индекс относится к порядку
// показа из сессии; оценивается всегда значение варианта.
func (h *Handler) HandleAnswer(ctx context.Context, userID, questionID int64, index int) *ui.Response {
	sess := h.sessions.Get(userID)
	if sess == nil || sess.Workflow != dialog.WorkflowQuizAnswering {
		return ui.Text("❌ Вопрос устарел. Начните викторину заново.").
			WithAction("❓ Викторина", "quiz").WithMenu()
	}
	if sess.Fields[fieldQuestionID] != strconv.FormatInt(questionID, 10) {
		return ui.Text("❌ Вопрос устарел. Начните викторину заново.").
			WithAction("❓ Викторина", "quiz").WithMenu()
	}

	var shown []string
	if err := json.Unmarshal([]byte(sess.Fields[fieldShown]), &shown); err != nil || index < 0 || index >= len(shown) {
		log.WithFields(log.Fields{
			"user_id":     userID,
			"question_id": questionID,
			"index":       index,
		}).Warn("Некорректный индекс ответа")
		h.sessions.Clear(userID)
		return ui.Text("❌ Вопрос устарел. Начните викторину заново.").
			WithAction("❓ Викторина", "quiz").WithMenu()
	}

	result, err := h.service.SubmitAnswer(ctx, userID, questionID, shown[index])
	switch {
	case errors.Is(err, common.ErrAlreadyAnswered):
		h.sessions.Clear(userID)
		return ui.Text("❌ Вы уже отвечали на этот вопрос").
			WithAction("❓ Следующий вопрос", "quiz").WithMenu()
	case errors.Is(err, common.ErrNoProfile):
		h.sessions.Clear(userID)
		return ui.Text("❌ Сначала создайте профиль, чтобы участвовать в викторине").
			WithAction("📝 Создать профиль", "create_profile").WithMenu()
	case err != nil:
		// Сессию не трогаем: повторное нажатие повторит попытку
		log.WithError(err).WithFields(log.Fields{
			"user_id":     userID,
			"question_id": questionID,
		}).Error("Ошибка записи ответа")
		return ui.Text("⚠️ Не удалось сохранить ответ. Нажмите вариант ещё раз, чтобы повторить попытку.")
	}

	h.sessions.Clear(userID)
	if result.Correct {
		return ui.Text(fmt.Sprintf(
			"✅ Правильно! Вы получили %s.\n\nВаш баланс: %s",
			common.FormatDiamonds(result.Reward), common.FormatDiamonds(result.NewBalance),
		)).WithAction("❓ Следующий вопрос", "quiz").WithMenu()
	}
	return ui.Text(fmt.Sprintf(
		"❌ Неправильно. Верный ответ: %s",
		result.CorrectAnswer,
	)).WithAction("❓ Следующий вопрос", "quiz").WithMenu()
}
