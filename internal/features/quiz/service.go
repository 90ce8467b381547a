// Package quiz — service.go содержит бизнес-логику викторины:
// выбор следующего вопроса, перемешивание вариантов, приём ответов.
package quiz

import (
	"context"
	"math/rand"
	"strings"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Store — операции хранилища, нужные викторине.
// Реализуется Repository; в тестах подменяется фейком.
type Store interface {
	CreateQuestion(ctx context.Context, q *Question) error
	QuestionByID(ctx context.Context, questionID int64) (*Question, error)
	NextUnanswered(ctx context.Context, userID int64) (*Question, error)
	RecordAnswer(ctx context.Context, userID, questionID int64, answer string, correct bool, reward int64) (int64, error)
}

// Service управляет викториной.
type Service struct {
	store Store
}

// NewService создаёт сервис викторины.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// NextFor возвращает следующий неотвеченный вопрос пользователя.
// Если пул исчерпан — common.ErrQuizExhausted.
func (s *Service) NextFor(ctx context.Context, userID int64) (*Question, error) {
	return s.store.NextUnanswered(ctx, userID)
}

// ShuffleOptions возвращает случайную перестановку вариантов вопроса
// для показа. Исходный порядок в вопросе не меняется: перестановка
// живёт только в текущей сессии показа.
func (s *Service) ShuffleOptions(q *Question) []string {
	shuffled := make([]string, len(q.Options))
	copy(shuffled, q.Options)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// SubmitAnswer принимает ответ пользователя на вопрос.
// Правильность определяется сравнением текста ответа с каноническим
// правильным ответом — порядок показа на это не влияет.
// Запись ответа и начисление награды атомарны на стороне хранилища.
func (s *Service) SubmitAnswer(ctx context.Context, userID, questionID int64, submitted string) (*AnswerResult, error) {
	q, err := s.store.QuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	correct := submitted == q.CorrectAnswer
	reward := int64(0)
	if correct {
		reward = q.Reward
	}

	newBalance, err := s.store.RecordAnswer(ctx, userID, questionID, submitted, correct, reward)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":     userID,
		"question_id": questionID,
		"correct":     correct,
		"reward":      reward,
	}).Info("Ответ на вопрос принят")

	return &AnswerResult{
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		Reward:        reward,
		NewBalance:    newBalance,
	}, nil
}

// CreateQuestion сохраняет новый вопрос после проверок:
// минимум два варианта, правильный ответ — один из них, награда > 0.
func (s *Service) CreateQuestion(ctx context.Context, text string, options []string, correctAnswer string, reward int64) (*Question, error) {
	if len(options) < 2 {
		return nil, common.ErrInvalidAmount
	}
	found := false
	for _, opt := range options {
		if opt == correctAnswer {
			found = true
			break
		}
	}
	if !found || reward <= 0 || strings.TrimSpace(text) == "" {
		return nil, common.ErrInvalidAmount
	}

	q := &Question{
		Question:      text,
		Options:       options,
		CorrectAnswer: correctAnswer,
		Reward:        reward,
	}
	if err := s.store.CreateQuestion(ctx, q); err != nil {
		return nil, err
	}

	log.WithField("question_id", q.ID).Info("Вопрос викторины добавлен")
	return q, nil
}
