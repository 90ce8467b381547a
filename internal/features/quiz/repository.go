// Package quiz — repository.go выполняет операции с таблицами
// quiz_questions и quiz_answers. Запись ответа и начисление награды
// идут одной транзакцией БД: начисление без записи (и наоборот)
// невозможно.
package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/features/economy"
)

// Repository предоставляет методы для работы с викториной.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий викторины.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateQuestion сохраняет новый вопрос.
func (r *Repository) CreateQuestion(ctx context.Context, q *Question) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO quiz_questions (question, options, correct_answer, reward)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, q.Question, q.Options, q.CorrectAnswer, q.Reward).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания вопроса: %w", err)
	}
	return nil
}

// QuestionByID возвращает вопрос по ID.
func (r *Repository) QuestionByID(ctx context.Context, questionID int64) (*Question, error) {
	var q Question
	err := r.db.QueryRow(ctx, `
		SELECT id, question, options, correct_answer, reward, created_at
		FROM quiz_questions WHERE id = $1
	`, questionID).Scan(&q.ID, &q.Question, &q.Options, &q.CorrectAnswer, &q.Reward, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения вопроса: %w", err)
	}
	return &q, nil
}

// NextUnanswered возвращает вопрос с наименьшим ID, на который
// пользователь ещё не отвечал. Выбор детерминированный: порядок
// выдачи стабилен и легко проверяется.
// Если неотвеченных вопросов нет — common.ErrQuizExhausted.
func (r *Repository) NextUnanswered(ctx context.Context, userID int64) (*Question, error) {
	var q Question
	err := r.db.QueryRow(ctx, `
		SELECT id, question, options, correct_answer, reward, created_at
		FROM quiz_questions
		WHERE id NOT IN (SELECT question_id FROM quiz_answers WHERE user_id = $1)
		ORDER BY id
		LIMIT 1
	`, userID).Scan(&q.ID, &q.Question, &q.Options, &q.CorrectAnswer, &q.Reward, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrQuizExhausted
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка выбора вопроса: %w", err)
	}
	return &q, nil
}

// RecordAnswer записывает ответ и, при правильном ответе, начисляет
// награду — всё одной транзакцией. Повторный ответ на тот же вопрос
// упирается в уникальный индекс и отклоняется с common.ErrAlreadyAnswered
// без переоценки. Возвращает баланс после операции.
func (r *Repository) RecordAnswer(ctx context.Context, userID, questionID int64, answer string, correct bool, reward int64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Блокируем строку пользователя: ответ и начисление идут
	// под одним замком, баланс не гоняется сам с собой
	var balance int64
	err = tx.QueryRow(ctx,
		`SELECT diamonds FROM users WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, common.ErrNoProfile
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO quiz_answers (user_id, question_id, answer, is_correct)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, question_id) DO NOTHING
	`, userID, questionID, answer, correct)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи ответа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, common.ErrAlreadyAnswered
	}

	if correct {
		err = tx.QueryRow(ctx, `
			UPDATE users SET diamonds = diamonds + $2 WHERE user_id = $1
			RETURNING diamonds
		`, userID, reward).Scan(&balance)
		if err != nil {
			return 0, fmt.Errorf("ошибка начисления награды: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO transactions (user_id, delta, reason)
			VALUES ($1, $2, $3)
		`, userID, reward, economy.ReasonQuiz)
		if err != nil {
			return 0, fmt.Errorf("ошибка записи транзакции: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка фиксации ответа: %w", err)
	}
	return balance, nil
}
