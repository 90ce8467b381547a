// Package quiz реализует викторину: выдача неповторяющихся вопросов,
// перемешивание вариантов, приём ответов и начисление наград.
// models.go описывает структуры вопросов и ответов.
package quiz

import "time"

// Question — вопрос викторины. Правильный ответ хранится значением,
// а не позицией: порядок вариантов на экране каждый раз случайный
// и на проверку не влияет.
type Question struct {
	ID            int64     `db:"id"`
	Question      string    `db:"question"`
	Options       []string  `db:"options"`        // канонический порядок вариантов
	CorrectAnswer string    `db:"correct_answer"` // текст правильного варианта
	Reward        int64     `db:"reward"`         // награда в алмазах, > 0
	CreatedAt     time.Time `db:"created_at"`
}

// AnswerRecord — ответ пользователя на вопрос. Пара (user_id, question_id)
// уникальна: вопрос не выдаётся повторно и не переоценивается.
// Записи только добавляются, никогда не обновляются.
type AnswerRecord struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	QuestionID int64     `db:"question_id"`
	Answer     string    `db:"answer"`
	IsCorrect  bool      `db:"is_correct"`
	AnsweredAt time.Time `db:"answered_at"`
}

// AnswerResult — итог приёма ответа.
type AnswerResult struct {
	Correct       bool
	CorrectAnswer string
	Reward        int64 // сколько начислено (0 при неверном ответе)
	NewBalance    int64
}
