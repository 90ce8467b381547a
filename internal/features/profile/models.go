// Package profile управляет профилями игроков и их артефактами:
// сборками и заметками. models.go описывает структуры таблиц.
package profile

import "time"

// User — профиль игрока. Везде в боте пользователь идентифицируется
// своим Telegram user ID (поле UserID).
type User struct {
	ID        int64     `db:"id"`         // ID записи
	UserID    int64     `db:"user_id"`    // Telegram user ID
	Username  string    `db:"username"`   // @username (может быть пустым)
	Nickname  string    `db:"nickname"`   // Игровой ник
	GameID    int64     `db:"game_id"`    // Игровой ID
	Diamonds  int64     `db:"diamonds"`   // Баланс алмазов (никогда не отрицательный)
	CreatedAt time.Time `db:"created_at"` // Дата регистрации
}

// Build — сборка предметов, опционально привязанная к герою.
// Создаётся только через завершённый диалог.
type Build struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	HeroID      *int64    `db:"hero_id"` // nil — сборка без героя
	Items       string    `db:"items"`   // предметы через запятую
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Note — свободная заметка пользователя.
// Заголовок — усечённое начало содержимого.
type Note struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
