// Package tournament реализует турниры: создание администраторами,
// регистрация команд, список участников и автозакрытие по дате старта.
// models.go описывает структуры турниров и участников.
package tournament

import "time"

// Статусы турнира.
const (
	StatusActive = "active" // регистрация открыта
	StatusClosed = "closed" // регистрация закрыта
)

// Tournament — турнир.
type Tournament struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	StartDate   time.Time `db:"start_date"`
	Rewards     string    `db:"rewards"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

// Participant — заявка команды на турнир. Капитан (user_id) может
// подать на турнир только одну заявку; он всегда входит в состав.
type Participant struct {
	ID           int64     `db:"id"`
	TournamentID int64     `db:"tournament_id"`
	UserID       int64     `db:"user_id"` // капитан команды
	TeamName     string    `db:"team_name"`
	TeamMembers  []int64   `db:"team_members"` // Telegram ID, включая капитана
	RegisteredAt time.Time `db:"registered_at"`
}
