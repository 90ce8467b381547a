// Package heroes реализует справочник героев: просмотр по ролям,
// карточки и тир-лист. Справочник заполняется миграциями,
// из бота он только читается.
// models.go описывает структуру героя.
package heroes

import "time"

// Hero — герой из справочника.
type Hero struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Role        string    `db:"role"`
	Tier        string    `db:"tier"` // S, A, B, C, D
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}
