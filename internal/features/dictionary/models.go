// Package dictionary реализует словарь игровых терминов:
// пополнение администраторами, поиск и просмотр по категориям.
// models.go описывает структуру термина.
package dictionary

import "time"

// Term — термин словаря. Название уникально без учёта регистра.
type Term struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	CreatedAt   time.Time `db:"created_at"`
}
