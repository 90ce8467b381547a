// Package economy управляет виртуальной валютой «алмазы».
// models.go описывает структуры для истории операций и покупок.
package economy

import "time"

// Transaction — одна операция с алмазами.
// Все движения (стартовый баланс, покупки, награды викторины)
// записываются сюда со знаком.
type Transaction struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Delta     int64     `db:"delta"`  // подписанная сумма: + начисление, - списание
	Reason    string    `db:"reason"` // 'покупка', 'викторина', 'стартовый баланс'
	CreatedAt time.Time `db:"created_at"`
}

// Purchase связывает покупателя и товар. Пара (user_id, item_id)
// уникальна: один товар покупается пользователем один раз.
type Purchase struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	ItemID    int64     `db:"item_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Причины операций
const (
	ReasonPurchase = "покупка"
	ReasonQuiz     = "викторина"
	ReasonStarting = "стартовый баланс"
)
