// Package shop управляет магазином: товары, категории, модерация
// и покупки за алмазы. models.go описывает структуру товара.
package shop

import "time"

// Статусы товара. Новый товар попадает на модерацию,
// в витрине показываются только одобренные.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Item — товар магазина.
type Item struct {
	ID          int64     `db:"id"`
	SellerID    int64     `db:"seller_id"` // кто выставил товар
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Price       int64     `db:"price"` // в алмазах, >= 0
	Category    string    `db:"category"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}
