package dialog

import "sync"

// UserLocks — взаимное исключение по пользователю.
// Два события одного пользователя (двойной тап по кнопке) не должны
// гоняться за сессией или балансом, при этом разные пользователи
// обрабатываются независимо — глобального лока нет.
//
// Захват не блокирующий: если скоуп уже занят, второй запрос сразу
// получает отказ и превращается в понятный ответ пользователю.
type UserLocks struct {
	mu   sync.Mutex
	held map[int64]struct{}
}

// NewUserLocks создаёт пустой набор блокировок.
func NewUserLocks() *UserLocks {
	return &UserLocks{held: make(map[int64]struct{})}
}

// TryAcquire пытается захватить скоуп пользователя.
// Возвращает false, если скоуп уже занят другой операцией.
func (l *UserLocks) TryAcquire(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[userID]; busy {
		return false
	}
	l.held[userID] = struct{}{}
	return true
}

// Release освобождает скоуп пользователя.
func (l *UserLocks) Release(userID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, userID)
}
