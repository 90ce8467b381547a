package middleware

import (
	"sync"
	"time"
)

type updateKind uint8

const (
	kindMessage updateKind = iota
	kindCallback
)

type bucketKey struct {
	userID int64
	kind   updateKind
}

// RateLimiter ограничивает поток апдейтов на пользователя по скользящему
// окну. Сообщения и нажатия кнопок считаются раздельно: викторина и
// меню живут на кнопках, и их лимит заметно шире текстового.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[bucketKey][]time.Time

	messageLimit  int
	callbackLimit int
	window        time.Duration

	now func() time.Time // подменяется в тестах

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter создаёт лимитер с раздельными бюджетами на сообщения
// и на нажатия кнопок в общем окне window.
func NewRateLimiter(messageLimit, callbackLimit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:       make(map[bucketKey][]time.Time),
		messageLimit:  messageLimit,
		callbackLimit: callbackLimit,
		window:        window,
		now:           time.Now,
		stopCh:        make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Close останавливает фоновую горутину очистки.
// Его надо вызывать на shutdown (иначе cleanup будет жить вечно).
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// AllowMessage сообщает, укладывается ли текстовое сообщение в лимит.
func (rl *RateLimiter) AllowMessage(userID int64) bool {
	return rl.allow(bucketKey{userID: userID, kind: kindMessage}, rl.messageLimit)
}

// AllowCallback сообщает, укладывается ли нажатие кнопки в лимит.
func (rl *RateLimiter) AllowCallback(userID int64) bool {
	return rl.allow(bucketKey{userID: userID, kind: kindCallback}, rl.callbackLimit)
}

func (rl *RateLimiter) allow(key bucketKey, limit int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	var recent []time.Time
	for _, t := range rl.buckets[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= limit {
		rl.buckets[key] = recent
		return false
	}

	recent = append(recent, now)
	rl.buckets[key] = recent
	return true
}

// cleanup периодически выбрасывает затихших пользователей,
// чтобы карта не росла бесконечно.
func (rl *RateLimiter) cleanup() {
	interval := rl.window
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := rl.now().Add(-rl.window)
			for key, times := range rl.buckets {
				var recent []time.Time
				for _, t := range times {
					if t.After(cutoff) {
						recent = append(recent, t)
					}
				}
				if len(recent) == 0 {
					delete(rl.buckets, key)
				} else {
					rl.buckets[key] = recent
				}
			}
			rl.mu.Unlock()
		}
	}
}
