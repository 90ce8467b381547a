package middleware

import (
	"testing"
	"time"
)

func newTestLimiter(messageLimit, callbackLimit int, window time.Duration) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(messageLimit, callbackLimit, window)
	current := time.Now()
	rl.now = func() time.Time { return current }
	return rl, &current
}

func TestRateLimiterSeparateBudgets(t *testing.T) {
	rl, _ := newTestLimiter(2, 5, time.Minute)
	defer rl.Close()

	for i := 0; i < 2; i++ {
		if !rl.AllowMessage(1) {
			t.Fatalf("сообщение %d должно пройти", i+1)
		}
	}
	if rl.AllowMessage(1) {
		t.Fatal("третье сообщение должно упереться в лимит")
	}

	// кнопки живут на своём бюджете и лимитом сообщений не задеты
	for i := 0; i < 5; i++ {
		if !rl.AllowCallback(1) {
			t.Fatalf("нажатие %d должно пройти", i+1)
		}
	}
	if rl.AllowCallback(1) {
		t.Fatal("шестое нажатие должно упереться в лимит")
	}
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl, current := newTestLimiter(1, 1, time.Minute)
	defer rl.Close()

	if !rl.AllowMessage(1) {
		t.Fatal("первое сообщение должно пройти")
	}
	if rl.AllowMessage(1) {
		t.Fatal("второе сообщение в том же окне должно отклоняться")
	}

	*current = current.Add(2 * time.Minute)
	if !rl.AllowMessage(1) {
		t.Fatal("после сдвига окна сообщение должно пройти")
	}
}

func TestRateLimiterPerUser(t *testing.T) {
	rl, _ := newTestLimiter(1, 1, time.Minute)
	defer rl.Close()

	if !rl.AllowMessage(1) || !rl.AllowMessage(2) {
		t.Fatal("лимит одного пользователя не должен задевать другого")
	}
}
