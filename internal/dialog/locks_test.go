package dialog

import (
	"sync"
	"testing"
)

func TestUserLocks(t *testing.T) {
	l := NewUserLocks()

	if !l.TryAcquire(1) {
		t.Fatal("свободный скоуп должен захватываться")
	}
	if l.TryAcquire(1) {
		t.Fatal("занятый скоуп не должен захватываться повторно")
	}
	if !l.TryAcquire(2) {
		t.Fatal("другой пользователь не должен блокироваться")
	}

	l.Release(1)
	if !l.TryAcquire(1) {
		t.Fatal("после Release скоуп должен освободиться")
	}
}

func TestUserLocksConcurrent(t *testing.T) {
	l := NewUserLocks()

	const goroutines = 50
	var wg sync.WaitGroup
	acquired := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire(7) {
				acquired <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(acquired)

	count := 0
	for range acquired {
		count++
	}
	if count != 1 {
		t.Fatalf("скоуп захвачен %d раз, ожидался ровно 1", count)
	}
}
