package economy

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// fakeStore — леджер в памяти с теми же инвариантами, что у репозитория:
// баланс не уходит в минус, покупка уникальна по (user_id, item_id).
type fakeStore struct {
	mu        sync.Mutex
	balances  map[int64]int64
	purchases map[[2]int64]bool
	history   map[int64][]*Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances:  make(map[int64]int64),
		purchases: make(map[[2]int64]bool),
		history:   make(map[int64][]*Transaction),
	}
}

func (f *fakeStore) ApplyDelta(_ context.Context, userID, delta int64, reason string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	balance, ok := f.balances[userID]
	if !ok {
		return 0, common.ErrNoProfile
	}
	if delta < 0 && balance+delta < 0 {
		return 0, common.ErrInsufficientBalance
	}
	f.balances[userID] = balance + delta
	f.history[userID] = append(f.history[userID], &Transaction{UserID: userID, Delta: delta, Reason: reason})
	return f.balances[userID], nil
}

func (f *fakeStore) Balance(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[userID]
	if !ok {
		return 0, common.ErrNoProfile
	}
	return balance, nil
}

func (f *fakeStore) PurchaseItem(_ context.Context, userID, itemID, price int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := [2]int64{userID, itemID}
	if f.purchases[key] {
		return 0, common.ErrAlreadyPurchased
	}
	balance, ok := f.balances[userID]
	if !ok {
		return 0, common.ErrNoProfile
	}
	if balance < price {
		return 0, common.ErrInsufficientBalance
	}
	f.purchases[key] = true
	f.balances[userID] = balance - price
	f.history[userID] = append(f.history[userID], &Transaction{UserID: userID, Delta: -price, Reason: ReasonPurchase})
	return f.balances[userID], nil
}

func (f *fakeStore) HasPurchase(_ context.Context, userID, itemID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.purchases[[2]int64{userID, itemID}], nil
}

func (f *fakeStore) History(_ context.Context, userID int64, limit int) ([]*Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txs := f.history[userID]
	if len(txs) > limit {
		txs = txs[len(txs)-limit:]
	}
	return txs, nil
}

func TestApplyDeltaZeroRejected(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.ApplyDelta(context.Background(), 1, 0, "тест"); !errors.Is(err, common.ErrInvalidAmount) {
		t.Fatalf("нулевая сумма: ожидался ErrInvalidAmount, получено %v", err)
	}
}

func TestApplyDeltaNonNegativeBalance(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 30
	svc := NewService(store)
	ctx := context.Background()

	if _, err := svc.ApplyDelta(ctx, 1, -50, "списание"); !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("ожидался ErrInsufficientBalance, получено %v", err)
	}
	// баланс не изменился после отказа
	if balance, _ := svc.Balance(ctx, 1); balance != 30 {
		t.Fatalf("баланс после отказа: %d", balance)
	}

	newBalance, err := svc.ApplyDelta(ctx, 1, -30, "списание")
	if err != nil || newBalance != 0 {
		t.Fatalf("списание в ноль: %d, %v", newBalance, err)
	}
}

func TestApplyDeltaNoProfile(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.ApplyDelta(context.Background(), 99, 10, "начисление"); !errors.Is(err, common.ErrNoProfile) {
		t.Fatalf("ожидался ErrNoProfile, получено %v", err)
	}
}

func TestBuyDuplicateRejected(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 200
	svc := NewService(store)
	ctx := context.Background()

	if _, err := svc.Buy(ctx, 1, 5, 100); err != nil {
		t.Fatalf("первая покупка: %v", err)
	}
	if _, err := svc.Buy(ctx, 1, 5, 100); !errors.Is(err, common.ErrAlreadyPurchased) {
		t.Fatalf("ожидался ErrAlreadyPurchased, получено %v", err)
	}
	// дубликат не списал деньги
	if balance, _ := svc.Balance(ctx, 1); balance != 100 {
		t.Fatalf("баланс после дубликата: %d", balance)
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 50
	svc := NewService(store)
	ctx := context.Background()

	if _, err := svc.Buy(ctx, 1, 5, 100); !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("ожидался ErrInsufficientBalance, получено %v", err)
	}
	// отказ не оставил записи о покупке
	if purchased, _ := svc.HasPurchase(ctx, 1, 5); purchased {
		t.Fatal("неудачная покупка оставила запись")
	}
}

func TestConcurrentDebitsNeverNegative(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 100
	svc := NewService(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.ApplyDelta(ctx, 1, -30, "гонка")
		}()
	}
	wg.Wait()

	balance, _ := svc.Balance(ctx, 1)
	if balance < 0 {
		t.Fatalf("баланс ушёл в минус: %d", balance)
	}
	if balance != 10 {
		t.Fatalf("из 100 должно списаться ровно 90, осталось %d", balance)
	}
}

func TestFormatHistoryEmpty(t *testing.T) {
	store := newFakeStore()
	store.balances[1] = 0
	svc := NewService(store)

	got, err := svc.FormatHistory(context.Background(), 1)
	if err != nil {
		t.Fatalf("FormatHistory: %v", err)
	}
	if got != "📋 У вас пока нет транзакций" {
		t.Fatalf("пустая история: %q", got)
	}
}
