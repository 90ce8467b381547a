package shop

import (
	"context"
	"errors"
	"testing"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

type fakeStore struct {
	items  map[int64]*Item
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[int64]*Item), nextID: 1}
}

func (f *fakeStore) CreateItem(_ context.Context, item *Item) error {
	item.ID = f.nextID
	f.nextID++
	f.items[item.ID] = item
	return nil
}

func (f *fakeStore) ItemByID(_ context.Context, itemID int64) (*Item, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return item, nil
}

func (f *fakeStore) Categories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, item := range f.items {
		if item.Status == StatusApproved && !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out, nil
}

func (f *fakeStore) ByCategory(_ context.Context, category string) ([]*Item, error) {
	var out []*Item
	for _, item := range f.items {
		if item.Status == StatusApproved && item.Category == category {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) Search(_ context.Context, _ string) ([]*Item, error) { return nil, nil }

func (f *fakeStore) Pending(_ context.Context) ([]*Item, error) {
	var out []*Item
	for _, item := range f.items {
		if item.Status == StatusPending {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) SetStatus(_ context.Context, itemID int64, status string) error {
	item, ok := f.items[itemID]
	if !ok {
		return common.ErrNotFound
	}
	item.Status = status
	return nil
}

// fakeLedger фиксирует вызовы покупки.
type fakeLedger struct {
	bought map[[2]int64]bool
	err    error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{bought: make(map[[2]int64]bool)}
}

func (f *fakeLedger) Buy(_ context.Context, userID, itemID, _ int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.bought[[2]int64{userID, itemID}] = true
	return 42, nil
}

func (f *fakeLedger) HasPurchase(_ context.Context, userID, itemID int64) (bool, error) {
	return f.bought[[2]int64{userID, itemID}], nil
}

func TestListItemStartsPending(t *testing.T) {
	svc := NewService(newFakeStore(), newFakeLedger())

	item, err := svc.ListItem(context.Background(), 1, "Аккаунт", "описание", 100, "аккаунты")
	if err != nil {
		t.Fatalf("ListItem: %v", err)
	}
	if item.Status != StatusPending {
		t.Fatalf("новый товар должен быть pending, получено %q", item.Status)
	}
}

func TestBuyOnlyApproved(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	svc := NewService(store, ledger)
	ctx := context.Background()

	item, _ := svc.ListItem(ctx, 1, "Аккаунт", "описание", 100, "аккаунты")

	// pending нельзя купить
	if _, _, err := svc.Buy(ctx, 2, item.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("покупка pending: ожидался ErrNotFound, получено %v", err)
	}
	if len(ledger.bought) != 0 {
		t.Fatal("леджер не должен вызываться для pending товара")
	}

	if _, err := svc.Moderate(ctx, item.ID, true); err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if _, _, err := svc.Buy(ctx, 2, item.ID); err != nil {
		t.Fatalf("покупка approved: %v", err)
	}

	// отклонённый товар тоже невидим для покупки
	rejected, _ := svc.ListItem(ctx, 1, "Другой", "описание", 50, "аккаунты")
	svc.Moderate(ctx, rejected.ID, false)
	if _, _, err := svc.Buy(ctx, 2, rejected.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("покупка rejected: ожидался ErrNotFound, получено %v", err)
	}
}

func TestBuyPropagatesLedgerErrors(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	svc := NewService(store, ledger)
	ctx := context.Background()

	item, _ := svc.ListItem(ctx, 1, "Аккаунт", "описание", 100, "аккаунты")
	svc.Moderate(ctx, item.ID, true)

	ledger.err = common.ErrInsufficientBalance
	if _, _, err := svc.Buy(ctx, 2, item.ID); !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("ожидался ErrInsufficientBalance, получено %v", err)
	}

	ledger.err = common.ErrAlreadyPurchased
	if _, _, err := svc.Buy(ctx, 2, item.ID); !errors.Is(err, common.ErrAlreadyPurchased) {
		t.Fatalf("ожидался ErrAlreadyPurchased, получено %v", err)
	}
}

func TestModerateMovesOutOfPending(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, newFakeLedger())
	ctx := context.Background()

	a, _ := svc.ListItem(ctx, 1, "Первый", "", 10, "прочее")
	b, _ := svc.ListItem(ctx, 1, "Второй", "", 20, "прочее")

	pending, _ := svc.Pending(ctx)
	if len(pending) != 2 {
		t.Fatalf("в очереди %d, ожидалось 2", len(pending))
	}

	svc.Moderate(ctx, a.ID, true)
	svc.Moderate(ctx, b.ID, false)

	pending, _ = svc.Pending(ctx)
	if len(pending) != 0 {
		t.Fatalf("очередь не опустела: %d", len(pending))
	}

	if _, err := svc.Moderate(ctx, 999, true); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("модерация несуществующего: %v", err)
	}
}
