package dictionary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

type fakeStore struct {
	terms  map[int64]*Term
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{terms: make(map[int64]*Term), nextID: 1}
}

func (f *fakeStore) CreateTerm(_ context.Context, t *Term) error {
	for _, existing := range f.terms {
		if strings.EqualFold(existing.Name, t.Name) {
			return common.ErrTermExists
		}
	}
	t.ID = f.nextID
	f.nextID++
	f.terms[t.ID] = t
	return nil
}

func (f *fakeStore) TermByID(_ context.Context, id int64) (*Term, error) {
	t, ok := f.terms[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) Categories(_ context.Context) ([]string, error) { return nil, nil }

func (f *fakeStore) ByCategory(_ context.Context, category string) ([]*Term, error) {
	var out []*Term
	for _, t := range f.terms {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) Search(_ context.Context, query string) ([]*Term, error) {
	var out []*Term
	for _, t := range f.terms {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(query)) {
			out = append(out, t)
		}
	}
	return out, nil
}

func TestAddTermDuplicateRejected(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.AddTerm(ctx, "Ганк", "нападение из засады", "тактика"); err != nil {
		t.Fatalf("AddTerm: %v", err)
	}
	// дубликат без учёта регистра
	if _, err := svc.AddTerm(ctx, "ганк", "другое определение", "тактика"); !errors.Is(err, common.ErrTermExists) {
		t.Fatalf("ожидался ErrTermExists, получено %v", err)
	}
}

func TestAddTermNormalizes(t *testing.T) {
	svc := NewService(newFakeStore())

	term, err := svc.AddTerm(context.Background(), "  Сплитпуш  ", "  давление по линиям  ", "  тактика  ")
	if err != nil {
		t.Fatalf("AddTerm: %v", err)
	}
	if term.Name != "Сплитпуш" || term.Description != "давление по линиям" || term.Category != "тактика" {
		t.Fatalf("поля не нормализованы: %+v", term)
	}

	if _, err := svc.AddTerm(context.Background(), "   ", "пусто", "тактика"); err == nil {
		t.Fatal("пустое название должно отклоняться")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := NewService(newFakeStore())
	got, err := svc.Search(context.Background(), "   ")
	if err != nil || got != nil {
		t.Fatalf("пустой запрос: %v, %v", got, err)
	}
}
