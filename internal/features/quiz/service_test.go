package quiz

import (
	"context"
	"errors"
	"testing"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// fakeStore — хранилище викторины в памяти.
type fakeStore struct {
	questions map[int64]*Question
	answered  map[[2]int64]bool // (user_id, question_id)
	balances  map[int64]int64
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		questions: make(map[int64]*Question),
		answered:  make(map[[2]int64]bool),
		balances:  make(map[int64]int64),
		nextID:    1,
	}
}

func (f *fakeStore) CreateQuestion(_ context.Context, q *Question) error {
	q.ID = f.nextID
	f.nextID++
	f.questions[q.ID] = q
	return nil
}

func (f *fakeStore) QuestionByID(_ context.Context, id int64) (*Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return q, nil
}

func (f *fakeStore) NextUnanswered(_ context.Context, userID int64) (*Question, error) {
	var best *Question
	for _, q := range f.questions {
		if f.answered[[2]int64{userID, q.ID}] {
			continue
		}
		if best == nil || q.ID < best.ID {
			best = q
		}
	}
	if best == nil {
		return nil, common.ErrQuizExhausted
	}
	return best, nil
}

func (f *fakeStore) RecordAnswer(_ context.Context, userID, questionID int64, _ string, correct bool, reward int64) (int64, error) {
	key := [2]int64{userID, questionID}
	if f.answered[key] {
		return 0, common.ErrAlreadyAnswered
	}
	f.answered[key] = true
	if correct {
		f.balances[userID] += reward
	}
	return f.balances[userID], nil
}

func mustCreate(t *testing.T, svc *Service, text string, options []string, correct string, reward int64) *Question {
	t.Helper()
	q, err := svc.CreateQuestion(context.Background(), text, options, correct, reward)
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	return q
}

func TestNextForSkipsAnswered(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	q1 := mustCreate(t, svc, "Вопрос 1", []string{"а", "б"}, "а", 10)
	q2 := mustCreate(t, svc, "Вопрос 2", []string{"в", "г"}, "г", 20)

	got, err := svc.NextFor(ctx, 1)
	if err != nil || got.ID != q1.ID {
		t.Fatalf("NextFor: %+v, %v", got, err)
	}

	if _, err := svc.SubmitAnswer(ctx, 1, q1.ID, "а"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	got, err = svc.NextFor(ctx, 1)
	if err != nil || got.ID != q2.ID {
		t.Fatalf("после ответа NextFor: %+v, %v", got, err)
	}

	// другому пользователю вопрос 1 всё ещё выдаётся
	got, err = svc.NextFor(ctx, 2)
	if err != nil || got.ID != q1.ID {
		t.Fatalf("NextFor другого пользователя: %+v, %v", got, err)
	}
}

func TestNextForExhausted(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	q := mustCreate(t, svc, "Единственный", []string{"а", "б"}, "б", 5)
	if _, err := svc.SubmitAnswer(ctx, 1, q.ID, "б"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	if _, err := svc.NextFor(ctx, 1); !errors.Is(err, common.ErrQuizExhausted) {
		t.Fatalf("ожидался ErrQuizExhausted, получено %v", err)
	}
}

func TestShuffleOptionsDoesNotMutate(t *testing.T) {
	svc := NewService(newFakeStore())
	q := &Question{Options: []string{"один", "два", "три", "четыре"}}

	original := make([]string, len(q.Options))
	copy(original, q.Options)

	for i := 0; i < 20; i++ {
		shuffled := svc.ShuffleOptions(q)
		if len(shuffled) != len(original) {
			t.Fatalf("перестановка потеряла варианты: %v", shuffled)
		}
		seen := make(map[string]bool)
		for _, opt := range shuffled {
			seen[opt] = true
		}
		for _, opt := range original {
			if !seen[opt] {
				t.Fatalf("вариант %q пропал из перестановки %v", opt, shuffled)
			}
		}
	}

	for i := range original {
		if q.Options[i] != original[i] {
			t.Fatal("ShuffleOptions изменил канонический порядок")
		}
	}
}

func TestSubmitAnswerScoresByValue(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	q := mustCreate(t, svc, "Столица?", []string{"Москва", "Париж"}, "Москва", 50)

	// правильный ответ значением, независимо от порядка показа
	res, err := svc.SubmitAnswer(ctx, 1, q.ID, "Москва")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !res.Correct || res.Reward != 50 || res.NewBalance != 50 {
		t.Fatalf("результат: %+v", res)
	}

	// неверный ответ другого пользователя: награды нет, но попытка записана
	res, err = svc.SubmitAnswer(ctx, 2, q.ID, "Париж")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if res.Correct || res.Reward != 0 {
		t.Fatalf("неверный ответ оценён как верный: %+v", res)
	}
	if res.CorrectAnswer != "Москва" {
		t.Fatalf("правильный ответ в результате: %q", res.CorrectAnswer)
	}
}

func TestSubmitAnswerNoReplay(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	q := mustCreate(t, svc, "Вопрос", []string{"а", "б"}, "а", 10)

	if _, err := svc.SubmitAnswer(ctx, 1, q.ID, "б"); err != nil {
		t.Fatalf("первый ответ: %v", err)
	}
	// повторный ответ (даже правильный) не переоценивается
	if _, err := svc.SubmitAnswer(ctx, 1, q.ID, "а"); !errors.Is(err, common.ErrAlreadyAnswered) {
		t.Fatalf("ожидался ErrAlreadyAnswered, получено %v", err)
	}
	if store.balances[1] != 0 {
		t.Fatalf("повторный ответ изменил баланс: %d", store.balances[1])
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	cases := []struct {
		name    string
		text    string
		options []string
		correct string
		reward  int64
	}{
		{"один вариант", "Вопрос", []string{"а"}, "а", 10},
		{"правильный не из списка", "Вопрос", []string{"а", "б"}, "в", 10},
		{"нулевая награда", "Вопрос", []string{"а", "б"}, "а", 0},
		{"отрицательная награда", "Вопрос", []string{"а", "б"}, "а", -5},
		{"пустой текст", "  ", []string{"а", "б"}, "а", 10},
	}
	for _, c := range cases {
		if _, err := svc.CreateQuestion(ctx, c.text, c.options, c.correct, c.reward); err == nil {
			t.Errorf("%s: вопрос не должен создаваться", c.name)
		}
	}
}
