package profile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/config"
)

type fakeStore struct {
	users  map[int64]*User
	builds []*Build
	notes  []*Note
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[int64]*User), nextID: 1}
}

func (f *fakeStore) CreateUser(_ context.Context, u *User) error {
	if _, ok := f.users[u.UserID]; ok {
		return common.ErrProfileExists
	}
	u.ID = f.nextID
	f.nextID++
	f.users[u.UserID] = u
	return nil
}

func (f *fakeStore) ByUserID(_ context.Context, userID int64) (*User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, common.ErrNoProfile
	}
	return u, nil
}

func (f *fakeStore) MissingUsers(_ context.Context, ids []int64) ([]int64, error) {
	var missing []int64
	for _, id := range ids {
		if _, ok := f.users[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (f *fakeStore) CreateBuild(_ context.Context, b *Build) error {
	b.ID = f.nextID
	f.nextID++
	f.builds = append(f.builds, b)
	return nil
}

func (f *fakeStore) BuildsByUser(_ context.Context, userID int64) ([]*Build, error) {
	var out []*Build
	for _, b := range f.builds {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) BuildByID(_ context.Context, userID, buildID int64) (*Build, error) {
	for _, b := range f.builds {
		if b.ID == buildID && b.UserID == userID {
			return b, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeStore) CreateNote(_ context.Context, n *Note) error {
	n.ID = f.nextID
	f.nextID++
	f.notes = append(f.notes, n)
	return nil
}

func (f *fakeStore) NotesByUser(_ context.Context, userID int64) ([]*Note, error) {
	var out []*Note
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeStore) NoteByID(_ context.Context, userID, noteID int64) (*Note, error) {
	for _, n := range f.notes {
		if n.ID == noteID && n.UserID == userID {
			return n, nil
		}
	}
	return nil, common.ErrNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		EconomyStartingBalance: 100,
		NoteTitleLimit:         30,
	}
}

func TestCreateProfileStartingBalance(t *testing.T) {
	svc := NewService(newFakeStore(), testConfig())
	ctx := context.Background()

	u, err := svc.CreateProfile(ctx, 1, "vasya", "Вася", 12345)
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if u.Diamonds != 100 {
		t.Fatalf("стартовый баланс %d, ожидалось 100", u.Diamonds)
	}

	if _, err := svc.CreateProfile(ctx, 1, "vasya", "Вася", 12345); !errors.Is(err, common.ErrProfileExists) {
		t.Fatalf("повторное создание: ожидался ErrProfileExists, получено %v", err)
	}
}

func TestExists(t *testing.T) {
	svc := NewService(newFakeStore(), testConfig())
	ctx := context.Background()

	exists, err := svc.Exists(ctx, 1)
	if err != nil || exists {
		t.Fatalf("Exists до создания: %v, %v", exists, err)
	}

	svc.CreateProfile(ctx, 1, "vasya", "Вася", 12345)
	exists, err = svc.Exists(ctx, 1)
	if err != nil || !exists {
		t.Fatalf("Exists после создания: %v, %v", exists, err)
	}
}

// wrappingStore оборачивает ErrNoProfile, как это может делать
// репозиторий с контекстом ошибки.
type wrappingStore struct{ *fakeStore }

func (w *wrappingStore) ByUserID(ctx context.Context, userID int64) (*User, error) {
	u, err := w.fakeStore.ByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("профиль %d: %w", userID, err)
	}
	return u, nil
}

func TestExistsUnwrapsSentinel(t *testing.T) {
	svc := NewService(&wrappingStore{newFakeStore()}, testConfig())

	exists, err := svc.Exists(context.Background(), 1)
	if err != nil {
		t.Fatalf("обёрнутый ErrNoProfile должен распознаваться: %v", err)
	}
	if exists {
		t.Fatal("профиля нет, Exists должен вернуть false")
	}
}

func TestCreateNoteTruncatesTitle(t *testing.T) {
	svc := NewService(newFakeStore(), testConfig())
	ctx := context.Background()
	svc.CreateProfile(ctx, 1, "vasya", "Вася", 12345)

	content := "очень длинный текст заметки, который точно не влезает в тридцать символов заголовка"
	n, err := svc.CreateNote(ctx, 1, content)
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	wantTitle := common.TruncateTitle(content, 30)
	if n.Title != wantTitle {
		t.Fatalf("заголовок %q, ожидалось %q", n.Title, wantTitle)
	}
	if n.Content != content {
		t.Fatal("содержимое заметки не должно усекаться")
	}
}

func TestBuildOwnership(t *testing.T) {
	svc := NewService(newFakeStore(), testConfig())
	ctx := context.Background()

	b, err := svc.CreateBuild(ctx, 1, nil, "меч, щит", "стандарт")
	if err != nil {
		t.Fatalf("CreateBuild: %v", err)
	}

	// чужая сборка не отдаётся
	if _, err := svc.Build(ctx, 2, b.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("чужая сборка: ожидался ErrNotFound, получено %v", err)
	}
	if _, err := svc.Build(ctx, 1, b.ID); err != nil {
		t.Fatalf("своя сборка: %v", err)
	}
}

func TestMissingUsersEmptyInput(t *testing.T) {
	svc := NewService(newFakeStore(), testConfig())
	missing, err := svc.MissingUsers(context.Background(), nil)
	if err != nil || missing != nil {
		t.Fatalf("пустой список: %v, %v", missing, err)
	}
}
