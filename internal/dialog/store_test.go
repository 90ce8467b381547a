package dialog

import (
	"errors"
	"testing"
	"time"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(ttl)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStoreStartConflict(t *testing.T) {
	s, _ := newTestStore(10 * time.Minute)

	if _, err := s.Start(1, WorkflowProfileCreation, "nickname", nil); err != nil {
		t.Fatalf("первый Start: %v", err)
	}
	if _, err := s.Start(1, WorkflowNoteCreation, "content", nil); !errors.Is(err, common.ErrSessionExists) {
		t.Fatalf("повторный Start: ожидался ErrSessionExists, получено %v", err)
	}

	// другой пользователь не задет
	if _, err := s.Start(2, WorkflowNoteCreation, "content", nil); err != nil {
		t.Fatalf("Start другого пользователя: %v", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)

	if _, err := s.Start(1, WorkflowProfileCreation, "nickname", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}

	*now = now.Add(11 * time.Minute)
	if sess := s.Get(1); sess != nil {
		t.Fatal("истёкшая сессия не должна отдаваться")
	}

	// после истечения можно начать заново
	if _, err := s.Start(1, WorkflowNoteCreation, "content", nil); err != nil {
		t.Fatalf("Start после истечения: %v", err)
	}
}

func TestStoreTouchExtends(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)

	sess, err := s.Start(1, WorkflowProfileCreation, "nickname", nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	*now = now.Add(9 * time.Minute)
	s.Touch(sess)

	*now = now.Add(9 * time.Minute)
	if s.Get(1) == nil {
		t.Fatal("продлённая сессия должна быть живой")
	}
}

func TestStoreStartReplace(t *testing.T) {
	s, _ := newTestStore(10 * time.Minute)

	if _, err := s.Start(1, WorkflowQuizAnswering, "answering", map[string]string{"question_id": "1"}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sess := s.StartReplace(1, WorkflowQuizAnswering, "answering", map[string]string{"question_id": "2"})
	if sess.Fields["question_id"] != "2" {
		t.Fatalf("StartReplace не заменил сессию: %v", sess.Fields)
	}
}

func TestStoreSeedCopied(t *testing.T) {
	s, _ := newTestStore(10 * time.Minute)

	seed := map[string]string{"hero_id": "5"}
	sess, err := s.Start(1, WorkflowBuildCreation, "items", seed)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	seed["hero_id"] = "999"
	if sess.Fields["hero_id"] != "5" {
		t.Fatal("seed должен копироваться, а не разделяться")
	}
}

func TestStoreSweep(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)

	s.Start(1, WorkflowProfileCreation, "nickname", nil)
	s.Start(2, WorkflowNoteCreation, "content", nil)

	*now = now.Add(5 * time.Minute)
	s.Start(3, WorkflowTermSearch, "query", nil)

	*now = now.Add(6 * time.Minute)
	if removed := s.Sweep(); removed != 2 {
		t.Fatalf("Sweep удалил %d, ожидалось 2", removed)
	}
	if s.Get(3) == nil {
		t.Fatal("живая сессия не должна удаляться")
	}
}

func TestStoreClear(t *testing.T) {
	s, _ := newTestStore(10 * time.Minute)

	s.Start(1, WorkflowProfileCreation, "nickname", nil)
	s.Clear(1)
	if s.Get(1) != nil {
		t.Fatal("Clear не удалил сессию")
	}
}
