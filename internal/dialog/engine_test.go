package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// testWorkflow — двухшаговый диалог: имя → положительное число → коммит.
func testWorkflow(commit CommitFunc) *Definition {
	return &Definition{
		Workflow: WorkflowProfileCreation,
		Steps: []Step{
			{
				Name:   "name",
				Prompt: "Введите имя:",
				Field:  "name",
				Next:   "amount",
			},
			{
				Name:   "amount",
				Prompt: "Введите число:",
				Field:  "amount",
				Validate: func(_ context.Context, raw string, _ map[string]string) (string, error) {
					if strings.TrimSpace(raw) != "42" {
						return "", fmt.Errorf("введите 42")
					}
					return "42", nil
				},
			},
		},
		Commit: commit,
	}
}

func newTestEngine(t *testing.T, commit CommitFunc) *Engine {
	t.Helper()
	e := NewEngine(NewStore(10 * time.Minute))
	e.Register(testWorkflow(commit))
	return e
}

func TestEngineHappyPath(t *testing.T) {
	var committed *Session
	e := newTestEngine(t, func(_ context.Context, sess *Session) (string, error) {
		committed = sess
		return "готово", nil
	})
	ctx := context.Background()

	prompt, err := e.Start(ctx, 1, WorkflowProfileCreation, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if prompt != "Введите имя:" {
		t.Fatalf("первый вопрос: %q", prompt)
	}

	reply, done, err := e.HandleInput(ctx, 1, "Вася")
	if err != nil || done {
		t.Fatalf("первый шаг: reply=%q done=%v err=%v", reply, done, err)
	}
	if reply != "Введите число:" {
		t.Fatalf("второй вопрос: %q", reply)
	}

	reply, done, err = e.HandleInput(ctx, 1, "42")
	if err != nil || !done {
		t.Fatalf("коммит: reply=%q done=%v err=%v", reply, done, err)
	}
	if reply != "готово" {
		t.Fatalf("ответ коммита: %q", reply)
	}
	if committed == nil || committed.Fields["name"] != "Вася" || committed.Fields["amount"] != "42" {
		t.Fatalf("поля коммита: %+v", committed)
	}
}

func TestEngineInvalidInputKeepsState(t *testing.T) {
	e := newTestEngine(t, func(_ context.Context, _ *Session) (string, error) {
		return "готово", nil
	})
	ctx := context.Background()

	e.Start(ctx, 1, WorkflowProfileCreation, nil)
	e.HandleInput(ctx, 1, "Вася")

	reply, done, err := e.HandleInput(ctx, 1, "не число")
	if err != nil || done {
		t.Fatalf("невалидный ввод: done=%v err=%v", done, err)
	}
	if !strings.HasPrefix(reply, "❌ ") {
		t.Fatalf("ожидалась причина с ❌, получено %q", reply)
	}

	// после причины правильный ввод всё ещё принимается
	if _, done, _ := e.HandleInput(ctx, 1, "42"); !done {
		t.Fatal("диалог не завершился после корректного ввода")
	}
}

func TestEngineEmptyInputRejected(t *testing.T) {
	e := newTestEngine(t, func(_ context.Context, _ *Session) (string, error) {
		return "готово", nil
	})
	ctx := context.Background()

	e.Start(ctx, 1, WorkflowProfileCreation, nil)
	reply, done, err := e.HandleInput(ctx, 1, "   ")
	if err != nil || done {
		t.Fatalf("пустой ввод: done=%v err=%v", done, err)
	}
	if !strings.HasPrefix(reply, "❌ ") {
		t.Fatalf("пустой ввод должен переспросить: %q", reply)
	}
}

func TestEngineCommitRetry(t *testing.T) {
	attempts := 0
	e := newTestEngine(t, func(_ context.Context, _ *Session) (string, error) {
		attempts++
		if attempts == 1 {
			return "", fmt.Errorf("база недоступна")
		}
		return "готово", nil
	})
	ctx := context.Background()

	e.Start(ctx, 1, WorkflowProfileCreation, nil)
	e.HandleInput(ctx, 1, "Вася")

	// первый коммит падает, сессия остаётся
	_, done, err := e.HandleInput(ctx, 1, "42")
	if err == nil || done {
		t.Fatalf("первый коммит должен упасть: done=%v err=%v", done, err)
	}

	// любое сообщение повторяет коммит без повторного ввода
	reply, done, err := e.HandleInput(ctx, 1, "что угодно")
	if err != nil || !done {
		t.Fatalf("повтор коммита: reply=%q done=%v err=%v", reply, done, err)
	}
	if attempts != 2 {
		t.Fatalf("коммит вызван %d раз", attempts)
	}
}

func TestEngineNoSession(t *testing.T) {
	e := newTestEngine(t, func(_ context.Context, _ *Session) (string, error) {
		return "готово", nil
	})

	_, _, err := e.HandleInput(context.Background(), 1, "привет")
	if !errors.Is(err, common.ErrNoSession) {
		t.Fatalf("ожидался ErrNoSession, получено %v", err)
	}
}

func TestEngineCancel(t *testing.T) {
	e := newTestEngine(t, func(_ context.Context, _ *Session) (string, error) {
		return "готово", nil
	})
	ctx := context.Background()

	if e.Cancel(1) {
		t.Fatal("Cancel без сессии должен вернуть false")
	}

	e.Start(ctx, 1, WorkflowProfileCreation, nil)
	if !e.Cancel(1) {
		t.Fatal("Cancel с сессией должен вернуть true")
	}
	if _, _, err := e.HandleInput(ctx, 1, "Вася"); !errors.Is(err, common.ErrNoSession) {
		t.Fatal("после отмены сессии быть не должно")
	}
}

func TestEngineStartConflict(t *testing.T) {
	e := newTestEngine(t, func(_ context.Context, _ *Session) (string, error) {
		return "готово", nil
	})
	ctx := context.Background()

	e.Start(ctx, 1, WorkflowProfileCreation, nil)
	if _, err := e.Start(ctx, 1, WorkflowProfileCreation, nil); !errors.Is(err, common.ErrSessionExists) {
		t.Fatalf("ожидался ErrSessionExists, получено %v", err)
	}
}

func TestDefinitionVerify(t *testing.T) {
	bad := &Definition{
		Workflow: WorkflowNoteCreation,
		Steps: []Step{
			{Name: "a", Field: "a", Next: "несуществующий"},
		},
		Commit: func(_ context.Context, _ *Session) (string, error) { return "", nil },
	}
	if err := bad.Verify(); err == nil {
		t.Fatal("битая таблица переходов должна отклоняться")
	}

	noCommit := &Definition{
		Workflow: WorkflowNoteCreation,
		Steps:    []Step{{Name: "a", Field: "a"}},
	}
	if err := noCommit.Verify(); err == nil {
		t.Fatal("диалог без коммита должен отклоняться")
	}

	dup := &Definition{
		Workflow: WorkflowNoteCreation,
		Steps: []Step{
			{Name: "a", Field: "a"},
			{Name: "a", Field: "b"},
		},
		Commit: func(_ context.Context, _ *Session) (string, error) { return "", nil },
	}
	if err := dup.Verify(); err == nil {
		t.Fatal("дубликат имени шага должен отклоняться")
	}
}
